// Package clock abstracts time so expiry comparisons can be driven by
// a fixed instant in tests instead of the wall clock.
package clock

import "time"

// Clock supplies the current instant to the reservation engine and the
// expiry reclaimer.  All implementations return UTC times.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now().UTC() }

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always reports the same instant.
func NewFixed(t time.Time) Clock { return fixedClock{now: t.UTC()} }

func (f fixedClock) Now() time.Time { return f.now }
