// Package cache keeps rendered seat maps in Redis.  A seat map is
// read by every customer browsing a flight but changes only when a
// seat transitions state, so short-lived cached copies with explicit
// invalidation take most of the read load off MySQL.
package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/flight-seat-inventory/internal/config"
)

// SeatMapCache caches the JSON seat map of a schedule.  A nil Redis
// client disables the cache entirely; all methods degrade to misses.
type SeatMapCache struct {
	rdb *redis.Client
	cfg config.CacheConfig
}

// NewSeatMapCache builds a cache from the given client and settings.
func NewSeatMapCache(rdb *redis.Client, cfg config.CacheConfig) *SeatMapCache {
	return &SeatMapCache{rdb: rdb, cfg: cfg}
}

func (c *SeatMapCache) enabled() bool {
	return c != nil && c.cfg.Enabled && c.rdb != nil
}

func (c *SeatMapCache) key(scheduleID uint64) string {
	return fmt.Sprintf("%s:%d", c.cfg.Prefix, scheduleID)
}

// Get returns the cached seat map payload for a schedule, if present.
func (c *SeatMapCache) Get(ctx context.Context, scheduleID uint64) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}
	payload, err := c.rdb.Get(ctx, c.key(scheduleID)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores a rendered seat map for the configured TTL.  Failures
// are logged and ignored; the cache is best effort.
func (c *SeatMapCache) Set(ctx context.Context, scheduleID uint64, payload []byte) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Set(ctx, c.key(scheduleID), payload, c.cfg.TTL).Err(); err != nil {
		log.Printf("seatmap-cache: set schedule=%d failed: %v", scheduleID, err)
	}
}

// Invalidate drops the cached seat map of a schedule after any seat
// state change so clients never see a booked seat as available for
// longer than one round trip.
func (c *SeatMapCache) Invalidate(ctx context.Context, scheduleID uint64) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, c.key(scheduleID)).Err(); err != nil {
		log.Printf("seatmap-cache: invalidate schedule=%d failed: %v", scheduleID, err)
	}
}
