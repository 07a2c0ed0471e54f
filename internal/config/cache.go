package config

import "time"

// CacheConfig defines settings for the seat-map response cache.  Seat
// maps are read far more often than they change, so successful GET
// responses are kept in Redis for a short TTL and invalidated whenever
// a seat on the schedule changes state.
type CacheConfig struct {
	Enabled bool          // feature switch
	TTL     time.Duration // lifetime of a cached seat map
	Prefix  string        // Redis key namespace
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 10*time.Second),
		Prefix:  getenv("CACHE_PREFIX", "seatmap"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}
	return cfg
}
