package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Durations use Go duration
// syntax ("5m", "90s"); required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
type Config struct {
	Env                string        // application environment (e.g. "dev", "prod")
	Port               string        // HTTP port to listen on
	DBUser             string        // database username
	DBPass             string        // database password (optional)
	DBHost             string        // database host address
	DBPort             string        // database port number
	DBName             string        // database name
	HoldTTL            time.Duration // lifetime of a new seat hold
	SessionTTL         time.Duration // sliding booking-session expiry window
	MaxSessionLifetime time.Duration // hard cap on a session's total lifetime
	SweepInterval      time.Duration // how often the expiry reclaimer runs
	SweepBatch         int           // max rows one reclaimer sweep picks up
}

// Load reads configuration values from environment variables and
// returns a Config.  Engine timings fall back to sensible defaults so
// a development instance only needs the database variables set.
func Load() Config {
	return Config{
		Env:                must("APP_ENV"),
		Port:               must("APP_PORT"),
		DBUser:             must("DB_USER"),
		DBPass:             os.Getenv("DB_PASS"), // empty allowed
		DBHost:             must("DB_HOST"),
		DBPort:             must("DB_PORT"),
		DBName:             must("DB_NAME"),
		HoldTTL:            envDur("HOLD_TTL", 5*time.Minute),
		SessionTTL:         envDur("SESSION_TTL", 30*time.Minute),
		MaxSessionLifetime: envDur("MAX_SESSION_LIFETIME", 2*time.Hour),
		SweepInterval:      envDur("SWEEP_INTERVAL", 15*time.Second),
		SweepBatch:         envInt("SWEEP_BATCH", 200),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or the given default.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt parses an integer variable, falling back to def when unset.
func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// envDur parses a duration variable, falling back to def when unset.
func envDur(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}

// envBool parses a boolean variable ("true"/"1"), falling back to def.
func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "":
		return def
	case "1", "true", "TRUE", "True":
		return true
	default:
		return false
	}
}
