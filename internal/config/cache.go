package config

import (
    "os"
    "strconv"
    "time"
)

// SeatMapCacheConfig controls the Redis cache in front of the seat-map
// endpoint.  Only that endpoint is cached: it is read-heavy (every
// booker polls it while choosing a seat) and its staleness window is
// bounded both by TTL and by explicit invalidation whenever a seat on
// the schedule is claimed or released.
type SeatMapCacheConfig struct {
    Enabled      bool          // master switch
    TTL          time.Duration // entry lifetime when no write invalidates earlier
    Prefix       string        // key namespace, keys are <prefix>:<schedule id>
    MaxBodyBytes int           // responses larger than this are not cached
}

// LoadSeatMapCacheConfig reads environment variables to build a
// SeatMapCacheConfig.  Defaults are used when variables are not set.
func LoadSeatMapCacheConfig() SeatMapCacheConfig {
    return SeatMapCacheConfig{
        Enabled:      getenv("SEATMAP_CACHE_ENABLED", "true") == "true",
        TTL:          parseDur(getenv("SEATMAP_CACHE_TTL", "15s")),
        Prefix:       getenv("SEATMAP_CACHE_PREFIX", "seatmap"),
        MaxBodyBytes: atoi(getenv("SEATMAP_CACHE_MAX_BODY_BYTES", "1048576")),
    }
}

// Helper functions shared with ratelimit.go.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func atoi(s string) int {
    i, _ := strconv.Atoi(s)
    return i
}

func parseDur(s string) time.Duration {
    d, err := time.ParseDuration(s)
    if err != nil {
        return time.Second
    }
    return d
}
