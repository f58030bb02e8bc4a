package config

import "time"

// CacheConfig defines settings for the orphanage browse response cache. When
// Enabled is false or no Redis client is available, caching is disabled. TTL
// defines the lifetime of cache entries; MaxBodyBytes caps the size of a
// cached response body.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig. Caching
// is off by default so that freshly written rows are always visible; it is an
// opt-in for read-heavy deployments.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", false),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
