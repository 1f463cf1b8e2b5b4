package fscache

import "time"

// Config holds configuration for the filesystem metadata cache.
type Config struct {
	// Enabled turns the cache on. When off, every lookup hits the filesystem.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// TTLMillis is how long a cached lookup stays valid, in milliseconds.
	TTLMillis int `mapstructure:"ttl_ms" default:"2000"`
	// Workers bounds the number of concurrent filesystem lookups.
	Workers int `mapstructure:"workers" default:"64"`
	// Watch invalidates the cache on filesystem change events.
	Watch bool `mapstructure:"watch" default:"true"`
}

// TTL returns the entry lifetime, falling back to two seconds.
func (c Config) TTL() time.Duration {
	if c.TTLMillis <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.TTLMillis) * time.Millisecond
}

// WorkerCount returns the lookup concurrency, falling back to 64.
func (c Config) WorkerCount() int64 {
	if c.Workers <= 0 {
		return 64
	}
	return int64(c.Workers)
}
