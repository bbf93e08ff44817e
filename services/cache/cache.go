package cache

import "time"

// Service is a generic expiring key-value cache. The fetch layer uses it to
// remember that a source rate-limited us, so subsequent fetch attempts
// short-circuit instead of hammering the site.
type Service interface {
	// Get retrieves a value from the cache.
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time.
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache.
	Delete(key string) error
}
