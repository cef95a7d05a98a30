package cache

import "time"

// Cache is the caching interface shared by the memory and Redis backends.
// Values are stored as JSON; Get unmarshals into dest and reports whether a
// live entry was found.
type Cache interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
}
