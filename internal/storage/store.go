// Package storage defines the key-value save store used for content and
// session persistence, with interchangeable backends.
package storage

// Well-known key prefixes. Content categories persist under "save/<category>";
// the session snapshot persists under KeyGameSave.
const (
	KeyPrefix   = "save/"
	KeyGameSave = "save/game"
)

// CategoryKey returns the persistence key for a content category.
func CategoryKey(category string) string {
	return KeyPrefix + category
}

// Store is a JSON-value key-value store. Implementations must be safe for
// concurrent use. A missing key is not an error: Get reports presence via
// its second return value.
type Store interface {
	// Get returns the value stored under key, and whether it was present.
	Get(key string) ([]byte, bool, error)
	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error
	// Close releases backend resources.
	Close() error
}
