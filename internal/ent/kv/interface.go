package kv

// KeyVal is a persistent key-value store.
type KeyVal interface {
	// Open opens a key-value store.
	Open() error

	// Close closes a key-value store.
	Close() error

	// GetValue returns a value for a key, or nil if the key is absent.
	GetValue(key []byte) ([]byte, error)

	// SetValue saves a value under a key.
	SetValue(key, val []byte) error

	// Reset removes all keys from the store.
	Reset() error
}
