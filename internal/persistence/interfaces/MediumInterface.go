package interfaces

// MediumInterface is a durable key-value store holding one JSON document per key.
type MediumInterface interface {
	// Available reports whether the medium can persist at all. A medium that is
	// not available is never read from or written to.
	Available() bool
	// GetItem returns the stored value and whether the key exists.
	GetItem(key string) ([]byte, bool, error)
	// SetItem replaces the value of key in a single write.
	SetItem(key string, value []byte) error
	Close() error
}
