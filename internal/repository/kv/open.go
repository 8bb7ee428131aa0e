package kv

import "fmt"

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

// Open returns the store for backend rooted at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(path)
	case BackendPebble:
		return OpenPebble(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// NewMemoryStore returns a process-local store, used by tests and by
// commands that must not touch disk.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string][]byte)}
}
