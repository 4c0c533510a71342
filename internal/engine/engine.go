// Package engine names the capability every backing key/value
// implementation exposes. internal/storage.Engine (the log-structured
// store) and internal/sled.Engine (a reference B-tree wrapper) both
// implement it, so the server and CLI can bind to whichever one the
// server's engine marker selects without caring which it got.
package engine

// Engine is the operation set a storage backend must provide.
type Engine interface {
	// Set stores val under key, replacing any existing value.
	Set(key, val string) error

	// Get returns the value stored for key, or ok=false if absent.
	Get(key string) (val string, ok bool, err error)

	// Remove deletes key. It returns an error wrapping
	// pkg/errors.ErrKeyNotFound if key is absent.
	Remove(key string) error

	// Close releases any resources the engine holds open.
	Close() error
}
