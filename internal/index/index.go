// Package index provides the in-memory mapping from key to Pointer that
// backs point lookups in the storage engine. It is fully rebuildable by
// replaying the segments on disk, so it never persists itself.
package index

import (
	"context"
	stdErrors "errors"

	"github.com/ignitekv/ignite/pkg/errors"
)

var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed index")

// New creates an empty Index ready for concurrent use.
func New(ctx context.Context, config *Config) (*Index, error) {
	if config == nil || config.DataDir == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:     config.Logger,
		dataDir: config.DataDir,
		entries: make(map[string]Pointer, 1024),
	}, nil
}

// Get returns the Pointer for key and whether it was present.
func (idx *Index) Get(key string) (Pointer, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	p, ok := idx.entries[key]
	return p, ok
}

// Put inserts or replaces the Pointer for key, returning the previous
// Pointer and whether one existed.
func (idx *Index) Put(key string, p Pointer) (Pointer, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	prev, ok := idx.entries[key]
	idx.entries[key] = p
	return prev, ok
}

// Delete removes the Pointer for key, returning the previous Pointer and
// whether one existed.
func (idx *Index) Delete(key string) (Pointer, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	prev, ok := idx.entries[key]
	if ok {
		delete(idx.entries, key)
	}
	return prev, ok
}

// Range calls fn for every entry under the read lock, in no particular
// order, stopping early if fn returns false. Used by compaction to iterate
// a consistent snapshot while migrating live records.
func (idx *Index) Range(fn func(key string, p Pointer) bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for key, p := range idx.entries {
		if !fn(key, p) {
			return
		}
	}
}

// Update rewrites the Pointer for an existing key in place, used by
// compaction to repoint each key at its migrated copy once the copy pass
// has finished. It is a no-op if the key is not present.
func (idx *Index) Update(key string, p Pointer) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.entries[key]; ok {
		idx.entries[key] = p
	}
}

// Len returns the number of live entries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases the index's backing map. The index must not be used
// afterward.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	clear(idx.entries)
	idx.entries = nil

	return nil
}
