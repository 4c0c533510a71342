package index

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Pointer names the byte range of a single Set record inside one segment
// generation. Invariant: Offset+Length never exceeds that segment's
// on-disk size, and the bytes at that range decode to a Set record whose
// key matches the index entry holding the pointer.
type Pointer struct {
	Generation uint64
	Offset     int64
	Length     int64
}

// Index is the in-memory key → Pointer mapping. An entry exists for a key
// iff the most recent record observed for it, across all segments in
// generation-then-offset order, was a Set; a Remove erases the entry. The
// whole structure is rebuildable by replaying the segments from scratch.
type Index struct {
	dataDir string
	log     *zap.SugaredLogger
	entries map[string]Pointer
	mu      sync.RWMutex
	closed  atomic.Bool
}

// Config holds the parameters needed to construct an Index.
type Config struct {
	DataDir string
	Logger  *zap.SugaredLogger
}
