package storage

import (
	"sync"
	"sync/atomic"

	"github.com/ignitekv/ignite/internal/index"
	"github.com/ignitekv/ignite/pkg/options"
	"go.uber.org/zap"
)

// Engine is the log-structured storage engine: an append-only segment set
// on disk plus the in-memory Index that points into it.
//
// Every field is either a pointer or an already-shared structure, so Engine
// is safe to copy by value — Clone hands out a second handle over the same
// writer, index, and segment table as the original, the same way a cloned
// handle shares interior state in the reference engine this was modeled on.
type Engine struct {
	dataDir string
	options *options.Options
	log     *zap.SugaredLogger

	idx  *index.Index
	segs *segmentTable

	// writerMu serializes the append path (Set, Remove) against itself and
	// against compaction. A compaction pass holds it for its entire
	// duration, not just the final segment swap, so that no write can land
	// in a segment generation that compaction is about to delete.
	writerMu  *sync.Mutex
	writer    *positionedWriter
	activeGen *uint64 // mutated only while writerMu is held

	stale *atomic.Uint64 // bytes in closed-over segments no live pointer reaches
}

// Config encapsulates what an Open call needs to bring an Engine up.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}
