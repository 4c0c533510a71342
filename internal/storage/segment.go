package storage

import (
	"os"
	"path/filepath"
	"sync"

	ignerrors "github.com/ignitekv/ignite/pkg/errors"
	"github.com/ignitekv/ignite/pkg/seginfo"
	"go.uber.org/multierr"
)

// segmentTable is the set of shared read handles, one per live segment
// generation. Get looks a generation up without touching writerMu;
// compaction is the only thing that ever replaces the whole table.
type segmentTable struct {
	mu      sync.RWMutex
	readers map[uint64]*positionedReader
	dataDir string
	mode    os.FileMode
}

func newSegmentTable(dataDir string, mode os.FileMode) *segmentTable {
	return &segmentTable{readers: make(map[uint64]*positionedReader), dataDir: dataDir, mode: mode}
}

func (t *segmentTable) get(generation uint64) (*positionedReader, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.readers[generation]
	return r, ok
}

// openReader opens generation's segment file read-only and registers the
// handle under the table.
func (t *segmentTable) openReader(generation uint64) (*positionedReader, error) {
	name := seginfo.GenerateName(generation)
	path := filepath.Join(t.dataDir, name)

	file, err := os.OpenFile(path, os.O_RDONLY, t.mode)
	if err != nil {
		return nil, ignerrors.ClassifyFileOpenError(err, path, name)
	}
	reader := newPositionedReader(file)

	t.mu.Lock()
	t.readers[generation] = reader
	t.mu.Unlock()
	return reader, nil
}

// replaceAndPrune installs kept as the entire table, then closes and
// deletes every previously-registered segment whose generation is strictly
// below keepFrom. Called once, at the end of a compaction pass.
func (t *segmentTable) replaceAndPrune(kept map[uint64]*positionedReader, keepFrom uint64) error {
	t.mu.Lock()
	old := t.readers
	t.readers = kept
	t.mu.Unlock()

	var errs []error
	for generation, reader := range old {
		if generation >= keepFrom {
			continue
		}
		if err := reader.Close(); err != nil {
			errs = append(errs, err)
		}
		path := filepath.Join(t.dataDir, seginfo.GenerateName(generation))
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}

func (t *segmentTable) closeAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	for _, reader := range t.readers {
		if err := reader.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	t.readers = nil
	return multierr.Combine(errs...)
}
