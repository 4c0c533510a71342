// Package storage is the log-structured storage engine: an append-only
// segment set on disk, an in-memory index of where each key's latest value
// lives, and compaction to reclaim space behind overwritten and removed
// keys.
//
// Opening the engine replays every segment it finds in the configured data
// directory, in generation order, to rebuild the index and the stale-byte
// counter that decides when the next compaction pass runs. From then on,
// Set appends its record to the active segment before updating the index,
// and Remove drops the index entry and then appends its Remove record, so
// the index is derivable from what is on disk — it never needs to be
// persisted itself.
package storage

import (
	"bufio"
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/ignitekv/ignite/internal/codec"
	"github.com/ignitekv/ignite/internal/index"
	ignerrors "github.com/ignitekv/ignite/pkg/errors"
	"github.com/ignitekv/ignite/pkg/filesys"
	"github.com/ignitekv/ignite/pkg/seginfo"
	"go.uber.org/multierr"
)

// Open discovers and replays every existing segment under config.Options.DataDir,
// then opens a new active segment for appends. An empty data directory
// bootstraps a fresh engine starting at generation 1.
func Open(ctx context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, fmt.Errorf("storage: options and logger are required")
	}
	opts := config.Options
	log := config.Logger
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	log.Infow("opening storage engine", "dataDir", opts.DataDir, "compactionThreshold", opts.CompactionThreshold)

	if err := filesys.CreateDir(opts.DataDir, 0755, true); err != nil {
		return nil, ignerrors.ClassifyDirectoryCreationError(err, opts.DataDir)
	}

	idx, err := index.New(ctx, &index.Config{DataDir: opts.DataDir, Logger: log})
	if err != nil {
		return nil, err
	}

	mode := os.FileMode(opts.SegmentFileMode)
	segs := newSegmentTable(opts.DataDir, mode)

	generations, err := seginfo.Discover(opts.DataDir)
	if err != nil {
		return nil, ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to discover segment files").
			WithPath(opts.DataDir)
	}
	log.Infow("discovered segments", "count", len(generations))

	var stale atomic.Uint64
	for _, generation := range generations {
		reader, err := segs.openReader(generation)
		if err != nil {
			return nil, err
		}
		if err := replaySegment(reader, generation, idx, &stale); err != nil {
			return nil, err
		}
	}

	activeGen := seginfo.NextGeneration(generations)
	writer, err := createActiveSegment(opts.DataDir, activeGen, mode)
	if err != nil {
		return nil, err
	}
	if _, err := segs.openReader(activeGen); err != nil {
		return nil, err
	}

	log.Infow("storage engine ready", "activeGeneration", activeGen, "keys", idx.Len(), "staleBytes", stale.Load())

	writerMu := &sync.Mutex{}
	gen := activeGen
	return &Engine{
		dataDir:   opts.DataDir,
		options:   opts,
		log:       log,
		idx:       idx,
		segs:      segs,
		writerMu:  writerMu,
		writer:    writer,
		activeGen: &gen,
		stale:     &stale,
	}, nil
}

// replaySegment decodes every record in one segment in order, applying each
// to idx exactly as Set/Remove would have, and accruing stale bytes for
// every pointer a later record invalidates. A truncated trailing record —
// the shape of a crash mid-append — ends replay of this segment without
// error.
func replaySegment(reader *positionedReader, generation uint64, idx *index.Index, stale *atomic.Uint64) error {
	if err := reader.SeekStart(); err != nil {
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to seek segment for replay").
			WithGeneration(generation)
	}

	dec := codec.NewStreamDecoder(bufio.NewReader(reader.SequentialReader()))
	var pos int64
	for {
		cmd, end, err := dec.Next()
		if err != nil {
			if stdErrors.Is(err, codec.ErrTruncated) {
				return nil
			}
			return ignerrors.NewCodecError(err, "failed to decode record during replay").
				WithOffset(pos)
		}

		length := end - pos
		switch cmd.Type {
		case codec.CommandSet:
			prev, existed := idx.Put(cmd.Key, index.Pointer{Generation: generation, Offset: pos, Length: length})
			if existed {
				stale.Add(uint64(prev.Length))
			}
		case codec.CommandRemove:
			if prev, existed := idx.Delete(cmd.Key); existed {
				stale.Add(uint64(prev.Length))
			}
			stale.Add(uint64(length))
		}
		pos = end
	}
}

func createActiveSegment(dataDir string, generation uint64, mode os.FileMode) (*positionedWriter, error) {
	name := seginfo.GenerateName(generation)
	path := filepath.Join(dataDir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
	if err != nil {
		return nil, ignerrors.ClassifyFileOpenError(err, path, name)
	}
	return newPositionedWriter(file)
}

// Set stores val under key, appending a Set record to the active segment
// and flushing it before the key becomes visible to Get.
func (e *Engine) Set(key, val string) error {
	e.writerMu.Lock()
	defer e.writerMu.Unlock()

	cmd := codec.NewSet(key, val)
	data, err := cmd.MarshalJSON()
	if err != nil {
		return ignerrors.NewCodecError(err, "failed to encode set record")
	}

	start := e.writer.Position()
	if _, err := e.writer.Write(data); err != nil {
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to append set record").
			WithGeneration(*e.activeGen).WithOffset(start)
	}
	if err := e.writer.Flush(); err != nil {
		return ignerrors.ClassifySyncError(err, seginfo.GenerateName(*e.activeGen), e.dataDir, int(start))
	}
	end := e.writer.Position()

	if prev, existed := e.idx.Put(key, index.Pointer{Generation: *e.activeGen, Offset: start, Length: end - start}); existed {
		e.stale.Add(uint64(prev.Length))
	}

	return e.maybeCompactLocked()
}

// Get returns the value stored for key, or ok=false if it is absent. It
// never touches writerMu, so a long-running compaction pass does not block
// reads.
func (e *Engine) Get(key string) (string, bool, error) {
	p, ok := e.idx.Get(key)
	if !ok {
		return "", false, nil
	}

	reader, ok := e.segs.get(p.Generation)
	if !ok {
		return "", false, ignerrors.NewIntegrityError(nil, "no open reader for indexed segment generation").
			WithKey(key).WithPointer(p.Generation, p.Offset, p.Length)
	}

	buf, err := reader.ReadRecordAt(p.Offset, p.Length)
	if err != nil {
		return "", false, ignerrors.NewIntegrityError(err, "failed to read record at indexed pointer").
			WithKey(key).WithPointer(p.Generation, p.Offset, p.Length)
	}

	var cmd codec.Command
	if err := cmd.UnmarshalJSON(buf); err != nil {
		return "", false, ignerrors.NewIntegrityError(err, "record at indexed pointer failed to decode").
			WithKey(key).WithPointer(p.Generation, p.Offset, p.Length)
	}
	if cmd.Type != codec.CommandSet || cmd.Key != key {
		return "", false, ignerrors.NewIntegrityError(nil, "record at indexed pointer was not the expected set").
			WithKey(key).WithPointer(p.Generation, p.Offset, p.Length)
	}

	return cmd.Val, true, nil
}

// Remove deletes key, appending a Remove record to the active segment.
// Returns ignerrors.ErrKeyNotFound if key is absent, without writing
// anything.
func (e *Engine) Remove(key string) error {
	e.writerMu.Lock()
	defer e.writerMu.Unlock()

	prev, existed := e.idx.Delete(key)
	if !existed {
		return ignerrors.ErrKeyNotFound
	}

	cmd := codec.NewRemove(key)
	data, err := cmd.MarshalJSON()
	if err != nil {
		return ignerrors.NewCodecError(err, "failed to encode remove record")
	}

	start := e.writer.Position()
	if _, err := e.writer.Write(data); err != nil {
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to append remove record").
			WithGeneration(*e.activeGen).WithOffset(start)
	}
	if err := e.writer.Flush(); err != nil {
		return ignerrors.ClassifySyncError(err, seginfo.GenerateName(*e.activeGen), e.dataDir, int(start))
	}
	end := e.writer.Position()

	e.stale.Add(uint64(prev.Length) + uint64(end-start))

	return e.maybeCompactLocked()
}

// maybeCompactLocked runs a compaction pass if accumulated stale bytes have
// crossed the configured threshold. Callers must already hold writerMu.
func (e *Engine) maybeCompactLocked() error {
	if e.stale.Load() < e.options.CompactionThreshold {
		return nil
	}
	return e.compactLocked()
}

// Clone returns a second handle over the same engine state. Both handles
// share one writer, one index, and one segment table; closing either one
// closes that shared state for both.
func (e *Engine) Clone() *Engine {
	clone := *e
	return &clone
}

// Close flushes and closes the active segment, every open segment reader,
// and the index. The engine must not be used afterward.
func (e *Engine) Close() error {
	e.writerMu.Lock()
	defer e.writerMu.Unlock()

	var errs []error
	if err := e.writer.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.segs.closeAll(); err != nil {
		errs = append(errs, err)
	}
	if err := e.idx.Close(); err != nil && !stdErrors.Is(err, index.ErrIndexClosed) {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}
