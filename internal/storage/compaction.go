package storage

import (
	"os"
	"path/filepath"

	"github.com/ignitekv/ignite/internal/index"
	ignerrors "github.com/ignitekv/ignite/pkg/errors"
	"github.com/ignitekv/ignite/pkg/seginfo"
)

// compactLocked runs one compaction pass: every live pointer is copied,
// byte for byte, out of whatever segment currently holds it and into a new
// "compaction" generation, after which every segment older than that
// generation is deleted. The result is one segment holding exactly the
// live data, plus a fresh active segment for new writes.
//
// The caller must already hold writerMu, and compactLocked keeps it held
// for the whole pass rather than releasing it after the snapshot or before
// the final swap. Copying is not instantaneous, and a Set landing in
// old_active partway through the copy would otherwise produce a pointer
// into a segment this pass is about to delete. Holding the lock throughout
// means the snapshot taken at the start is still exactly what's live when
// the pass finishes, so every pointer can be safely rewritten to the new
// generation before old_active is removed.
//
// Get never takes writerMu, so the index itself is not touched until the
// new segment readers are registered and the copy has fully succeeded —
// see the migrated slice below.
func (e *Engine) compactLocked() error {
	oldActive := *e.activeGen
	compactGen := oldActive + 1
	newActiveGen := oldActive + 2

	mode := os.FileMode(e.options.SegmentFileMode)
	compactPath := filepath.Join(e.dataDir, seginfo.GenerateName(compactGen))

	compactFile, err := os.OpenFile(compactPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
	if err != nil {
		return ignerrors.ClassifyFileOpenError(err, compactPath, seginfo.GenerateName(compactGen))
	}
	compactWriter, err := newPositionedWriter(compactFile)
	if err != nil {
		compactFile.Close()
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to initialize compaction segment").
			WithPath(compactPath)
	}

	type liveEntry struct {
		key string
		ptr index.Pointer
	}
	live := make([]liveEntry, 0, e.idx.Len())
	e.idx.Range(func(key string, p index.Pointer) bool {
		live = append(live, liveEntry{key: key, ptr: p})
		return true
	})

	// migrated is a scratch copy of where each key will point once
	// compaction succeeds. It is applied to e.idx only after compactWriter
	// is flushed and both the compactGen and newActiveGen readers are
	// registered — until then the real index still points at the old
	// segments, which remain open and undeleted, so a concurrent Get
	// (which never takes writerMu) always resolves against live data,
	// whether or not this pass ultimately succeeds. On failure, compactPath
	// is left on disk rather than removed: entries already copied into it
	// are only ever referenced by the scratch map, never by e.idx, so
	// nothing is orphaned by abandoning the file — it is simply reclaimed
	// the next time Open runs.
	migrated := make([]liveEntry, 0, len(live))

	for _, entry := range live {
		reader, ok := e.segs.get(entry.ptr.Generation)
		if !ok {
			compactWriter.Close()
			return ignerrors.NewIntegrityError(nil, "no open reader for live segment during compaction").
				WithKey(entry.key).WithPointer(entry.ptr.Generation, entry.ptr.Offset, entry.ptr.Length)
		}

		newOffset := compactWriter.Position()
		if _, err := reader.CopyRecordTo(compactWriter, entry.ptr.Offset, entry.ptr.Length); err != nil {
			compactWriter.Close()
			return ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to copy record during compaction").
				WithGeneration(compactGen).WithOffset(newOffset)
		}

		migrated = append(migrated, liveEntry{key: entry.key, ptr: index.Pointer{Generation: compactGen, Offset: newOffset, Length: entry.ptr.Length}})
	}

	if err := compactWriter.Flush(); err != nil {
		compactWriter.Close()
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to flush compaction segment").
			WithPath(compactPath)
	}

	compactReader, err := e.segs.openReader(compactGen)
	if err != nil {
		compactWriter.Close()
		return err
	}

	newWriter, err := createActiveSegment(e.dataDir, newActiveGen, mode)
	if err != nil {
		return err
	}
	newReader, err := e.segs.openReader(newActiveGen)
	if err != nil {
		newWriter.Close()
		return err
	}

	// Every segment migrated entries could point into is now registered
	// and readable, so it is safe to make the new pointers visible.
	for _, entry := range migrated {
		e.idx.Update(entry.key, entry.ptr)
	}

	kept := map[uint64]*positionedReader{compactGen: compactReader, newActiveGen: newReader}
	if err := e.segs.replaceAndPrune(kept, compactGen); err != nil {
		e.log.Errorw("failed to prune segments superseded by compaction", "error", err)
	}

	if err := e.writer.Close(); err != nil {
		e.log.Errorw("failed to close previous active segment after compaction", "error", err)
	}

	// Swap the writer's contents rather than the pointer, so every Clone
	// handle (which shares this *positionedWriter) appends to the new
	// active segment too.
	*e.writer = *newWriter
	*e.activeGen = newActiveGen
	e.stale.Store(0)

	e.log.Infow("compaction complete",
		"compactedGeneration", compactGen,
		"newActiveGeneration", newActiveGen,
		"liveKeys", len(live),
	)

	return nil
}
