package storage

import (
	"bufio"
	"io"
	"os"
)

// positionedWriter is the single active segment's append handle. It tracks
// its own write position so callers can snapshot the offset a record will
// land at before writing it, without a separate Seek/Tell round trip.
type positionedWriter struct {
	file *os.File
	buf  *bufio.Writer
	pos  int64
}

// newPositionedWriter wraps file, an already-opened append-mode segment
// file, starting the position counter from its current size.
func newPositionedWriter(file *os.File) (*positionedWriter, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	return &positionedWriter{file: file, buf: bufio.NewWriter(file), pos: info.Size()}, nil
}

// Write buffers p and advances the position counter, regardless of whether
// the bytes have reached disk yet. Callers that need durability call Flush.
func (w *positionedWriter) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	w.pos += int64(n)
	return n, err
}

// Position returns the offset the next Write will land at.
func (w *positionedWriter) Position() int64 {
	return w.pos
}

// Flush pushes buffered bytes to the underlying file.
func (w *positionedWriter) Flush() error {
	return w.buf.Flush()
}

// Close flushes and closes the underlying file.
func (w *positionedWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// positionedReader is a shared, read-only handle onto one segment file. Its
// ReadAt-based methods never move a file cursor, so one handle can be read
// concurrently by Get and by a compaction pass without the two racing over
// position.
type positionedReader struct {
	file *os.File
}

func newPositionedReader(file *os.File) *positionedReader {
	return &positionedReader{file: file}
}

// ReadRecordAt reads exactly length bytes starting at offset, the shape of
// one self-delimiting record as recorded in a Pointer.
func (r *positionedReader) ReadRecordAt(offset, length int64) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := io.ReadFull(io.NewSectionReader(r.file, offset, length), buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// CopyRecordTo copies length bytes starting at offset straight into w
// without decoding them, the byte-identical copy compaction relies on.
func (r *positionedReader) CopyRecordTo(w io.Writer, offset, length int64) (int64, error) {
	return io.CopyN(w, io.NewSectionReader(r.file, offset, length), length)
}

// SequentialReader exposes the handle's own file cursor for one-shot
// sequential reads. Only safe while no concurrent ReadAt/CopyRecordTo is
// relying on the cursor staying put, which holds at open-time replay: replay
// runs before the handle is shared with any other goroutine.
func (r *positionedReader) SequentialReader() io.Reader {
	return r.file
}

// SeekStart rewinds the handle's cursor, used immediately before a
// replay pass over SequentialReader.
func (r *positionedReader) SeekStart() error {
	_, err := r.file.Seek(0, io.SeekStart)
	return err
}

func (r *positionedReader) Close() error {
	return r.file.Close()
}
