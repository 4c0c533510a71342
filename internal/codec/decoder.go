package codec

import (
	"encoding/json"
	"errors"
	"io"
)

// ErrTruncated is returned by Next when the remaining bytes in the stream
// do not form a complete record. Callers replaying a segment at open time
// treat this as end of segment, not a hard failure: it is the expected
// shape of a crash mid-append.
var ErrTruncated = errors.New("codec: truncated trailing record")

// StreamDecoder decodes a concatenated stream of Commands, reporting the
// exact byte offset reached after each successful decode. That offset is
// the only length-accounting mechanism used by the storage engine: no
// length prefix is ever written to disk.
type StreamDecoder struct {
	dec *json.Decoder
}

// NewStreamDecoder wraps r for record-at-a-time decoding.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	return &StreamDecoder{dec: json.NewDecoder(r)}
}

// Next decodes one Command and returns it along with the decoder's input
// offset immediately after it. A truncated trailing record, or a clean
// end-of-stream with nothing left to decode, both map to ErrTruncated.
func (d *StreamDecoder) Next() (Command, int64, error) {
	var cmd Command
	if err := d.dec.Decode(&cmd); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Command{}, 0, ErrTruncated
		}
		return Command{}, 0, err
	}
	return cmd, d.dec.InputOffset(), nil
}
