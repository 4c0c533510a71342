// Package proto is the wire protocol between ignite-client and
// ignite-server: one request, one response, per TCP connection. Messages
// are framed with a 4-byte big-endian length prefix followed by a JSON
// body — the same textual encoding style as internal/codec, but framed by
// an explicit length rather than relying on a streaming decoder's offset,
// since each connection carries exactly one message in each direction.
//
// The original reference framed each message as a single 128-byte read,
// which silently truncates any key or value past that size. Length-prefixed
// framing removes that ceiling while keeping the protocol one read/decode
// per request.
package proto

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// MaxMessageSize bounds the length prefix accepted by ReadMessage, so a
// corrupt or hostile length field can't force an unbounded allocation.
const MaxMessageSize = 64 << 20

// ErrMessageTooLarge is returned by ReadMessage when the length prefix
// exceeds MaxMessageSize.
var ErrMessageTooLarge = fmt.Errorf("proto: message exceeds %d bytes", MaxMessageSize)

// Op names which operation a Request performs.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpRemove Op = "remove"
)

// Request is what a client sends: one operation, with Val only meaningful
// for OpSet.
type Request struct {
	Op  Op     `json:"op"`
	Key string `json:"key"`
	Val string `json:"val,omitempty"`
}

// Response is what a server sends back. Found distinguishes "key absent"
// from "key present with an empty value" on a Get.
type Response struct {
	OK    bool   `json:"ok"`
	Found bool   `json:"found,omitempty"`
	Val   string `json:"val,omitempty"`
	Err   string `json:"err,omitempty"`
}

// WriteMessage frames v as length-prefixed JSON and writes it to w.
func WriteMessage(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("proto: failed to encode message: %w", err)
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	if _, err := w.Write(length[:]); err != nil {
		return fmt.Errorf("proto: failed to write length prefix: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("proto: failed to write message body: %w", err)
	}
	return nil
}

// ReadMessage reads one length-prefixed JSON message from r into v.
func ReadMessage(r io.Reader, v any) error {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return fmt.Errorf("proto: failed to read length prefix: %w", err)
	}

	n := binary.BigEndian.Uint32(length[:])
	if n > MaxMessageSize {
		return ErrMessageTooLarge
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return fmt.Errorf("proto: failed to read message body: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("proto: failed to decode message: %w", err)
	}
	return nil
}
