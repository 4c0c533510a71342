package proto

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestResponseRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	req := Request{Op: OpSet, Key: "k", Val: "v"}
	require.NoError(t, WriteMessage(&buf, req))

	var gotReq Request
	require.NoError(t, ReadMessage(&buf, &gotReq))
	require.Equal(t, req, gotReq)

	resp := Response{OK: true, Found: true, Val: "v"}
	require.NoError(t, WriteMessage(&buf, resp))

	var gotResp Response
	require.NoError(t, ReadMessage(&buf, &gotResp))
	require.Equal(t, resp, gotResp)
}

func TestReadMessageHandlesLargeKeysAndValues(t *testing.T) {
	var buf bytes.Buffer

	req := Request{Op: OpSet, Key: "k", Val: strings.Repeat("x", 1<<18)}
	require.NoError(t, WriteMessage(&buf, req))

	var got Request
	require.NoError(t, ReadMessage(&buf, &got))
	require.Equal(t, req, got)
}

func TestReadMessageRejectsOversizedLengthPrefix(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	var req Request
	require.ErrorIs(t, ReadMessage(&buf, &req), ErrMessageTooLarge)
}
