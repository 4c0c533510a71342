package server

import (
	"context"
	"net"
	"testing"

	"github.com/ignitekv/ignite/internal/pool"
	"github.com/ignitekv/ignite/internal/proto"
	"github.com/ignitekv/ignite/internal/storage"
	"github.com/ignitekv/ignite/pkg/options"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) net.Addr {
	t.Helper()

	opts, err := options.New(options.WithDataDir(t.TempDir()))
	require.NoError(t, err)

	eng, err := storage.Open(context.Background(), &storage.Config{Options: opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	p, err := pool.NewSharedQueueThreadPool(2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	srv := New(eng, p, zap.NewNop().Sugar())
	go srv.Serve(ln)

	return ln.Addr()
}

func roundTrip(t *testing.T, addr net.Addr, req proto.Request) proto.Response {
	t.Helper()

	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, proto.WriteMessage(conn, req))

	var resp proto.Response
	require.NoError(t, proto.ReadMessage(conn, &resp))
	return resp
}

func TestServerSetGetRemove(t *testing.T) {
	addr := newTestServer(t)

	resp := roundTrip(t, addr, proto.Request{Op: proto.OpSet, Key: "k", Val: "v"})
	require.True(t, resp.OK)

	resp = roundTrip(t, addr, proto.Request{Op: proto.OpGet, Key: "k"})
	require.True(t, resp.OK)
	require.True(t, resp.Found)
	require.Equal(t, "v", resp.Val)

	resp = roundTrip(t, addr, proto.Request{Op: proto.OpGet, Key: "missing"})
	require.True(t, resp.OK)
	require.False(t, resp.Found)

	resp = roundTrip(t, addr, proto.Request{Op: proto.OpRemove, Key: "k"})
	require.True(t, resp.OK)

	resp = roundTrip(t, addr, proto.Request{Op: proto.OpRemove, Key: "k"})
	require.False(t, resp.OK)
	require.NotEmpty(t, resp.Err)
}
