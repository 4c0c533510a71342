package sled

import (
	"path/filepath"
	"testing"

	ignerrors "github.com/ignitekv/ignite/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(filepath.Join(t.TempDir(), "sled.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEngineSetGetRemove(t *testing.T) {
	e := newTestEngine(t)

	_, ok, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, e.Set("k", "v1"))
	val, ok, err := e.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", val)

	require.NoError(t, e.Set("k", "v2"))
	val, ok, err = e.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", val)

	require.NoError(t, e.Remove("k"))
	_, ok, err = e.Get("k")
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, e.Remove("k"), ignerrors.ErrKeyNotFound)
}

func TestEnginePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sled.db")

	e1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, e1.Set("a", "1"))
	require.NoError(t, e1.Close())

	e2, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e2.Close() })

	val, ok, err := e2.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", val)
}
