package ignite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ignitekv/ignite/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestInstanceSetGetDelete(t *testing.T) {
	inst, err := Open(context.Background(), options.WithDataDir(t.TempDir()))
	require.NoError(t, err)
	defer inst.Close()

	require.NoError(t, inst.Set("k", "v"))

	val, ok, err := inst.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", val)

	require.NoError(t, inst.Delete("k"))

	err = inst.Delete("k")
	require.Error(t, err)
	require.True(t, IsKeyNotFound(err))
}

func TestSledInstanceSetGetDelete(t *testing.T) {
	inst, err := OpenSled(filepath.Join(t.TempDir(), "ignite.sled"))
	require.NoError(t, err)
	defer inst.Close()

	require.NoError(t, inst.Set("k", "v"))

	val, ok, err := inst.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", val)

	require.NoError(t, inst.Delete("k"))
}
