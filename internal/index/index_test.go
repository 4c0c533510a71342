package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(context.Background(), &Config{DataDir: t.TempDir(), Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return idx
}

func TestIndexPutGetDelete(t *testing.T) {
	idx := newTestIndex(t)

	_, ok := idx.Get("missing")
	require.False(t, ok)

	p1 := Pointer{Generation: 1, Offset: 0, Length: 10}
	prev, existed := idx.Put("k", p1)
	require.False(t, existed)
	require.Zero(t, prev)

	got, ok := idx.Get("k")
	require.True(t, ok)
	require.Equal(t, p1, got)

	p2 := Pointer{Generation: 1, Offset: 10, Length: 12}
	prev, existed = idx.Put("k", p2)
	require.True(t, existed)
	require.Equal(t, p1, prev)

	prev, existed = idx.Delete("k")
	require.True(t, existed)
	require.Equal(t, p2, prev)

	_, ok = idx.Get("k")
	require.False(t, ok)

	_, existed = idx.Delete("k")
	require.False(t, existed)
}

func TestIndexRangeAndLen(t *testing.T) {
	idx := newTestIndex(t)
	idx.Put("a", Pointer{Generation: 1, Offset: 0, Length: 1})
	idx.Put("b", Pointer{Generation: 1, Offset: 1, Length: 1})
	idx.Put("c", Pointer{Generation: 1, Offset: 2, Length: 1})
	require.Equal(t, 3, idx.Len())

	seen := make(map[string]bool)
	idx.Range(func(key string, p Pointer) bool {
		seen[key] = true
		return true
	})
	require.Len(t, seen, 3)

	count := 0
	idx.Range(func(key string, p Pointer) bool {
		count++
		return false
	})
	require.Equal(t, 1, count)
}

func TestIndexUpdate(t *testing.T) {
	idx := newTestIndex(t)
	idx.Put("k", Pointer{Generation: 1, Offset: 0, Length: 5})

	idx.Update("k", Pointer{Generation: 2, Offset: 100, Length: 5})
	got, ok := idx.Get("k")
	require.True(t, ok)
	require.Equal(t, uint64(2), got.Generation)

	idx.Update("missing", Pointer{Generation: 9, Offset: 0, Length: 1})
	_, ok = idx.Get("missing")
	require.False(t, ok)
}

func TestIndexCloseRejectsDoubleClose(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Close())
	require.ErrorIs(t, idx.Close(), ErrIndexClosed)
}
