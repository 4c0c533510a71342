package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	ignerrors "github.com/ignitekv/ignite/pkg/errors"
	"github.com/ignitekv/ignite/pkg/options"
	"github.com/ignitekv/ignite/pkg/seginfo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, overrides ...options.OptionFunc) *Engine {
	t.Helper()
	opts, err := options.New(append([]options.OptionFunc{options.WithDataDir(t.TempDir())}, overrides...)...)
	require.NoError(t, err)

	e, err := Open(context.Background(), &Config{Options: opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEngineSetGetRemove(t *testing.T) {
	e := newTestEngine(t)

	val, ok, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, val)

	require.NoError(t, e.Set("k", "v1"))
	val, ok, err = e.Get("k")
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

func TestEngineReopenReplaysSegments(t *testing.T) {
	dataDir := t.TempDir()
	opts, err := options.New(options.WithDataDir(dataDir))
	require.NoError(t, err)

	e1, err := Open(context.Background(), &Config{Options: opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)

	require.NoError(t, e1.Set("a", "1"))
	require.NoError(t, e1.Set("b", "2"))
	require.NoError(t, e1.Set("a", "3"))
	require.NoError(t, e1.Remove("b"))
	require.NoError(t, e1.Close())

	e2, err := Open(context.Background(), &Config{Options: opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e2.Close() })

	val, ok, err := e2.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "3", val)

	_, ok, err = e2.Get("b")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEngineCompactionReclaimsStaleSpaceAndPreservesData(t *testing.T) {
	dataDir := t.TempDir()
	opts, err := options.New(
		options.WithDataDir(dataDir),
		options.WithCompactionThreshold(512),
	)
	require.NoError(t, err)

	e, err := Open(context.Background(), &Config{Options: opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	const keys = 50
	for round := 0; round < 3; round++ {
		for i := 0; i < keys; i++ {
			key := fmt.Sprintf("key-%03d", i)
			val := fmt.Sprintf("round-%d-value-%03d", round, i)
			require.NoError(t, e.Set(key, val))
		}
	}

	for i := 0; i < keys; i++ {
		key := fmt.Sprintf("key-%03d", i)
		want := fmt.Sprintf("round-2-value-%03d", i)
		val, ok, err := e.Get(key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, want, val)
	}

	require.Zero(t, e.stale.Load())

	entries, err := filepath.Glob(filepath.Join(dataDir, "*.log"))
	require.NoError(t, err)
	require.LessOrEqual(t, len(entries), 2, "compaction should leave at most the compacted segment and the new active one")
}

func TestEngineClonesShareState(t *testing.T) {
	e := newTestEngine(t)
	clone := e.Clone()

	require.NoError(t, e.Set("k", "v"))
	val, ok, err := clone.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", val)
}

// TestEngineConcurrentSetGetDistinctKeys exercises many goroutines each
// owning a disjoint key range, set and read back through independent Clone
// handles over the same underlying engine.
func TestEngineConcurrentSetGetDistinctKeys(t *testing.T) {
	e := newTestEngine(t)

	const goroutines = 32
	const perGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			h := e.Clone()
			for i := 0; i < perGoroutine; i++ {
				key := fmt.Sprintf("g%02d-k%03d", g, i)
				val := fmt.Sprintf("g%02d-v%03d", g, i)
				require.NoError(t, h.Set(key, val))

				got, ok, err := h.Get(key)
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, val, got)
			}
		}(g)
	}
	wg.Wait()

	for g := 0; g < goroutines; g++ {
		for i := 0; i < perGoroutine; i++ {
			key := fmt.Sprintf("g%02d-k%03d", g, i)
			want := fmt.Sprintf("g%02d-v%03d", g, i)
			val, ok, err := e.Get(key)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, want, val)
		}
	}
}

// TestEngineConcurrentSetSameKey hammers a single key from many goroutines
// at once, through independent Clone handles, and requires that every
// Set/Get completes without error or panic and the final value is one of
// the values a writer actually wrote.
func TestEngineConcurrentSetSameKey(t *testing.T) {
	e := newTestEngine(t)

	const writers = 32
	values := make([]string, writers)
	for i := range values {
		values[i] = fmt.Sprintf("value-%03d", i)
	}

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			h := e.Clone()
			require.NoError(t, h.Set("shared", values[i]))
			_, ok, err := h.Get("shared")
			require.NoError(t, err)
			require.True(t, ok)
		}(i)
	}
	wg.Wait()

	final, ok, err := e.Get("shared")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, values, final)
}

// TestEngineReopenRecoversFromTruncatedTrailingRecord simulates a crash
// mid-append: the active segment's trailing bytes are chopped off by one
// byte after a clean close, so the last record can no longer decode in
// full. Reopening must not surface an error — replay stops at the
// truncated record, leaving every earlier key intact and the truncated
// key simply absent.
func TestEngineReopenRecoversFromTruncatedTrailingRecord(t *testing.T) {
	dataDir := t.TempDir()
	opts, err := options.New(options.WithDataDir(dataDir))
	require.NoError(t, err)

	e1, err := Open(context.Background(), &Config{Options: opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)

	require.NoError(t, e1.Set("whole", "survives"))
	require.NoError(t, e1.Set("truncated", "does-not-survive"))

	segmentPath := filepath.Join(dataDir, seginfo.GenerateName(*e1.activeGen))
	require.NoError(t, e1.Close())

	info, err := os.Stat(segmentPath)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(segmentPath, info.Size()-1))

	e2, err := Open(context.Background(), &Config{Options: opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e2.Close() })

	val, ok, err := e2.Get("whole")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "survives", val)

	_, ok, err = e2.Get("truncated")
	require.NoError(t, err)
	require.False(t, ok)
}

// TestEngineCompactionAtScale exercises the 10,000-entry compaction
// scenario: enough overwrites across enough keys, with a small compaction
// threshold, to force several compaction passes, with every key's final
// value still correct afterward.
func TestEngineCompactionAtScale(t *testing.T) {
	dataDir := t.TempDir()
	opts, err := options.New(
		options.WithDataDir(dataDir),
		options.WithCompactionThreshold(4096),
	)
	require.NoError(t, err)

	e, err := Open(context.Background(), &Config{Options: opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	const entries = 10_000
	for round := 0; round < 2; round++ {
		for i := 0; i < entries; i++ {
			key := fmt.Sprintf("key-%05d", i)
			val := fmt.Sprintf("value-%d-%05d", round, i)
			require.NoError(t, e.Set(key, val))
		}
	}

	for i := 0; i < entries; i++ {
		key := fmt.Sprintf("key-%05d", i)
		want := fmt.Sprintf("value-1-%05d", i)
		val, ok, err := e.Get(key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, want, val)
	}
}
