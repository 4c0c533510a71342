package options

const (
	// DefaultDataDir is used when no data directory is given.
	DefaultDataDir = "/var/lib/ignite"

	// DefaultCompactionThreshold is the stale-byte count (1MiB) that
	// triggers compaction after a write.
	DefaultCompactionThreshold uint64 = 1 << 20

	// DefaultSegmentFileMode is the permission bits new segment files get.
	DefaultSegmentFileMode uint32 = 0644
)

// NewDefaultOptions returns an Options populated with every documented
// default.
func NewDefaultOptions() Options {
	return Options{
		DataDir:             DefaultDataDir,
		CompactionThreshold: DefaultCompactionThreshold,
		SegmentFileMode:     DefaultSegmentFileMode,
	}
}
