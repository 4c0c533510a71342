// Package options provides functional-option configuration for the storage
// engine: where it keeps its files, how often it compacts, and what
// permissions new segment files get.
package options

import (
	"strings"

	ignerrors "github.com/ignitekv/ignite/pkg/errors"
)

// Options holds the configuration parameters for a storage engine instance.
type Options struct {
	// DataDir is the directory segment files live in. Created on Open if
	// missing.
	//
	// Default: "/var/lib/ignite"
	DataDir string `json:"dataDir"`

	// CompactionThreshold is the number of stale bytes accumulated across
	// all segments before a Set/Remove triggers a compaction pass.
	//
	// Default: 1MiB (1 << 20)
	CompactionThreshold uint64 `json:"compactionThreshold"`

	// SegmentFileMode is the permission bits new segment files are created
	// with.
	//
	// Default: 0644
	SegmentFileMode uint32 `json:"segmentFileMode"`
}

// OptionFunc mutates an Options value during construction.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to its documented default.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithDataDir overrides the data directory. Ignored if dir is blank.
func WithDataDir(dir string) OptionFunc {
	return func(o *Options) {
		dir = strings.TrimSpace(dir)
		if dir != "" {
			o.DataDir = dir
		}
	}
}

// WithCompactionThreshold overrides the stale-byte threshold that triggers
// compaction. Ignored if threshold is zero.
func WithCompactionThreshold(threshold uint64) OptionFunc {
	return func(o *Options) {
		if threshold > 0 {
			o.CompactionThreshold = threshold
		}
	}
}

// WithSegmentFileMode overrides the permission bits used for new segment
// files.
func WithSegmentFileMode(mode uint32) OptionFunc {
	return func(o *Options) {
		if mode > 0 {
			o.SegmentFileMode = mode
		}
	}
}

// New builds an Options from NewDefaultOptions plus the given overrides,
// then validates the result.
func New(opts ...OptionFunc) (*Options, error) {
	o := NewDefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// Validate reports the first configuration problem found, wrapped in a
// ValidationError so callers can recover the offending field programmatically.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.DataDir) == "" {
		return ignerrors.NewRequiredFieldError("dataDir")
	}
	if o.CompactionThreshold == 0 {
		return ignerrors.NewFieldRangeError("compactionThreshold", o.CompactionThreshold, 1, nil)
	}
	return nil
}
