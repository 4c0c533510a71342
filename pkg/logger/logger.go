// Package logger builds the zap.SugaredLogger instances passed into the
// engine, index, and storage layers via their Config structs.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls the shape of the constructed logger.
type Options struct {
	// Development selects a console-friendly encoder with caller info and
	// enables debug-level output. Production selects JSON output at info
	// level, suited for log aggregation.
	Development bool

	// Level overrides the default level for the selected mode. Zero value
	// means "use the mode default" (debug for development, info otherwise).
	Level zapcore.Level
}

// New builds a *zap.SugaredLogger according to opts.
func New(opts Options) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if opts.Level != 0 {
		cfg.Level = zap.NewAtomicLevelAt(opts.Level)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

// NewNop returns a logger that discards everything, for use in tests and
// in embedders that don't want ignite's logging on their console.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
