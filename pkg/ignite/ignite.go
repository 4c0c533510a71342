// Package ignite is the embeddable entry point into the key/value store:
// an Instance wraps whichever backend engine was opened and exposes it as
// a small, context-free Get/Set/Delete API for callers that want the
// store in-process, without going through the TCP server.
package ignite

import (
	"context"

	igengine "github.com/ignitekv/ignite/internal/engine"
	"github.com/ignitekv/ignite/internal/sled"
	"github.com/ignitekv/ignite/internal/storage"
	"github.com/ignitekv/ignite/pkg/errors"
	"github.com/ignitekv/ignite/pkg/logger"
	"github.com/ignitekv/ignite/pkg/options"
)

// Instance is a handle onto a running store. It is safe for concurrent use
// from multiple goroutines, to the same extent the underlying engine is.
type Instance struct {
	engine igengine.Engine
}

// Open starts the log-structured engine (internal/storage) over the data
// directory named by opts, replaying any existing segments found there.
func Open(ctx context.Context, opts ...options.OptionFunc) (*Instance, error) {
	o, err := options.New(opts...)
	if err != nil {
		return nil, err
	}

	log := logger.NewNop()
	eng, err := storage.Open(ctx, &storage.Config{Options: o, Logger: log})
	if err != nil {
		return nil, err
	}
	return &Instance{engine: eng}, nil
}

// OpenSled starts the reference bbolt-backed engine at path instead of the
// log-structured one, for callers that want the B-tree backend directly.
func OpenSled(path string) (*Instance, error) {
	eng, err := sled.Open(path)
	if err != nil {
		return nil, err
	}
	return &Instance{engine: eng}, nil
}

// Set stores value under key, replacing any existing value.
func (i *Instance) Set(key, value string) error {
	return i.engine.Set(key, value)
}

// Get retrieves the value associated with key. ok is false if key is absent.
func (i *Instance) Get(key string) (value string, ok bool, err error) {
	return i.engine.Get(key)
}

// Delete removes key. It returns an error satisfying errors.IsKeyNotFound
// if key is absent.
func (i *Instance) Delete(key string) error {
	return i.engine.Remove(key)
}

// IsKeyNotFound reports whether err was returned by Delete for an absent key.
func IsKeyNotFound(err error) bool {
	return errors.IsKeyNotFound(err)
}

// Close releases every resource the instance holds open. The instance must
// not be used afterward.
func (i *Instance) Close() error {
	return i.engine.Close()
}
