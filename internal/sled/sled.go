// Package sled is the reference "embedded B-tree" engine: a thin wrapper
// over go.etcd.io/bbolt, the closest ecosystem analogue to the original
// project's sled backend, kept around to exercise the engine capability
// against a second, independently-correct implementation.
package sled

import (
	stdErrors "errors"
	"fmt"

	ignerrors "github.com/ignitekv/ignite/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("ignite")

// Engine stores every key in a single bbolt bucket. Unlike
// internal/storage.Engine it needs no writer mutex or index: bbolt already
// serializes writers and lets readers run lock-free against a consistent
// snapshot.
type Engine struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a bbolt database file at path and
// ensures the single bucket this engine uses exists.
func Open(path string) (*Engine, error) {
	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		return nil, ignerrors.NewStorageError(err, ignerrors.ErrorCodeBackend, "failed to open sled-backed database").
			WithPath(path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, ignerrors.NewStorageError(err, ignerrors.ErrorCodeBackend, "failed to create bucket").
			WithPath(path)
	}

	return &Engine{db: db}, nil
}

// Set stores val under key.
func (e *Engine) Set(key, val string) error {
	err := e.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(val))
	})
	if err != nil {
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeBackend, "failed to set key").WithDetail("key", key)
	}
	return nil
}

// Get returns the value stored for key, or ok=false if absent.
func (e *Engine) Get(key string) (string, bool, error) {
	var val []byte
	err := e.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			val = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, ignerrors.NewStorageError(err, ignerrors.ErrorCodeBackend, "failed to get key").WithDetail("key", key)
	}
	if val == nil {
		return "", false, nil
	}
	return string(val), true, nil
}

// Remove deletes key. Returns ignerrors.ErrKeyNotFound if key is absent.
func (e *Engine) Remove(key string) error {
	var existed bool
	err := e.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if v := b.Get([]byte(key)); v == nil {
			return nil
		}
		existed = true
		return b.Delete([]byte(key))
	})
	if err != nil {
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeBackend, "failed to remove key").WithDetail("key", key)
	}
	if !existed {
		return ignerrors.ErrKeyNotFound
	}
	return nil
}

// Close closes the underlying bbolt database.
func (e *Engine) Close() error {
	if err := e.db.Close(); err != nil && !stdErrors.Is(err, bolt.ErrDatabaseNotOpen) {
		return fmt.Errorf("sled: failed to close database: %w", err)
	}
	return nil
}
