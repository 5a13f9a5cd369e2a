// Package localdb stores verified programs in a local bbolt file,
// keyed by commitment Merkle root.
package localdb

import (
	"context"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/uncomputable/simplicity/errors"
	"github.com/uncomputable/simplicity/protocol"
	"github.com/uncomputable/simplicity/protocol/merkle"
)

var bucketPrograms = []byte("programs")

// DB provides access to the program store.
// It implements protocol.Store.
type DB struct {
	store *bolt.DB

	mu     sync.Mutex
	closed bool
}

var _ protocol.Store = (*DB)(nil)

// Open opens the store at path, creating it if needed.
func Open(path string) (*DB, error) {
	b, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	err = b.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPrograms)
		return err
	})
	if err != nil {
		b.Close()
		return nil, errors.Wrap(err, "creating buckets")
	}
	return &DB{store: b}, nil
}

// SaveProgram stores the encoding of a program under cmr.
// Saving the same program again is a no-op.
func (db *DB) SaveProgram(ctx context.Context, cmr merkle.Hash, encoded []byte) error {
	return db.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrograms).Put(cmr[:], encoded)
	})
}

// GetProgram returns the encoding stored under cmr,
// or protocol.ErrNotFound.
func (db *DB) GetProgram(ctx context.Context, cmr merkle.Hash) ([]byte, error) {
	var out []byte
	err := db.store.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketPrograms).Get(cmr[:])
		if v == nil {
			return errors.WithDetailf(protocol.ErrNotFound, "cmr %s", cmr)
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// CMRs returns the roots of all stored programs, in byte order.
func (db *DB) CMRs(ctx context.Context) ([]merkle.Hash, error) {
	var out []merkle.Hash
	err := db.store.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrograms).ForEach(func(k, _ []byte) error {
			var h merkle.Hash
			copy(h[:], k)
			out = append(out, h)
			return nil
		})
	})
	return out, err
}

func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if !db.closed {
		db.store.Close()
		db.closed = true
	}
}
