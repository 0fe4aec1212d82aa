package backends

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/internal/util"
	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("memfs")

// Bolt stores values in a single bucket of a bbolt database file
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens or creates the database at path
func OpenBolt(path string) (*Bolt, error) {
	logger := util.GetLogger("OpenBolt")

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close() // nolint:errcheck
		return nil, fmt.Errorf("create bolt bucket: %w", err)
	}
	logger.Debug().Str("path", path).Msg("Opened bolt backend")
	return &Bolt{db: db}, nil
}

func (b *Bolt) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltBucket).Get([]byte(key))
		if v == nil {
			return memfs.ErrKeyNotFound
		}
		// v is only valid for the life of the transaction
		out = bytes.Clone(v)
		return nil
	})
	return out, err
}

func (b *Bolt) Store(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), data)
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

var _ memfs.Backend = (*Bolt)(nil)
