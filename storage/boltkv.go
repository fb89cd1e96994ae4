package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketKV = []byte("kv")

// BoltKV is a KV backed by a bbolt database file.
type BoltKV struct {
	db *bolt.DB
}

func OpenBoltKV(path string) (*BoltKV, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("bolt db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketKV)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltKV{db: db}, nil
}

func (b *BoltKV) Get(key string) (string, bool, error) {
	var (
		out string
		ok  bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketKV)
		if bucket == nil {
			return nil
		}
		v := bucket.Get([]byte(key))
		if v == nil {
			return nil
		}
		out, ok = string(v), true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return out, ok, nil
}

func (b *BoltKV) Set(key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketKV)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), []byte(value))
	})
}

func (b *BoltKV) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
