package main

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

var treeBucket = []byte("trees")

// BoltStore is the default TreeStore backend: a single-file embedded
// key-value database. bbolt holds an exclusive file lock while open, which
// gives the single-writer guarantee the cache assumes; a second open of
// the same path fails once the lock timeout elapses.
type BoltStore struct {
	db *bolt.DB
}

func (s *BoltStore) Initialize(path string) error {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return err
	}
	s.db = db
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(treeBucket)
		return err
	})
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *BoltStore) SaveTree(kind string, roots []*TagTreeNode) error {
	data, err := encodeForest(roots)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(treeBucket).Put([]byte(kind), data)
	})
}

func (s *BoltStore) LoadTree(kind string) []*TagTreeNode {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(treeBucket).Get([]byte(kind)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil
	}
	return decodeForest(data)
}

func (s *BoltStore) ClearTree(kind string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(treeBucket).Delete([]byte(kind))
	})
}
