//go:build !cgo

package main

import "errors"

type SQLiteTreeStore struct{}

func (s *SQLiteTreeStore) Initialize(path string) error {
	return errors.New("SQLite backend is not available in non-CGO builds. Use the default Bolt backend or rebuild with CGO_ENABLED=1")
}

func (s *SQLiteTreeStore) Close() error { return nil }

func (s *SQLiteTreeStore) SaveTree(kind string, roots []*TagTreeNode) error { return nil }

func (s *SQLiteTreeStore) LoadTree(kind string) []*TagTreeNode { return nil }

func (s *SQLiteTreeStore) ClearTree(kind string) error { return nil }
