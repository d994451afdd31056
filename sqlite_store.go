//go:build cgo

package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteTreeStore is an alternative TreeStore backend keeping each
// hierarchy blob in a one-row-per-kind table. Selectable at launch with
// --use-sqlite-backend; requires a CGO build.
type SQLiteTreeStore struct {
	db *sql.DB
}

func (s *SQLiteTreeStore) Initialize(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	s.db = db

	sqlStmt := `CREATE TABLE IF NOT EXISTS trees(
		kind TEXT PRIMARY KEY,
		blob BLOB
	);`
	_, err = s.db.Exec(sqlStmt)
	return err
}

func (s *SQLiteTreeStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteTreeStore) SaveTree(kind string, roots []*TagTreeNode) error {
	data, err := encodeForest(roots)
	if err != nil {
		return err
	}
	_, err = s.db.Exec("INSERT OR REPLACE INTO trees (kind, blob) VALUES (?, ?)", kind, data)
	return err
}

func (s *SQLiteTreeStore) LoadTree(kind string) []*TagTreeNode {
	var data []byte
	err := s.db.QueryRow("SELECT blob FROM trees WHERE kind = ?", kind).Scan(&data)
	if err != nil {
		return nil
	}
	return decodeForest(data)
}

func (s *SQLiteTreeStore) ClearTree(kind string) error {
	_, err := s.db.Exec("DELETE FROM trees WHERE kind = ?", kind)
	return err
}
