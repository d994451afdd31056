package main

import (
	"bytes"
	"encoding/gob"
)

// Hierarchy kinds, used as storage keys. One record per kind.
const (
	GenreTreeKind   = "tag_tree"
	CreatorTreeKind = "creator_tag_tree"
)

// TreeStore is the persistent tree cache: one binary blob per hierarchy
// kind. It is the sole authority on whether a hierarchy must be recomputed,
// and it never invalidates on its own — staleness is resolved only by an
// explicit ClearTree followed by a rebuild and SaveTree.
//
// Any backend must implement it; see BoltStore (default), SQLiteTreeStore,
// and MemoryTreeStore (tests).
type TreeStore interface {
	// Initialize opens or creates the store at the given path.
	Initialize(path string) error

	// Close releases the store handle.
	Close() error

	// SaveTree serializes the forest and writes it under the kind's key,
	// overwriting any prior value.
	SaveTree(kind string, roots []*TagTreeNode) error

	// LoadTree returns the stored forest for kind, or nil when the record
	// is absent or undecodable. A corrupt blob is a cache miss, never an
	// error.
	LoadTree(kind string) []*TagTreeNode

	// ClearTree removes the stored record, forcing the next LoadTree to
	// return nil.
	ClearTree(kind string) error
}

// treeBlob is the persisted envelope around a forest.
type treeBlob struct {
	Roots []*TagTreeNode
}

// encodeForest serializes a forest with gob. Expansion state is UI-only
// and stripped before encoding so cached blobs stay comparable across
// sessions.
func encodeForest(roots []*TagTreeNode) ([]byte, error) {
	var buf bytes.Buffer
	blob := treeBlob{Roots: stripExpansion(roots)}
	if err := gob.NewEncoder(&buf).Encode(blob); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeForest is the inverse of encodeForest. It returns nil for any
// undecodable input.
func decodeForest(data []byte) []*TagTreeNode {
	var blob treeBlob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&blob); err != nil {
		return nil
	}
	if blob.Roots == nil {
		return []*TagTreeNode{}
	}
	return blob.Roots
}

// stripExpansion deep-copies a forest with every IsExpanded flag cleared.
func stripExpansion(roots []*TagTreeNode) []*TagTreeNode {
	if roots == nil {
		return nil
	}
	out := make([]*TagTreeNode, len(roots))
	for i, n := range roots {
		out[i] = &TagTreeNode{
			Label:     n.Label,
			Children:  stripExpansion(n.Children),
			FilePaths: append([]string(nil), n.FilePaths...),
		}
	}
	return out
}

// forestsEqual compares two forests structurally: labels, child order, and
// leaf file paths. Expansion state is outside the equality contract, and
// nil and empty are the same forest.
func forestsEqual(a, b []*TagTreeNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Label != b[i].Label {
			return false
		}
		if len(a[i].FilePaths) != len(b[i].FilePaths) {
			return false
		}
		for j := range a[i].FilePaths {
			if a[i].FilePaths[j] != b[i].FilePaths[j] {
				return false
			}
		}
		if !forestsEqual(a[i].Children, b[i].Children) {
			return false
		}
	}
	return true
}
