package main

import (
	"os"
	"path/filepath"
	"strings"
)

// NodeType distinguishes files from directories in a scanned tree.
type NodeType int

const (
	NodeFile NodeType = iota
	NodeDirectory
)

// FileNode is one directory or file discovered during a scan.
type FileNode struct {
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	Type       NodeType    `json:"type"`
	Children   []*FileNode `json:"children,omitempty"`
	IsExpanded bool        `json:"-"`
}

// matchesExtension reports whether name carries one of the allowed
// extensions. The comparison is case-sensitive: callers wanting
// case-insensitive matching must pre-normalize the allowed set and the
// filenames themselves. Extensions are given without the leading dot.
func matchesExtension(name string, allowed []string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	ext = strings.TrimPrefix(ext, ".")
	for _, a := range allowed {
		if a == ext {
			return true
		}
	}
	return false
}

// scanDirectory recursively scans dir for files matching the allowed
// extensions, marking the root node as expanded.
func scanDirectory(dir string, allowed []string) *FileNode {
	return scanDirectoryRoot(dir, allowed, true)
}

// scanDirectoryRoot is scanDirectory with the root expansion policy made
// explicit: a caller rendering several top-level directories passes
// expandRoot=false so they start collapsed.
//
// The scan never fails: an unreadable directory, or one with no matching
// descendants, yields nil. Directory branches containing no matching files
// are pruned, so every Directory node in the result has at least one
// (transitive) matching File beneath it.
func scanDirectoryRoot(dir string, allowed []string, expandRoot bool) *FileNode {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var children []*FileNode
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if child := scanDirectoryRoot(path, allowed, false); child != nil {
				children = append(children, child)
			}
		} else if matchesExtension(entry.Name(), allowed) {
			children = append(children, &FileNode{
				Name: entry.Name(),
				Path: path,
				Type: NodeFile,
			})
		}
	}

	if len(children) == 0 {
		return nil
	}

	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		name = dir
	}

	return &FileNode{
		Name:       name,
		Path:       dir,
		Type:       NodeDirectory,
		Children:   children,
		IsExpanded: expandRoot,
	}
}
