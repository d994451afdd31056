package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func childNames(node *FileNode) []string {
	var names []string
	for _, c := range node.Children {
		names = append(names, c.Name)
	}
	return names
}

func TestScanEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, scanDirectory(dir, []string{"rs"}))
}

func TestScanNoMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.md"))
	touch(t, filepath.Join(dir, "b.doc"))
	require.Nil(t, scanDirectory(dir, []string{"rs"}))
}

func TestScanNestedMatching(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	touch(t, filepath.Join(sub, "a.rs"))
	touch(t, filepath.Join(sub, "b.md"))

	node := scanDirectory(dir, []string{"rs"})
	require.NotNil(t, node)
	require.Len(t, node.Children, 1)
	require.Equal(t, "sub", node.Children[0].Name)
	require.Equal(t, NodeDirectory, node.Children[0].Type)
	require.Len(t, node.Children[0].Children, 1)
	require.Equal(t, "a.rs", node.Children[0].Children[0].Name)
	require.Equal(t, NodeFile, node.Children[0].Children[0].Type)
}

func TestScanMultipleExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.rs"))
	touch(t, filepath.Join(dir, "b.txt"))
	touch(t, filepath.Join(dir, "c.md"))

	node := scanDirectory(dir, []string{"rs", "txt"})
	require.NotNil(t, node)
	names := childNames(node)
	require.Contains(t, names, "a.rs")
	require.Contains(t, names, "b.txt")
	require.NotContains(t, names, "c.md")
}

func TestScanMixedFilesAndSubdirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.rs"))
	touch(t, filepath.Join(dir, "b.txt"))
	touch(t, filepath.Join(dir, "c.md"))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	touch(t, filepath.Join(sub, "d.rs"))
	touch(t, filepath.Join(sub, "e.md"))

	node := scanDirectory(dir, []string{"rs", "txt"})
	require.NotNil(t, node)
	require.Len(t, node.Children, 3)
	names := childNames(node)
	require.Contains(t, names, "a.rs")
	require.Contains(t, names, "b.txt")
	require.Contains(t, names, "sub")

	for _, c := range node.Children {
		if c.Name == "sub" {
			require.Len(t, c.Children, 1)
			require.Equal(t, "d.rs", c.Children[0].Name)
		}
	}
}

func TestScanPrunesSubdirectoriesWithNoMatches(t *testing.T) {
	dir := t.TempDir()
	sub1 := filepath.Join(dir, "sub1")
	sub2 := filepath.Join(dir, "sub2")
	require.NoError(t, os.Mkdir(sub1, 0755))
	require.NoError(t, os.Mkdir(sub2, 0755))
	touch(t, filepath.Join(sub1, "a.md"))
	touch(t, filepath.Join(sub2, "b.doc"))
	require.Nil(t, scanDirectory(dir, []string{"rs"}))
}

func TestScanPrunesEmptySubdirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty_sub"), 0755))
	require.Nil(t, scanDirectory(dir, []string{"rs"}))
}

func TestScanFileWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "README"))
	require.Nil(t, scanDirectory(dir, []string{"rs"}))
}

func TestScanExtensionMatchIsCaseSensitive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "A.RS"))
	require.Nil(t, scanDirectory(dir, []string{"rs"}))

	node := scanDirectory(dir, []string{"RS"})
	require.NotNil(t, node)
	require.Equal(t, []string{"A.RS"}, childNames(node))
}

func TestScanDeeplyNestedMatch(t *testing.T) {
	dir := t.TempDir()
	sub1 := filepath.Join(dir, "sub1")
	sub2 := filepath.Join(sub1, "sub2")
	require.NoError(t, os.MkdirAll(sub2, 0755))
	touch(t, filepath.Join(sub2, "deep.rs"))

	node := scanDirectory(dir, []string{"rs"})
	require.NotNil(t, node)
	require.Len(t, node.Children, 1)
	require.Equal(t, "sub1", node.Children[0].Name)
	require.Len(t, node.Children[0].Children, 1)
	require.Equal(t, "sub2", node.Children[0].Children[0].Name)
	require.Len(t, node.Children[0].Children[0].Children, 1)
	require.Equal(t, "deep.rs", node.Children[0].Children[0].Children[0].Name)
}

func TestScanNonexistentDirectory(t *testing.T) {
	require.Nil(t, scanDirectory(filepath.Join(t.TempDir(), "missing"), []string{"rs"}))
}

func TestScanRootExpansionPolicy(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.mp3"))

	expanded := scanDirectoryRoot(dir, []string{"mp3"}, true)
	require.NotNil(t, expanded)
	require.True(t, expanded.IsExpanded)

	collapsed := scanDirectoryRoot(dir, []string{"mp3"}, false)
	require.NotNil(t, collapsed)
	require.False(t, collapsed.IsExpanded)
}

func TestScanLibraryScenario(t *testing.T) {
	// /lib contains sub/a.mp3 and sub/b.md; only the mp3 survives.
	lib := t.TempDir()
	sub := filepath.Join(lib, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	touch(t, filepath.Join(sub, "a.mp3"))
	touch(t, filepath.Join(sub, "b.md"))

	node := scanDirectory(lib, []string{"mp3"})
	require.NotNil(t, node)
	require.Equal(t, lib, node.Path)
	require.Len(t, node.Children, 1)
	require.Equal(t, "sub", node.Children[0].Name)
	require.Len(t, node.Children[0].Children, 1)
	require.Equal(t, "a.mp3", node.Children[0].Children[0].Name)
	require.Equal(t, filepath.Join(sub, "a.mp3"), node.Children[0].Children[0].Path)
}
