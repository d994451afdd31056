package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingExtractor struct {
	fakeExtractor
	calls int
}

func (c *countingExtractor) ExtractMetadata(path string) MediaMetadata {
	c.calls++
	return c.fakeExtractor.ExtractMetadata(path)
}

func TestLoadOrBuildTreeIsCacheFirst(t *testing.T) {
	lib := writeLibrary(t, "x.mp3", "y.mp3")
	extractor := &countingExtractor{fakeExtractor: fakeExtractor{metas: map[string]MediaMetadata{
		filepath.Join(lib, "x.mp3"): {Genre: "Rock", Creator: "Alice", Album: "Hits", Title: "Song1"},
	}}}

	store := &MemoryTreeStore{}
	require.NoError(t, store.Initialize(""))

	first := loadOrBuildTree(store, GenreTreeKind, []string{lib}, []string{"mp3"}, extractor, false)
	require.Equal(t, 2, extractor.calls, "miss triggers a full build")
	require.NotEmpty(t, first)

	second := loadOrBuildTree(store, GenreTreeKind, []string{lib}, []string{"mp3"}, extractor, false)
	require.Equal(t, 2, extractor.calls, "hit reads every tag zero times")
	require.True(t, forestsEqual(first, second))
}

func TestLoadOrBuildTreeForceRebuilds(t *testing.T) {
	lib := writeLibrary(t, "x.mp3")
	extractor := &countingExtractor{fakeExtractor: fakeExtractor{metas: map[string]MediaMetadata{}}}

	store := &MemoryTreeStore{}
	require.NoError(t, store.Initialize(""))

	loadOrBuildTree(store, GenreTreeKind, []string{lib}, []string{"mp3"}, extractor, false)
	require.Equal(t, 1, extractor.calls)

	loadOrBuildTree(store, GenreTreeKind, []string{lib}, []string{"mp3"}, extractor, true)
	require.Equal(t, 2, extractor.calls, "force ignores the cached forest")
}

func TestLoadOrBuildTreeSurvivesRestart(t *testing.T) {
	// Scenario C: build and save, "restart" by reopening the store file,
	// then load without touching the filesystem walk again.
	lib := writeLibrary(t, "x.mp3")
	extractor := &countingExtractor{fakeExtractor: fakeExtractor{metas: map[string]MediaMetadata{
		filepath.Join(lib, "x.mp3"): {Genre: "Rock", Creator: "Alice", Album: "Hits", Title: "Song1"},
	}}}

	dbPath := filepath.Join(t.TempDir(), "trees.db")
	store := &BoltStore{}
	require.NoError(t, store.Initialize(dbPath))
	built := loadOrBuildTree(store, GenreTreeKind, []string{lib}, []string{"mp3"}, extractor, false)
	require.NoError(t, store.Close())
	require.Equal(t, 1, extractor.calls)

	reopened := &BoltStore{}
	require.NoError(t, reopened.Initialize(dbPath))
	defer reopened.Close()

	loaded := loadOrBuildTree(reopened, GenreTreeKind, []string{lib}, []string{"mp3"}, extractor, false)
	require.Equal(t, 1, extractor.calls, "restart serves the cached tree")
	require.True(t, forestsEqual(built, loaded))
}

func TestLoadOrBuildTreeSelectsKind(t *testing.T) {
	lib := writeLibrary(t, "x.mp3")
	extractor := fakeExtractor{metas: map[string]MediaMetadata{
		filepath.Join(lib, "x.mp3"): {Genre: "Rock", Creator: "Alice", Album: "Hits", Title: "Song1"},
	}}

	store := &MemoryTreeStore{}
	require.NoError(t, store.Initialize(""))

	genre := loadOrBuildTree(store, GenreTreeKind, []string{lib}, []string{"mp3"}, extractor, false)
	require.Equal(t, "Rock", genre[0].Label)

	creator := loadOrBuildTree(store, CreatorTreeKind, []string{lib}, []string{"mp3"}, extractor, false)
	require.Equal(t, "Alice", creator[0].Label, "creator hierarchy has no genre level")
}
