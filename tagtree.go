package main

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// TagTreeNode is one level of an aggregated tag hierarchy. Category nodes
// carry children; leaf (track) nodes carry file paths and no children.
// IsExpanded is UI state and excluded from persistence and equality.
type TagTreeNode struct {
	Label      string         `json:"label"`
	Children   []*TagTreeNode `json:"children,omitempty"`
	FilePaths  []string       `json:"file_paths,omitempty"`
	IsExpanded bool           `json:"-"`
}

// unknownLabel stands in for any missing genre, creator, or album tag.
const unknownLabel = "Unknown"

type trackRef struct {
	title string
	path  string
}

// forEachMediaFile walks every top-level directory to unbounded depth and
// calls fn for each file whose extension is in the allowed set. Unlike
// scanDirectory there is no pruning: every matching file is visited.
// Walk errors are absorbed; the affected entries are skipped.
func forEachMediaFile(topDirs []string, allowed []string, fn func(path string)) {
	for _, dir := range topDirs {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if matchesExtension(d.Name(), allowed) {
				fn(path)
			}
			return nil
		})
	}
}

// sortedKeys returns the keys of m in ascending byte order. Emitting every
// level of the nested maps in this order is what makes two builds over the
// same files produce identical trees.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}

// trackTitle falls back to the file's base name, extension included, when
// the title tag is missing.
func trackTitle(meta MediaMetadata, path string) string {
	if meta.Title != "" {
		return meta.Title
	}
	return filepath.Base(path)
}

// buildGenreTagTree scans all files under topDirs whose extensions match,
// extracts metadata for each, and groups them into a
// genre → creator → album → track hierarchy. One extractor call per file;
// a file whose extraction fails entirely still lands under "Unknown".
func buildGenreTagTree(topDirs []string, allowed []string, extractor MetadataExtractor) []*TagTreeNode {
	genreMap := make(map[string]map[string]map[string][]trackRef)

	forEachMediaFile(topDirs, allowed, func(path string) {
		meta := extractor.ExtractMetadata(path)
		genre := orUnknown(meta.Genre)
		creator := orUnknown(meta.Creator)
		album := orUnknown(meta.Album)

		creators, ok := genreMap[genre]
		if !ok {
			creators = make(map[string]map[string][]trackRef)
			genreMap[genre] = creators
		}
		albums, ok := creators[creator]
		if !ok {
			albums = make(map[string][]trackRef)
			creators[creator] = albums
		}
		albums[album] = append(albums[album], trackRef{trackTitle(meta, path), path})
	})

	var roots []*TagTreeNode
	for _, genre := range sortedKeys(genreMap) {
		var creatorNodes []*TagTreeNode
		for _, creator := range sortedKeys(genreMap[genre]) {
			creatorNodes = append(creatorNodes, &TagTreeNode{
				Label:    creator,
				Children: albumNodes(genreMap[genre][creator]),
			})
		}
		roots = append(roots, &TagTreeNode{
			Label:    genre,
			Children: creatorNodes,
		})
	}
	return roots
}

// buildCreatorTagTree is buildGenreTagTree without the genre level:
// creator → album → track.
func buildCreatorTagTree(topDirs []string, allowed []string, extractor MetadataExtractor) []*TagTreeNode {
	creatorMap := make(map[string]map[string][]trackRef)

	forEachMediaFile(topDirs, allowed, func(path string) {
		meta := extractor.ExtractMetadata(path)
		creator := orUnknown(meta.Creator)
		album := orUnknown(meta.Album)

		albums, ok := creatorMap[creator]
		if !ok {
			albums = make(map[string][]trackRef)
			creatorMap[creator] = albums
		}
		albums[album] = append(albums[album], trackRef{trackTitle(meta, path), path})
	})

	var roots []*TagTreeNode
	for _, creator := range sortedKeys(creatorMap) {
		roots = append(roots, &TagTreeNode{
			Label:    creator,
			Children: albumNodes(creatorMap[creator]),
		})
	}
	return roots
}

// albumNodes converts one creator's album map into sorted album nodes. Each
// track becomes its own leaf with a singleton path list, even when two
// tracks in an album share a title; duplicates stay separate siblings.
func albumNodes(albums map[string][]trackRef) []*TagTreeNode {
	var nodes []*TagTreeNode
	for _, album := range sortedKeys(albums) {
		var trackNodes []*TagTreeNode
		for _, track := range albums[album] {
			trackNodes = append(trackNodes, &TagTreeNode{
				Label:     track.title,
				FilePaths: []string{track.path},
			})
		}
		nodes = append(nodes, &TagTreeNode{
			Label:    album,
			Children: trackNodes,
		})
	}
	return nodes
}
