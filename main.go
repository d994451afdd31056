package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	locations        string
	extensionsFlag   string
	databasePath     string
	useSQLiteBackend bool
	rebuild          bool
	clearCache       bool
	showTree         bool
	byGenre          bool
	byCreator        bool
	exportPath       string
	playNow          bool
	buildIndex       bool
	query            string
	outputJSON       bool
	showPaths        bool
	indent           int
	showSyntax       bool
	debug            bool
)

const defaultExtensions = "mp3,m4a,ogg,oga,flac"

func init() {
	home, _ := os.UserHomeDir()
	defaultDB := filepath.Join(home, ".plui.db")

	flag.StringVar(&locations, "l", "", "comma-separated top-level directories to index")
	flag.StringVar(&locations, "locations", "", "comma-separated top-level directories to index")
	flag.StringVar(&extensionsFlag, "e", "", "comma-separated file extensions to match (default "+defaultExtensions+")")
	flag.StringVar(&extensionsFlag, "extensions", "", "comma-separated file extensions to match (default "+defaultExtensions+")")
	flag.StringVar(&databasePath, "database", defaultDB, "the location of the tree cache database")
	flag.BoolVar(&useSQLiteBackend, "use-sqlite-backend", false, "store the tree cache in SQLite instead of Bolt")
	flag.BoolVar(&rebuild, "rebuild", false, "discard the cached trees and rebuild them from disk")
	flag.BoolVar(&clearCache, "clear", false, "remove the cached trees and exit")
	flag.BoolVar(&showTree, "tree", false, "print the directory browse tree")
	flag.BoolVar(&byGenre, "genres", false, "print the genre hierarchy (cached if available)")
	flag.BoolVar(&byCreator, "creators", false, "print the creator hierarchy (cached if available)")
	flag.StringVar(&exportPath, "export", "", "export all matching files as an XSPF playlist to this path")
	flag.BoolVar(&playNow, "play", false, "export a playlist of all matching files and launch a player")
	flag.BoolVar(&buildIndex, "index", false, "build or refresh the track search index")
	flag.StringVar(&query, "q", "", "search the track index")
	flag.StringVar(&query, "query", "", "search the track index")
	flag.BoolVar(&outputJSON, "json", false, "output hierarchies in JSON")
	flag.BoolVar(&showPaths, "show-paths", false, "include file paths in hierarchy output")
	flag.IntVar(&indent, "i", 2, "with --json, # of spaces to indent by")
	flag.IntVar(&indent, "indent", 2, "with --json, # of spaces to indent by")
	flag.BoolVar(&showSyntax, "syntax", false, "show the chained-query syntax guide")
	flag.BoolVar(&debug, "d", false, "enable debug mode")
	flag.BoolVar(&debug, "debug", false, "enable debug mode")
}

func main() {
	flag.Parse()

	if showSyntax {
		fmt.Println(syntaxGuide)
		return
	}

	databasePath = truePath(databasePath)
	topDirs, extensions := resolveLibrary()
	extractor := tagExtractor{}

	if len(topDirs) == 0 {
		log.Fatal("No top-level directories configured; pass -l <dir>[,<dir>...]")
	}
	for _, dir := range topDirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			// Scans degrade to empty results for missing dirs; just warn.
			log.Printf("Top-level directory does not exist: %q", dir)
		}
	}

	var store TreeStore
	if useSQLiteBackend {
		store = &SQLiteTreeStore{}
		if filepath.Ext(databasePath) == ".db" {
			databasePath = strings.TrimSuffix(databasePath, ".db") + ".sqlite"
		}
	} else {
		store = &BoltStore{}
	}
	if err := store.Initialize(databasePath); err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if clearCache {
		for _, kind := range []string{GenreTreeKind, CreatorTreeKind} {
			if err := store.ClearTree(kind); err != nil {
				log.Fatalf("Failed to clear %s: %v", kind, err)
			}
		}
		fmt.Println("Tree cache cleared.")
		return
	}

	switch {
	case showTree:
		printBrowseTrees(topDirs, extensions)

	case byGenre || byCreator:
		kind := GenreTreeKind
		if byCreator {
			kind = CreatorTreeKind
		}
		roots := loadOrBuildTree(store, kind, topDirs, extensions, extractor, rebuild)
		if outputJSON {
			fmt.Println(marshalForest(roots))
		} else {
			printTagForest(roots)
		}

	case rebuild:
		// Bare -rebuild refreshes both hierarchy kinds.
		loadOrBuildTree(store, GenreTreeKind, topDirs, extensions, extractor, true)
		loadOrBuildTree(store, CreatorTreeKind, topDirs, extensions, extractor, true)
		fmt.Println("Tree cache rebuilt.")

	case exportPath != "":
		paths := collectPaths(topDirs, extensions)
		if err := exportXSPFPlaylist(paths, extractor, truePath(exportPath)); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("Exported %s tracks to %s\n", commatize(len(paths)), exportPath)

	case playNow:
		paths := collectPaths(topDirs, extensions)
		if len(paths) == 0 {
			fmt.Println("No matching files to play.")
			return
		}
		if err := playPaths(paths, extractor); err != nil {
			log.Fatal(err)
		}

	case buildIndex || query != "":
		runSearch(topDirs, extensions, extractor)

	default:
		roots := loadOrBuildTree(store, GenreTreeKind, topDirs, extensions, extractor, false)
		if outputJSON {
			fmt.Println(marshalForest(roots))
		} else {
			printTagForest(roots)
		}
	}
}

// resolveLibrary merges the location/extension flags with the persisted
// config: flags win and are written back, so the next bare invocation
// reuses them.
func resolveLibrary() ([]string, []string) {
	cfgPath := defaultConfigPath()
	cfg := loadConfig(cfgPath)

	if locations != "" {
		cfg.TopDirs = nil
		for _, dir := range strings.Split(locations, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				cfg.TopDirs = append(cfg.TopDirs, truePath(dir))
			}
		}
	}
	if extensionsFlag != "" {
		cfg.Extensions = nil
		for _, ext := range strings.Split(extensionsFlag, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				cfg.Extensions = append(cfg.Extensions, strings.TrimPrefix(ext, "."))
			}
		}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = strings.Split(defaultExtensions, ",")
	}
	if len(cfg.TopDirs) == 0 {
		home, _ := os.UserHomeDir()
		cfg.TopDirs = []string{filepath.Join(home, "Music")}
	}

	if locations != "" || extensionsFlag != "" {
		if err := saveConfig(cfgPath, cfg); err != nil {
			log.Printf("Failed to persist config: %v", err)
		}
	}
	return cfg.TopDirs, cfg.Extensions
}

// loadOrBuildTree is the cache-first path: return the stored forest when
// present, otherwise build from disk and write it back. force skips the
// lookup (and clears first) for an explicit refresh.
func loadOrBuildTree(store TreeStore, kind string, topDirs, extensions []string, extractor MetadataExtractor, force bool) []*TagTreeNode {
	if force {
		if err := store.ClearTree(kind); err != nil {
			log.Printf("Failed to clear %s: %v", kind, err)
		}
	} else if roots := store.LoadTree(kind); roots != nil {
		if debug {
			log.Printf("Loaded %s from cache", kind)
		}
		return roots
	}

	var roots []*TagTreeNode
	if kind == CreatorTreeKind {
		roots = buildCreatorTagTree(topDirs, extensions, extractor)
	} else {
		roots = buildGenreTagTree(topDirs, extensions, extractor)
	}
	if err := store.SaveTree(kind, roots); err != nil {
		// A lost write just means a rebuild next launch; still worth noting.
		log.Printf("Failed to cache %s: %v", kind, err)
	}
	return roots
}

func collectPaths(topDirs, extensions []string) []string {
	var paths []string
	forEachMediaFile(topDirs, extensions, func(path string) {
		paths = append(paths, path)
	})
	return paths
}

func printBrowseTrees(topDirs, extensions []string) {
	expandRoot := len(topDirs) == 1
	found := false
	for _, dir := range topDirs {
		node := scanDirectoryRoot(dir, extensions, expandRoot)
		if node == nil {
			continue
		}
		found = true
		if outputJSON {
			b, _ := json.MarshalIndent(node, "", strings.Repeat(" ", indent))
			fmt.Println(string(b))
		} else {
			printFileNode(node, 0)
		}
	}
	if !found {
		fmt.Println("No matching files found.")
	}
}

func printFileNode(node *FileNode, depth int) {
	marker := ""
	if node.Type == NodeDirectory {
		marker = "/"
	}
	fmt.Printf("%s%s%s\n", strings.Repeat("  ", depth), node.Name, marker)
	for _, child := range node.Children {
		printFileNode(child, depth+1)
	}
}

func printTagForest(roots []*TagTreeNode) {
	if len(roots) == 0 {
		fmt.Println("No matching files found.")
		return
	}
	for _, root := range roots {
		printTagNode(root, 0)
	}
}

func printTagNode(node *TagTreeNode, depth int) {
	line := strings.Repeat("  ", depth) + node.Label
	if showPaths && len(node.FilePaths) > 0 {
		line += "  [" + strings.Join(node.FilePaths, ", ") + "]"
	}
	fmt.Println(line)
	for _, child := range node.Children {
		printTagNode(child, depth+1)
	}
}

func marshalForest(roots []*TagTreeNode) string {
	var b []byte
	if indent > 0 {
		b, _ = json.MarshalIndent(roots, "", strings.Repeat(" ", indent))
	} else {
		b, _ = json.Marshal(roots)
	}
	return string(b)
}

// runSearch refreshes the Bleve index when asked, answers a one-shot
// query, or drops into the interactive loop.
func runSearch(topDirs, extensions []string, extractor MetadataExtractor) {
	index := &SearchIndex{}
	indexPath := strings.TrimSuffix(databasePath, filepath.Ext(databasePath)) + ".bleve"
	if err := index.Initialize(indexPath); err != nil {
		log.Fatal(err)
	}
	defer index.Close()

	if buildIndex {
		tracks := collectTracks(topDirs, extensions, extractor)
		const batchSize = 500
		for i := 0; i < len(tracks); i += batchSize {
			end := min(i+batchSize, len(tracks))
			if err := index.IndexTracks(tracks[i:end]); err != nil {
				log.Fatalf("Indexing failed: %v", err)
			}
		}
		fmt.Printf("Indexed %s tracks.\n", commatize(len(tracks)))
	}

	if query != "" {
		q := query
		cmd := ""
		if strings.Contains(query, ";") {
			parts := strings.SplitN(query, ";", 2)
			q = parts[0]
			cmd = strings.TrimSpace(parts[1])
		}
		results, err := index.Search(q)
		if err != nil {
			log.Fatal(err)
		}
		if outputJSON {
			b, _ := json.MarshalIndent(results, "", strings.Repeat(" ", indent))
			fmt.Println(string(b))
			return
		}
		if cmd != "" {
			playlistHandler(cmd, results, extractor)
			return
		}
		printResults(results)
		return
	}

	if buildIndex && !outputJSON {
		interactiveLoop(index, extractor)
	}
}

func printResults(results []TrackEntry) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}
	var lastCreator, lastAlbum string
	for i, r := range results {
		iStr := fmt.Sprintf("[ %*d ]", int(math.Log10(float64(len(results))))+1, i+1)

		if lastCreator != r.Creator {
			fmt.Printf("\n %s\n%s\n", r.Creator, strings.Repeat("=", len(r.Creator)))
			fmt.Printf("\n  %s\n   %s\n", r.Album, strings.Repeat("-", len(r.Album)))
		} else if lastAlbum != r.Album {
			fmt.Printf("\n  %s\n   %s\n", r.Album, strings.Repeat("-", len(r.Album)))
		}
		line := fmt.Sprintf("    %s %s", iStr, r.Title)
		if d := formatDuration(r.DurationMS); d != "" {
			line += " (" + d + ")"
		}
		fmt.Println(line)
		lastCreator = r.Creator
		lastAlbum = r.Album
	}
}

func playlistHandler(cmd string, results []TrackEntry, extractor MetadataExtractor) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	entryPaths := func(entries []TrackEntry) []string {
		paths := make([]string, len(entries))
		for i, e := range entries {
			paths[i] = e.Path
		}
		return paths
	}

	cmd = strings.ToLower(strings.TrimSpace(cmd))
	if i, err := strconv.Atoi(cmd); err == nil {
		if i > 0 && i <= len(results) {
			if err := playPaths(entryPaths(results[i-1:]), extractor); err != nil {
				fmt.Println(err)
			}
		} else {
			fmt.Printf("Enter value from 1 to %d, try again.\n", len(results))
		}
		return
	}

	switch cmd {
	case "a", "":
		if err := playPaths(entryPaths(results), extractor); err != nil {
			fmt.Println(err)
		}
	case "r":
		pick := results[rand.Intn(len(results))]
		if err := playPaths([]string{pick.Path}, extractor); err != nil {
			fmt.Println(err)
		}
	case "s":
		shuffled := make([]TrackEntry, len(results))
		copy(shuffled, results)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if err := playPaths(entryPaths(shuffled), extractor); err != nil {
			fmt.Println(err)
		}
	default:
		fmt.Println("Not a valid playlist command, try again.")
	}
}

func interactiveLoop(index *SearchIndex, extractor MetadataExtractor) {
	count, _ := index.Count()

	fmt.Println("For help with chained-query syntax, use plui-go --syntax")
	fmt.Println("Available parameters: !genre, @creator name, #album name, $track name")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("\n[plui | %s tracks] > ", commatize(count))
		if !scanner.Scan() {
			fmt.Fprintln(os.Stderr, "\nGoodbye.")
			break
		}
		results, err := index.Search(scanner.Text())
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			continue
		}
		if len(results) == 1 {
			playlistHandler("a", results, extractor)
			continue
		}

		printResults(results)

		fmt.Println("\nEnter # to play, or one of: (A)ll, (R)andom choice, or (S)huffle all")
		fmt.Print("[Play command] > ")
		if !scanner.Scan() {
			break
		}
		playlistHandler(scanner.Text(), results, extractor)
	}
}

const syntaxGuide = `
# Chained-query syntax

Queries against the track index chain single-character parameters.
Like-type parameters are logically ORed and unlike-type parameters are
logically ANDed together. Parameters are comma-separated and match
case-insensitively on partial hits.

!<some string>             - Match genres
@<some string>             - Match creators
#<some string>             - Match albums
$<some string>             - Match track titles
<some string>              - Match creators, albums, or titles

## Examples

@mingus, @coltrane         - Tracks by either creator
@stones, #greatest         - "Greatest Hits" albums by matching creators
!jazz, $take five          - The matching track within the genre

## Playlist post-commands

Append ";" plus one of the following to a -q query:

#                          - Play the #th result
a                          - Play all results
r                          - Play one random result
s                          - Play all results, shuffled

## Bleve query strings

Inputs without chained parameters go straight to Bleve, so field-scoped
and fuzzy queries work too:

title:love~2               - Fuzzy title match
+creator:queen -title:live - Must be Queen, must not be "live"
`
