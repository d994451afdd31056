package main

import (
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"
)

// TrackEntry is the flat record kept in the search index: one entry per
// media file, built from the same walk that feeds the tag trees.
type TrackEntry struct {
	Title      string `json:"title"`
	Creator    string `json:"creator"`
	Album      string `json:"album"`
	Genre      string `json:"genre"`
	TrackNum   int    `json:"tracknum"`
	DurationMS uint64 `json:"duration_ms"`
	Path       string `json:"path"`
}

// SearchIndex is an optional Bleve index over the library's tracks,
// enabling free-text and field-scoped queries that the tag trees cannot
// answer. It lives next to the tree cache but is a shell-layer
// convenience, not part of the cache contract.
type SearchIndex struct {
	index bleve.Index
}

func (s *SearchIndex) Initialize(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		mapping := bleve.NewIndexMapping()
		index, err := bleve.New(path, mapping)
		if err != nil {
			return err
		}
		s.index = index
		return nil
	}
	index, err := bleve.Open(path)
	if err != nil {
		return err
	}
	s.index = index
	return nil
}

func (s *SearchIndex) Close() error {
	if s.index != nil {
		return s.index.Close()
	}
	return nil
}

// IndexTracks adds or updates a batch of tracks, keyed by path so a
// rebuild replaces prior entries in place.
func (s *SearchIndex) IndexTracks(batch []*TrackEntry) error {
	b := s.index.NewBatch()
	for _, t := range batch {
		if err := b.Index(t.Path, t); err != nil {
			return err
		}
	}
	return s.index.Batch(b)
}

func (s *SearchIndex) Count() (int, error) {
	c, err := s.index.DocCount()
	return int(c), err
}

// Search runs a query against the index. Inputs using the chained
// single-character syntax (!genre, @creator, #album, $title, comma-joined)
// are parsed into a boolean query; anything else is handed to Bleve's
// query-string parser, so fuzzy and field-scoped queries work as-is. An
// empty input matches everything.
func (s *SearchIndex) Search(input string) ([]TrackEntry, error) {
	if input == "" {
		return s.runQuery(bleve.NewMatchAllQuery())
	}
	if strings.ContainsAny(input, "!@#$") || strings.Contains(input, ",") {
		return s.searchChained(input)
	}
	return s.runQuery(bleve.NewQueryStringQuery(input))
}

// searchChained parses the chained syntax: like-type terms are ORed,
// unlike-type terms ANDed, and untyped terms match creator, album, or
// title.
func (s *SearchIndex) searchChained(input string) ([]TrackEntry, error) {
	var genreTerms, creatorTerms, albumTerms, titleTerms, anyTerms []string
	for _, word := range strings.Split(input, ",") {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		switch {
		case strings.HasPrefix(word, "!"):
			genreTerms = append(genreTerms, word[1:])
		case strings.HasPrefix(word, "@"):
			creatorTerms = append(creatorTerms, word[1:])
		case strings.HasPrefix(word, "#"):
			albumTerms = append(albumTerms, word[1:])
		case strings.HasPrefix(word, "$"):
			titleTerms = append(titleTerms, word[1:])
		default:
			anyTerms = append(anyTerms, word)
		}
	}

	mainQuery := bleve.NewBooleanQuery()

	addOrGroup := func(terms []string, field string) {
		if len(terms) == 0 {
			return
		}
		sub := bleve.NewBooleanQuery()
		for _, t := range terms {
			mq := bleve.NewMatchQuery(t)
			mq.SetField(field)
			sub.AddShould(mq)
		}
		mainQuery.AddMust(sub)
	}

	addOrGroup(genreTerms, "genre")
	addOrGroup(creatorTerms, "creator")
	addOrGroup(albumTerms, "album")
	addOrGroup(titleTerms, "title")

	if len(anyTerms) > 0 {
		sub := bleve.NewBooleanQuery()
		for _, t := range anyTerms {
			q1 := bleve.NewMatchQuery(t)
			q1.SetField("creator")
			q2 := bleve.NewMatchQuery(t)
			q2.SetField("album")
			q3 := bleve.NewMatchQuery(t)
			q3.SetField("title")
			sub.AddShould(q1, q2, q3)
		}
		mainQuery.AddMust(sub)
	}

	return s.runQuery(mainQuery)
}

func (s *SearchIndex) runQuery(q bleveQuery.Query) ([]TrackEntry, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = 1000
	req.Fields = []string{"*"}
	req.SortBy([]string{"creator", "album", "tracknum", "title"})

	res, err := s.index.Search(req)
	if err != nil {
		return nil, err
	}

	var results []TrackEntry
	for _, hit := range res.Hits {
		getStr := func(f string) string {
			if v, ok := hit.Fields[f].(string); ok {
				return v
			}
			return ""
		}
		getNum := func(f string) float64 {
			if v, ok := hit.Fields[f].(float64); ok {
				return v
			}
			return 0
		}

		results = append(results, TrackEntry{
			Title:      getStr("title"),
			Creator:    getStr("creator"),
			Album:      getStr("album"),
			Genre:      getStr("genre"),
			TrackNum:   int(getNum("tracknum")),
			DurationMS: uint64(getNum("duration_ms")),
			Path:       getStr("path"),
		})
	}
	return results, nil
}

// collectTracks runs the same walk as the tree builders but flattens into
// TrackEntry records for indexing.
func collectTracks(topDirs []string, allowed []string, extractor MetadataExtractor) []*TrackEntry {
	var tracks []*TrackEntry
	forEachMediaFile(topDirs, allowed, func(path string) {
		meta := extractor.ExtractMetadata(path)
		tracks = append(tracks, &TrackEntry{
			Title:      trackTitle(meta, path),
			Creator:    orUnknown(meta.Creator),
			Album:      orUnknown(meta.Album),
			Genre:      orUnknown(meta.Genre),
			TrackNum:   int(meta.TrackNum),
			DurationMS: meta.DurationMS,
			Path:       path,
		})
	})
	return tracks
}
