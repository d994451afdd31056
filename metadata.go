package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// MediaMetadata holds the descriptive tags read from one media file. Every
// field is optional; the zero value means the tag was missing. Absence is
// never an error: an unreadable or untagged file yields an all-zero record.
type MediaMetadata struct {
	Creator    string
	Album      string
	Title      string
	Genre      string
	TrackNum   uint32
	DurationMS uint64
	ImageURI   string
	Identifier string
	Annotation string
}

// MetadataExtractor produces metadata for a file path. The tree builders
// take it as an interface so tests can run against fixture data instead of
// real audio files.
type MetadataExtractor interface {
	ExtractMetadata(path string) MediaMetadata
}

// tagExtractor reads embedded tags (ID3, Vorbis comments, MP4 atoms) with
// dhowden/tag.
type tagExtractor struct{}

func (tagExtractor) ExtractMetadata(path string) MediaMetadata {
	f, err := os.Open(path)
	if err != nil {
		return MediaMetadata{}
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if debug {
			log.Printf("Error parsing %s: %v", path, err)
		}
		return MediaMetadata{}
	}

	track, _ := m.Track()
	meta := MediaMetadata{
		Creator:    m.Artist(),
		Album:      m.Album(),
		Title:      m.Title(),
		Genre:      m.Genre(),
		Annotation: m.Comment(),
		Identifier: rawIdentifier(m),
	}
	if track > 0 {
		meta.TrackNum = uint32(track)
	}

	// Save the first embedded picture next to the source file. Best-effort:
	// a failed write leaves ImageURI empty and is not an error.
	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		side := coverArtPath(path)
		if os.WriteFile(side, pic.Data, 0644) == nil {
			meta.ImageURI = "file://" + side
		}
	}

	return meta
}

// rawIdentifier digs a recording identifier out of the raw tag frames,
// preferring a MusicBrainz track ID over an ISRC.
func rawIdentifier(m tag.Metadata) string {
	raw := m.Raw()
	for _, key := range []string{
		"musicbrainz_trackid",
		"MUSICBRAINZ_TRACKID",
		"isrc",
		"ISRC",
		"TSRC",
	} {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// coverArtPath derives the side-file path for extracted cover art:
// "/music/song.mp3" becomes "/music/song.cover.jpg".
func coverArtPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".cover.jpg"
}
