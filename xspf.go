package main

import (
	"fmt"
	"os"
	"strings"
)

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}

// exportXSPFPlaylist writes the given files, in order, as an XSPF 1.0
// playlist. Metadata is re-extracted per file at export time; missing tags
// simply omit their elements.
func exportXSPFPlaylist(paths []string, extractor MetadataExtractor, outputPath string) error {
	var xml strings.Builder

	pushLine := func(indent int, line string) {
		for i := 0; i < indent; i++ {
			xml.WriteString("    ")
		}
		xml.WriteString(line)
		xml.WriteByte('\n')
	}

	pushLine(0, `<?xml version="1.0" encoding="UTF-8"?>`)
	pushLine(0, `<playlist version="1" xmlns="http://xspf.org/ns/0/">`)
	pushLine(1, "<trackList>")

	for _, path := range paths {
		meta := extractor.ExtractMetadata(path)
		pushLine(2, "<track>")
		pushLine(3, fmt.Sprintf("<location>file://%s</location>", xmlEscape(path)))
		if meta.Title != "" {
			pushLine(3, fmt.Sprintf("<title>%s</title>", xmlEscape(meta.Title)))
		}
		if meta.Creator != "" {
			pushLine(3, fmt.Sprintf("<creator>%s</creator>", xmlEscape(meta.Creator)))
		}
		if meta.Album != "" {
			pushLine(3, fmt.Sprintf("<album>%s</album>", xmlEscape(meta.Album)))
		}
		if meta.DurationMS != 0 {
			pushLine(3, fmt.Sprintf("<duration>%d</duration>", meta.DurationMS))
		}
		if meta.Genre != "" {
			pushLine(3, fmt.Sprintf("<genre>%s</genre>", xmlEscape(meta.Genre)))
		}
		if meta.Identifier != "" {
			pushLine(3, fmt.Sprintf("<identifier>%s</identifier>", xmlEscape(meta.Identifier)))
		}
		if meta.Annotation != "" {
			pushLine(3, fmt.Sprintf("<annotation>%s</annotation>", xmlEscape(meta.Annotation)))
		}
		if meta.TrackNum != 0 {
			pushLine(3, fmt.Sprintf("<trackNum>%d</trackNum>", meta.TrackNum))
		}
		if meta.ImageURI != "" {
			pushLine(3, fmt.Sprintf("<image>%s</image>", xmlEscape(meta.ImageURI)))
		}
		pushLine(2, "</track>")
	}

	pushLine(1, "</trackList>")
	pushLine(0, "</playlist>")

	return os.WriteFile(outputPath, []byte(xml.String()), 0644)
}
