package outline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// renderJSON serializes the outline pretty-printed. HTML escaping is off so
// titles and hrefs keep &, <, and > literal and non-ASCII text passes
// through unescaped.
func renderJSON(o *Outline) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Markdown renders the human-readable outline report.
func (o *Outline) Markdown() string {
	lines := []string{
		"# EPUB Structure Outline",
		"",
		fmt.Sprintf("- Generated: %s", o.GeneratedAt),
		fmt.Sprintf("- Source: `%s`", o.SourceEPUB),
		fmt.Sprintf("- Source SHA-256: `%s`", o.SourceSHA256),
		fmt.Sprintf("- Engine: `%s`", o.Engine),
		fmt.Sprintf("- Chapters: %d", len(o.Chapters)),
		fmt.Sprintf("- Sections: %d", o.SectionCount()),
		"",
	}

	for _, ch := range o.Chapters {
		lines = append(lines,
			fmt.Sprintf("## %d. %s", ch.Order, ch.Title),
			fmt.Sprintf("- Chapter number: %d", ch.ChapterNumber),
			fmt.Sprintf("- Href: `%s`", ch.Href),
			fmt.Sprintf("- Words: %d", ch.WordCount),
			fmt.Sprintf("- Hash: `%s`", ch.Hash),
		)
		if len(ch.Sections) == 0 {
			lines = append(lines, "- Sections: _none detected_", "")
			continue
		}
		lines = append(lines, "- Sections:")
		for _, s := range ch.Sections {
			lines = append(lines, fmt.Sprintf("  - %d. [%d] %s (words: %d, hash: `%s`)",
				s.Order, s.Level, s.Title, s.WordCount, s.Hash))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// WriteJSON writes the outline's JSON artifact, creating parent directories
// as needed.
func (o *Outline) WriteJSON(path string) error {
	data, err := renderJSON(o)
	if err != nil {
		return fmt.Errorf("encode outline: %w", err)
	}
	return writeArtifact(path, data)
}

// WriteMarkdown writes the outline's Markdown artifact, creating parent
// directories as needed.
func (o *Outline) WriteMarkdown(path string) error {
	return writeArtifact(path, []byte(o.Markdown()))
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
