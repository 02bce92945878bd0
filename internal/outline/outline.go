// Package outline assembles the structure-only outline of an EPUB: chapter
// and section titles, ordering, hrefs, word counts, and stable hashes. No
// prose is retained; counts and digests stand in for the content itself.
package outline

import "errors"

// Fatal assembly failures.
var (
	// ErrNoDocuments indicates the spine yielded no content documents.
	ErrNoDocuments = errors.New("outline: no spine xhtml documents found in epub")

	// ErrNoChapters indicates every document was empty of words and headings.
	ErrNoChapters = errors.New("outline: spine parsing finished, but no chapter structure was extracted")
)

// Section is one heading captured inside a chapter document.
type Section struct {
	// Order is the 1-based position among the chapter's surviving sections.
	Order int `json:"order"`

	// Level is the heading depth, 1 through 9.
	Level int `json:"level"`

	Title string `json:"title"`

	// Href is the chapter href with a synthetic #sN fragment appended.
	Href string `json:"href"`

	// WordCount covers body text between this heading and the next one,
	// not the heading's own text.
	WordCount int `json:"word_count"`

	Hash string `json:"hash"`
}

// Chapter is one spine document's extracted structure.
type Chapter struct {
	// Order is the 1-based position among the surviving chapters.
	Order int `json:"order"`

	// ChapterNumber is inferred from the title or href when possible and
	// falls back to Order.
	ChapterNumber int `json:"chapter_number"`

	Href  string `json:"href"`
	Title string `json:"title"`

	// WordCount covers every visible text run in the document, heading and
	// title text included.
	WordCount int `json:"word_count"`

	Hash string `json:"hash"`

	// Sections is never nil; chapters without detected headings carry an
	// empty list.
	Sections []Section `json:"sections"`
}

// Outline is the full extraction result for one EPUB.
type Outline struct {
	GeneratedAt     string    `json:"generated_at"`
	SourceEPUB      string    `json:"source_epub"`
	SourceSHA256    string    `json:"source_sha256"`
	SourceSizeBytes int64     `json:"source_size_bytes"`
	Engine          string    `json:"engine"`
	Chapters        []Chapter `json:"chapters"`
}

// SectionCount returns the number of sections across all chapters.
func (o *Outline) SectionCount() int {
	n := 0
	for _, ch := range o.Chapters {
		n += len(ch.Sections)
	}
	return n
}
