package outline

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/metcalfc/bones/internal/textutil"
)

// maxTokenBytes caps the tokenizer's buffer for a single token. A document
// that overruns it yields whatever structure was accumulated up to that
// point. Variable so tests can use a smaller limit.
var maxTokenBytes = 32 << 20

// selfClosingRawTagPattern matches self-closed tags whose names switch the
// tokenizer into raw-text mode. They are expanded to open+close pairs so the
// markup after them is not swallowed as raw text.
var selfClosingRawTagPattern = regexp.MustCompile(`(?is)<(script|style|title)\b([^>]*)/>`)

// docParser accumulates heading structure and word counts for one spine
// document without retaining its prose.
type docParser struct {
	sections     []Section
	totalWords   int
	digest       hash.Hash
	titleParts   []string
	headingParts []string
	headingLevel int // 1-9 inside an open heading tag, else 0
	inTitle      bool
	skipDepth    int // > 0 inside script/style
	active       int // index of the section accumulating body words, -1 none
}

func newDocParser() *docParser {
	return &docParser{digest: sha256.New(), active: -1}
}

// headingTagLevel returns 1-9 for tags h1 through h9, else 0.
func headingTagLevel(name string) int {
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '9' {
		return int(name[1] - '0')
	}
	return 0
}

func isSkipTag(name string) bool { return name == "script" || name == "style" }

// startTag handles an opening tag. Opening a heading resets the buffer even
// when another heading is still open; the outer one is discarded.
func (p *docParser) startTag(name string) {
	switch {
	case isSkipTag(name):
		p.skipDepth++
	case name == "title":
		p.inTitle = true
	default:
		if level := headingTagLevel(name); level != 0 {
			p.headingLevel = level
			p.headingParts = p.headingParts[:0]
		}
	}
}

// endTag handles a closing tag. Only a close matching the open heading's
// exact level finalizes it.
func (p *docParser) endTag(name string) {
	switch {
	case isSkipTag(name):
		if p.skipDepth > 0 {
			p.skipDepth--
		}
	case name == "title":
		p.inTitle = false
	default:
		if level := headingTagLevel(name); level != 0 && level == p.headingLevel {
			p.closeHeading()
		}
	}
}

// closeHeading finalizes the open heading. Headings whose text normalizes to
// nothing are dropped.
func (p *docParser) closeHeading() {
	title := textutil.NormalizeSpace(strings.Join(p.headingParts, " "))
	if title != "" {
		p.sections = append(p.sections, Section{
			Order: len(p.sections) + 1,
			Level: p.headingLevel,
			Title: title,
		})
		p.active = len(p.sections) - 1
	}
	p.headingLevel = 0
	p.headingParts = p.headingParts[:0]
}

// text handles a text run. Text inside an open heading counts toward the
// document total and the content digest but not toward that heading's own
// word count; only body text arriving after the heading closes accumulates
// there.
func (p *docParser) text(data string) {
	if p.skipDepth > 0 {
		return
	}
	chunk := textutil.NormalizeSpace(data)
	if chunk == "" {
		return
	}
	p.recordChunk(chunk)
	if p.inTitle {
		p.titleParts = append(p.titleParts, chunk)
	}
	if p.headingLevel != 0 {
		p.headingParts = append(p.headingParts, chunk)
	}
}

// recordChunk counts a normalized text chunk and folds it into the content
// digest. Chunks with no word tokens leave both untouched.
func (p *docParser) recordChunk(chunk string) {
	words := textutil.CountWords(chunk)
	if words == 0 {
		return
	}
	p.totalWords += words
	io.WriteString(p.digest, chunk)
	p.digest.Write([]byte{'\n'})
	if p.headingLevel == 0 && p.active >= 0 {
		p.sections[p.active].WordCount += words
	}
}

// documentTitle returns the accumulated <title> text.
func (p *docParser) documentTitle() string {
	return textutil.NormalizeSpace(strings.Join(p.titleParts, " "))
}

// contentHash returns the hex digest of the text runs recorded so far.
func (p *docParser) contentHash() string {
	return hex.EncodeToString(p.digest.Sum(nil))
}

// run feeds the document through the tokenizer. A non-nil error means the
// parse stopped early and the parser holds partial state; the accumulated
// state stays usable.
func (p *docParser) run(content []byte) error {
	content = textutil.StripBOM(content)
	content = bytes.ToValidUTF8(content, nil)
	content = selfClosingRawTagPattern.ReplaceAll(content, []byte("<$1$2></$1>"))

	z := html.NewTokenizer(bytes.NewReader(content))
	z.SetMaxBuf(maxTokenBytes)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		case html.StartTagToken:
			name, _ := z.TagName()
			p.startTag(string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			p.endTag(string(name))
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			p.startTag(string(name))
			p.endTag(string(name))
		case html.TextToken:
			p.text(string(z.Text()))
		}
	}
}

// ParseChapter extracts one spine document's structure. order is the
// chapter's 1-based position in the deduplicated spine and doubles as the
// chapter-number fallback. A non-nil error reports a parse that recovered
// partway through malformed markup; the returned chapter holds the partial
// structure and remains usable.
func ParseChapter(order int, href string, content []byte) (Chapter, error) {
	p := newDocParser()
	parseErr := p.run(content)

	headings := p.sections
	firstHeading := ""
	if len(headings) > 0 {
		firstHeading = headings[0].Title
	}
	title := firstHeading
	if title == "" {
		title = p.documentTitle()
	}
	if title == "" {
		title = textutil.SlugTitle(href)
	}

	// A level-1/2 first heading that mirrors the chapter title restates the
	// document title; deeper headings are the real section structure.
	rows := headings
	if len(headings) > 0 && headings[0].Level <= 2 && strings.EqualFold(firstHeading, title) {
		rows = headings[1:]
	}

	sections := make([]Section, 0, len(rows))
	for i, row := range rows {
		sections = append(sections, Section{
			Order:     i + 1,
			Level:     row.Level,
			Title:     row.Title,
			Href:      fmt.Sprintf("%s#s%d", href, i+1),
			WordCount: row.WordCount,
			Hash: textutil.StableHash(
				href, strconv.Itoa(row.Level), row.Title, strconv.Itoa(row.WordCount)),
		})
	}

	return Chapter{
		Order:         order,
		ChapterNumber: InferChapterNumber(title, href, order),
		Href:          href,
		Title:         title,
		WordCount:     p.totalWords,
		Hash: textutil.StableHash(
			href, title, strconv.Itoa(p.totalWords), p.contentHash()),
		Sections: sections,
	}, parseErr
}
