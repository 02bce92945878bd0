package outline

import (
	"regexp"
	"strconv"
)

// Chapter-number hints, tried in order: the spelled-out word, then the
// ch/chapter abbreviation with optional separators. Zero padding is ignored
// and digit runs are capped at three, so "Chapter 007" gives 7 while
// "Chapter 1234" matches nothing.
var (
	chapterWordPattern   = regexp.MustCompile(`(?i)\bchapter\s*0*(\d{1,3})\b`)
	chapterAbbrevPattern = regexp.MustCompile(`(?i)\bch(?:apter)?[_\-\s]*0*(\d{1,3})\b`)
)

// InferChapterNumber extracts a chapter number from the title or href,
// scanning the title first. When neither carries a hint, fallback (the
// chapter's position in the spine) is returned.
func InferChapterNumber(title, href string, fallback int) int {
	for _, candidate := range []string{title, href} {
		for _, pattern := range []*regexp.Regexp{chapterWordPattern, chapterAbbrevPattern} {
			m := pattern.FindStringSubmatch(candidate)
			if m == nil {
				continue
			}
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	return fallback
}
