// Package textutil provides the text normalization, word counting, and
// hashing primitives shared by the outline pipeline.
package textutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path"
	"regexp"
	"strings"
	"unicode"
)

// wordPattern matches a run of ASCII letters or digits with an optional
// apostrophe-joined tail, so "don't" counts as one word.
var wordPattern = regexp.MustCompile(`[A-Za-z0-9]+(?:'[A-Za-z0-9]+)?`)

// slugSeparators matches the underscore and hyphen runs replaced when
// humanizing a filename stem.
var slugSeparators = regexp.MustCompile(`[_\-]+`)

// unitSep separates hash inputs so part boundaries cannot collide.
var unitSep = []byte{0x1f}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// NormalizeSpace collapses every run of whitespace to a single ASCII space
// and trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountWords returns the number of word tokens in s.
func CountWords(s string) int {
	return len(wordPattern.FindAllStringIndex(s, -1))
}

// StableHash returns the lowercase hex SHA-256 over every part's UTF-8
// bytes, each part followed by a 0x1F unit separator.
func StableHash(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		io.WriteString(h, part)
		h.Write(unitSep)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FileSHA256 returns the lowercase hex SHA-256 of the file's raw bytes,
// streamed so large archives are never held in memory whole.
func FileSHA256(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// StripBOM drops a leading UTF-8 byte order mark from data.
func StripBOM(data []byte) []byte {
	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):]
	}
	return data
}

// SlugTitle humanizes an href's filename stem into a display title:
// "OEBPS/ch_01-notes.xhtml" becomes "Ch 01 Notes". When the stem has no
// usable characters the href is returned unchanged.
func SlugTitle(href string) string {
	stem := path.Base(href)
	stem = strings.TrimSuffix(stem, path.Ext(stem))
	stem = strings.TrimSpace(slugSeparators.ReplaceAllString(stem, " "))
	if stem == "" {
		return href
	}
	return titleCase(stem)
}

// titleCase titlecases the first letter of every cased run and lowercases
// the rest of the run. Uncased characters such as digits and apostrophes
// end a run, so "o'brien" becomes "O'Brien" and "1st" becomes "1St".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		if prevCased {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToTitle(r))
		}
		prevCased = unicode.IsLower(r) || unicode.IsUpper(r) || unicode.IsTitle(r)
	}
	return b.String()
}
