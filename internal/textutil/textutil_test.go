package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses runs", "a  b\t\tc", "a b c"},
		{"newlines", "line one\nline two\r\nline three", "line one line two line three"},
		{"trims ends", "  padded  ", "padded"},
		{"empty", "", ""},
		{"all whitespace", " \n\t ", ""},
		{"already normal", "a b c", "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSpace(tt.in); got != tt.want {
				t.Errorf("NormalizeSpace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSpaceIdempotent(t *testing.T) {
	inputs := []string{"a  b", " x\ty ", "", "one", "\n\n"}
	for _, in := range inputs {
		once := NormalizeSpace(in)
		if twice := NormalizeSpace(once); twice != once {
			t.Errorf("NormalizeSpace not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"plain", "three little words", 3},
		{"apostrophe joins", "don't stop believing", 3},
		{"digits count", "Chapter 1", 2},
		{"punctuation ignored", "hello, world!", 2},
		{"symbols alone", "--- *** !!!", 0},
		{"empty", "", 0},
		{"mixed alnum", "ch01 rev2", 2},
		{"curly apostrophe splits", "don’t", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.in); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountWordsWhitespaceInvariant(t *testing.T) {
	base := "the quick brown fox"
	variants := []string{
		"the  quick   brown fox",
		"\tthe\nquick brown\t\tfox  ",
		"the quick\r\nbrown fox",
	}
	want := CountWords(base)
	for _, v := range variants {
		if got := CountWords(v); got != want {
			t.Errorf("CountWords(%q) = %d, want %d", v, got, want)
		}
	}
}

func TestStableHash(t *testing.T) {
	if got, again := StableHash("a", "bc"), StableHash("a", "bc"); got != again {
		t.Errorf("StableHash not deterministic: %s vs %s", got, again)
	}
	if StableHash("ab", "c") == StableHash("a", "bc") {
		t.Error("StableHash should not collide across part boundaries")
	}

	got := StableHash("a")
	if len(got) != 64 || got != strings.ToLower(got) {
		t.Errorf("StableHash(%q) = %q, want 64 lowercase hex chars", "a", got)
	}

	// Each part is followed by a 0x1F separator, including the last.
	want := sha256.Sum256([]byte("a\x1f"))
	if got != hex.EncodeToString(want[:]) {
		t.Errorf("StableHash(%q) = %s, want %s", "a", got, hex.EncodeToString(want[:]))
	}
}

func TestFileSHA256(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "blob.bin")
	content := []byte("The quick brown fox jumps over the lazy dog")
	if err := os.WriteFile(fp, content, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := FileSHA256(fp)
	if err != nil {
		t.Fatalf("FileSHA256: %v", err)
	}
	want := sha256.Sum256(content)
	if got != hex.EncodeToString(want[:]) {
		t.Errorf("FileSHA256 = %s, want %s", got, hex.EncodeToString(want[:]))
	}
}

func TestFileSHA256Missing(t *testing.T) {
	if _, err := FileSHA256(filepath.Join(t.TempDir(), "absent.epub")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStripBOM(t *testing.T) {
	with := []byte("\xef\xbb\xbf<container/>")
	if got := string(StripBOM(with)); got != "<container/>" {
		t.Errorf("StripBOM left %q", got)
	}
	without := []byte("<container/>")
	if got := string(StripBOM(without)); got != "<container/>" {
		t.Errorf("StripBOM mangled unprefixed data: %q", got)
	}
	short := []byte{0xef, 0xbb}
	if got := StripBOM(short); len(got) != 2 {
		t.Errorf("StripBOM truncated short input to %d bytes", len(got))
	}
}

func TestSlugTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"underscores", "OEBPS/ch_01.xhtml", "Ch 01"},
		{"hyphens", "intro-notes.html", "Intro Notes"},
		{"mixed separators", "part_one-two.xhtml", "Part One Two"},
		{"uppercase lowered", "FRONT_MATTER.xhtml", "Front Matter"},
		{"apostrophe starts a new cased run", "o'brien.xhtml", "O'Brien"},
		{"digit-led word", "1st-steps.xhtml", "1St Steps"},
		{"no extension", "epilogue", "Epilogue"},
		{"empty stem falls back", "___.xhtml", "___.xhtml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlugTitle(tt.in); got != tt.want {
				t.Errorf("SlugTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
