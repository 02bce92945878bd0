package outline

import "testing"

func TestInferChapterNumber(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		href     string
		fallback int
		want     int
	}{
		{"chapter word in title", "Chapter 07: Subnetting", "text/part1.xhtml", 3, 7},
		{"abbreviation in href", "Opening Moves", "OEBPS/ch_12.xhtml", 4, 12},
		{"title wins over href", "Chapter 2", "ch_09.xhtml", 1, 2},
		{"abbreviation in title wins too", "ch 5 overview", "chapter09.xhtml", 1, 5},
		{"zero padding stripped", "CHAPTER 007", "x.xhtml", 1, 7},
		{"separators before digits", "Ch-3", "x.xhtml", 1, 3},
		{"no hint falls back", "Introduction", "intro.xhtml", 6, 6},
		{"digits without marker fall back", "Part 12", "part12.xhtml", 2, 2},
		{"four digits are not a chapter", "Chapter 1234", "c.xhtml", 9, 9},
		{"case insensitive", "chApTeR 3 of many", "x.xhtml", 1, 3},
		{"digit run breaks boundary", "Chapter 3of", "x.xhtml", 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferChapterNumber(tt.title, tt.href, tt.fallback); got != tt.want {
				t.Errorf("InferChapterNumber(%q, %q, %d) = %d, want %d",
					tt.title, tt.href, tt.fallback, got, tt.want)
			}
		})
	}
}
