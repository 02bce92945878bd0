package outline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/metcalfc/bones/internal/spine"
	"github.com/metcalfc/bones/internal/textutil"
)

// Options configures Build.
type Options struct {
	// Engine selects the spine reader: spine.EngineAuto (the default),
	// spine.EngineGoreader, or spine.EngineZipFallback.
	Engine string

	// Logger receives fallback and per-document diagnostics. Nil discards
	// them.
	Logger *slog.Logger
}

// Build extracts the full outline from the EPUB at epubPath. Duplicate spine
// hrefs keep their first occurrence, and documents with no words and no
// headings are dropped; chapter order numbers the survivors contiguously.
func Build(epubPath string, opts Options) (*Outline, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	engine := opts.Engine
	if engine == "" {
		engine = spine.EngineAuto
	}

	entries, engineName, err := spine.Load(epubPath, engine, log)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoDocuments
	}

	seen := make(map[string]bool, len(entries))
	var chapters []Chapter
	for _, entry := range entries {
		if seen[entry.Href] {
			log.Debug("skipping duplicate spine href", "href", entry.Href)
			continue
		}
		seen[entry.Href] = true

		chapter, parseErr := ParseChapter(len(chapters)+1, entry.Href, entry.Content)
		if parseErr != nil {
			log.Warn("recovered partial structure from malformed document",
				"href", entry.Href, "error", parseErr)
		}
		if chapter.WordCount == 0 && len(chapter.Sections) == 0 {
			log.Debug("dropping empty document", "href", entry.Href)
			continue
		}
		chapters = append(chapters, chapter)
	}
	if len(chapters) == 0 {
		return nil, ErrNoChapters
	}

	sum, err := textutil.FileSHA256(epubPath)
	if err != nil {
		return nil, fmt.Errorf("hash source epub: %w", err)
	}
	info, err := os.Stat(epubPath)
	if err != nil {
		return nil, fmt.Errorf("stat source epub: %w", err)
	}

	return &Outline{
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		SourceEPUB:      epubPath,
		SourceSHA256:    sum,
		SourceSizeBytes: info.Size(),
		Engine:          engineName,
		Chapters:        chapters,
	}, nil
}
