// Package spine reads the ordered content documents out of an EPUB archive.
//
// Two interchangeable engines implement the same Reader capability: a rich
// strategy backed by the goreader library and a raw ZIP fallback that walks
// META-INF/container.xml and the OPF package document by hand. Load picks
// the engine at runtime.
package spine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
)

// Engine names accepted by Load and reported in the outline header.
const (
	EngineAuto        = "auto"
	EngineGoreader    = "goreader"
	EngineZipFallback = "zip_fallback"
)

// ErrInvalidEPUB indicates the archive's container descriptor or package
// document could not be located or parsed.
var ErrInvalidEPUB = errors.New("spine: invalid epub archive")

// ErrUnknownEngine indicates an engine name Load does not recognize.
var ErrUnknownEngine = errors.New("spine: unknown engine")

// maxDocumentBytes caps a single archive entry read. EPUB content documents
// are orders of magnitude smaller; anything larger is treated as corrupt.
const maxDocumentBytes = 64 << 20

// Entry is one content document from the EPUB reading order.
type Entry struct {
	Order   int    // 1-based position in the spine
	Href    string // archive path of the document, resolved and normalized
	Content []byte // raw XHTML bytes
}

// Reader yields the ordered content documents of an EPUB archive.
type Reader interface {
	// Name identifies the engine in diagnostics and the outline header.
	Name() string

	// Read returns the spine's content documents in reading order.
	Read(path string) ([]Entry, error)
}

// engines lists the available readers in preference order.
var engines = []Reader{goreaderEngine{}, zipEngine{}}

// Load reads the spine with the named engine, or with automatic fallback
// when name is EngineAuto: the goreader engine is tried first and the ZIP
// fallback takes over only when goreader itself fails. The returned string
// names the engine that produced the entries.
func Load(epubPath, name string, log *slog.Logger) ([]Entry, string, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if name != EngineAuto {
		for _, r := range engines {
			if r.Name() != name {
				continue
			}
			entries, err := r.Read(epubPath)
			if err != nil {
				return nil, "", fmt.Errorf("%s engine: %w", name, err)
			}
			return entries, name, nil
		}
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}

	rich, fallback := engines[0], engines[1]
	entries, richErr := rich.Read(epubPath)
	if richErr == nil {
		return entries, rich.Name(), nil
	}
	log.Warn("rich engine failed, trying zip fallback",
		"engine", rich.Name(), "error", richErr)

	entries, zipErr := fallback.Read(epubPath)
	if zipErr != nil {
		return nil, "", errors.Join(
			fmt.Errorf("%s engine: %w", rich.Name(), richErr),
			fmt.Errorf("%s engine: %w", fallback.Name(), zipErr),
		)
	}
	return entries, fallback.Name(), nil
}

// isDocument reports whether a manifest media type names an (X)HTML content
// document.
func isDocument(mediaType string) bool {
	return strings.Contains(strings.ToLower(mediaType), "html")
}

// resolveHref resolves a manifest href against the package document's
// directory, normalizing "." and ".." segments. Absolute hrefs and hrefs
// that escape the archive root resolve to "".
func resolveHref(opfDir, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "/") {
		return ""
	}
	joined := path.Join(opfDir, href)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return ""
	}
	return joined
}
