package spine

import (
	"fmt"
	"io"
	"path"

	"github.com/taylorskalyo/goreader/epub"
)

// goreaderEngine reads the spine through the goreader EPUB library.
type goreaderEngine struct{}

func (goreaderEngine) Name() string { return EngineGoreader }

// Read opens the archive with goreader and yields every spine itemref that
// resolves to an (X)HTML manifest item. Order follows the itemref position,
// so skipped non-document entries leave gaps in the numbering.
func (goreaderEngine) Read(epubPath string) ([]Entry, error) {
	rc, err := epub.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles in container: %w", ErrInvalidEPUB)
	}
	book := rc.Rootfiles[0]
	opfDir := path.Dir(book.FullPath)

	var entries []Entry
	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil || !isDocument(ref.Item.MediaType) {
			continue
		}
		href := resolveHref(opfDir, ref.Item.HREF)
		if href == "" {
			continue
		}
		content, err := readItem(ref.Item)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Order: i + 1, Href: href, Content: content})
	}
	return entries, nil
}

// readItem reads a manifest item's content, bounded by maxDocumentBytes.
func readItem(item *epub.Item) ([]byte, error) {
	r, err := item.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, maxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("document %s exceeds %d bytes", item.HREF, maxDocumentBytes)
	}
	return data, nil
}
