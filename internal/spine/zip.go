package spine

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/metcalfc/bones/internal/textutil"
)

// containerPath is the fixed location of the OCF container descriptor.
const containerPath = "META-INF/container.xml"

// containerXML maps META-INF/container.xml far enough to find the first
// rootfile.
type containerXML struct {
	XMLName   xml.Name   `xml:"container"`
	Rootfiles []rootfile `xml:"rootfiles>rootfile"`
}

type rootfile struct {
	FullPath string `xml:"full-path,attr"`
}

// opfPackage maps the OPF package document's manifest and spine.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfSpine struct {
	Itemrefs []opfItemref `xml:"itemref"`
}

type opfItemref struct {
	IDRef string `xml:"idref,attr"`
}

// zipEngine reads the spine straight out of the ZIP envelope, for use when
// the goreader engine cannot open the archive.
type zipEngine struct{}

func (zipEngine) Name() string { return EngineZipFallback }

// Read walks container.xml to the first rootfile, parses its manifest and
// spine, and yields each referenced (X)HTML document in spine order. Entries
// the archive does not carry are skipped silently, so order numbers stay
// contiguous over the documents that were actually read.
func (zipEngine) Read(epubPath string) ([]Entry, error) {
	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if _, ok := files[f.Name]; !ok {
			files[f.Name] = f
		}
	}

	opfPath, err := locateRootfile(files)
	if err != nil {
		return nil, err
	}
	pkg, err := parsePackage(files, opfPath)
	if err != nil {
		return nil, err
	}

	manifest := make(map[string]opfItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		if item.ID == "" || item.Href == "" {
			continue
		}
		manifest[item.ID] = item
	}

	opfDir := path.Dir(opfPath)
	var entries []Entry
	for _, ref := range pkg.Spine.Itemrefs {
		item, ok := manifest[ref.IDRef]
		if !ok || !isDocument(item.MediaType) {
			continue
		}
		href := resolveHref(opfDir, item.Href)
		if href == "" {
			continue
		}
		f, ok := files[href]
		if !ok {
			continue // spine references a path the archive does not carry
		}
		content, err := readZipFile(f)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Order: len(entries) + 1, Href: href, Content: content})
	}
	return entries, nil
}

// locateRootfile reads container.xml and returns the first rootfile's
// full-path.
func locateRootfile(files map[string]*zip.File) (string, error) {
	f, ok := files[containerPath]
	if !ok {
		return "", fmt.Errorf("missing %s: %w", containerPath, ErrInvalidEPUB)
	}
	data, err := readZipFile(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", containerPath, err)
	}

	var c containerXML
	if err := xml.Unmarshal(textutil.StripBOM(data), &c); err != nil {
		return "", fmt.Errorf("parse %s: %v: %w", containerPath, err, ErrInvalidEPUB)
	}
	if len(c.Rootfiles) == 0 {
		return "", fmt.Errorf("no rootfile in %s: %w", containerPath, ErrInvalidEPUB)
	}
	full := strings.TrimSpace(c.Rootfiles[0].FullPath)
	if full == "" {
		return "", fmt.Errorf("rootfile missing full-path attribute: %w", ErrInvalidEPUB)
	}
	return full, nil
}

// parsePackage reads and unmarshals the OPF package document.
func parsePackage(files map[string]*zip.File, opfPath string) (*opfPackage, error) {
	f, ok := files[opfPath]
	if !ok {
		return nil, fmt.Errorf("package document %s not in archive: %w", opfPath, ErrInvalidEPUB)
	}
	data, err := readZipFile(f)
	if err != nil {
		return nil, fmt.Errorf("read package document %s: %w", opfPath, err)
	}

	var pkg opfPackage
	if err := xml.Unmarshal(textutil.StripBOM(data), &pkg); err != nil {
		return nil, fmt.Errorf("parse package document %s: %v: %w", opfPath, err, ErrInvalidEPUB)
	}
	return &pkg, nil
}

// readZipFile reads a ZIP entry whole, bounded by maxDocumentBytes.
func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("entry %s exceeds %d bytes", f.Name, maxDocumentBytes)
	}
	return data, nil
}
