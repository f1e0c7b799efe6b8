package slideshow

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
)

// PackageInfo summarizes a PPTX package.
type PackageInfo struct {
	Slides  int
	Width   int64 // EMU
	Height  int64 // EMU
	Title   string
	Creator string
	Company string
	// Media lists the media part names in the package.
	Media []string
	// SlidePictures holds the picture count of each slide in order.
	SlidePictures []int
	// SlideTexts holds the concatenated text of each slide in order.
	SlideTexts []string
}

// PPTXReader inspects PPTX packages.
type PPTXReader struct{}

// InspectFile inspects the package at path.
func (r *PPTXReader) InspectFile(path string) (*PackageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return r.Inspect(f, info.Size())
}

// InspectPPTX inspects the package read from r.
func InspectPPTX(r io.ReaderAt, size int64) (*PackageInfo, error) {
	var pr PPTXReader
	return pr.Inspect(r, size)
}

// Inspect reads the structure of a package from reader.
func (r *PPTXReader) Inspect(reader io.ReaderAt, size int64) (*PackageInfo, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid reader size: %d", size)
	}
	if size > int64(maxZipTotalSize) {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}

	zr, err := zip.NewReader(reader, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}
	files := zipIndex(zr)

	info := &PackageInfo{}
	// Missing document properties are acceptable.
	_ = readCoreProperties(files, info)
	_ = readAppProperties(files, info)

	slideRels, err := readPresentation(files, info)
	if err != nil {
		return nil, err
	}
	presRels, err := readRelationships(files, "ppt/_rels/presentation.xml.rels")
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(presRels))
	for _, rel := range presRels {
		targets[rel.ID] = rel.Target
	}

	for _, relID := range slideRels {
		target, ok := targets[relID]
		if !ok {
			return nil, fmt.Errorf("slide relationship %s not found", relID)
		}
		slidePath := path.Join("ppt", target)
		pics, text, err := readSlideSummary(files, slidePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read slide %s: %w", slidePath, err)
		}
		info.SlidePictures = append(info.SlidePictures, pics)
		info.SlideTexts = append(info.SlideTexts, text)
	}
	info.Slides = len(info.SlidePictures)

	for name := range files {
		if strings.HasPrefix(name, "ppt/media/") {
			info.Media = append(info.Media, name)
		}
	}
	sort.Strings(info.Media)
	return info, nil
}

// zipIndex builds a map from file name to *zip.File for O(1) lookups.
func zipIndex(zr *zip.Reader) map[string]*zip.File {
	m := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		m[f.Name] = f
	}
	return m
}

// maxZipEntrySize is the maximum allowed size for a single file extracted from a ZIP.
const maxZipEntrySize = 50 << 20 // 50 MB

// maxZipTotalSize is the cumulative limit for all extracted content from a single ZIP.
const maxZipTotalSize = 200 << 20 // 200 MB

// maxZipEntries is the maximum number of files allowed in a ZIP archive.
const maxZipEntries = 10000

func readFileFromZip(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("file not found in zip: %s", name)
	}
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, fmt.Errorf("file %s exceeds maximum allowed size (%d bytes)", name, maxZipEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, int64(maxZipEntrySize)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", name, err)
	}
	if int64(len(data)) > int64(maxZipEntrySize) {
		return nil, fmt.Errorf("file %s actual size exceeds maximum allowed size", name)
	}
	return data, nil
}

// --- Relationship reading ---

type xmlRelForRead struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type xmlRelsForRead struct {
	XMLName       xml.Name        `xml:"Relationships"`
	Relationships []xmlRelForRead `xml:"Relationship"`
}

func readRelationships(files map[string]*zip.File, name string) ([]xmlRelForRead, error) {
	data, err := readFileFromZip(files, name)
	if err != nil {
		return nil, err
	}
	var rels xmlRelsForRead
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships %s: %w", name, err)
	}
	return rels.Relationships, nil
}

// --- Presentation and properties ---

type xmlPresentationForRead struct {
	SldIDs []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
	SldSz struct {
		CX int64 `xml:"cx,attr"`
		CY int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

func readPresentation(files map[string]*zip.File, info *PackageInfo) ([]string, error) {
	data, err := readFileFromZip(files, "ppt/presentation.xml")
	if err != nil {
		return nil, err
	}
	var p xmlPresentationForRead
	if err := xml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse presentation.xml: %w", err)
	}
	info.Width, info.Height = p.SldSz.CX, p.SldSz.CY
	ids := make([]string, len(p.SldIDs))
	for i, s := range p.SldIDs {
		ids[i] = s.RID
	}
	return ids, nil
}

func readCoreProperties(files map[string]*zip.File, info *PackageInfo) error {
	data, err := readFileFromZip(files, "docProps/core.xml")
	if err != nil {
		return err
	}
	var core struct {
		Title   string `xml:"title"`
		Creator string `xml:"creator"`
	}
	if err := xml.Unmarshal(data, &core); err != nil {
		return err
	}
	info.Title, info.Creator = core.Title, core.Creator
	return nil
}

func readAppProperties(files map[string]*zip.File, info *PackageInfo) error {
	data, err := readFileFromZip(files, "docProps/app.xml")
	if err != nil {
		return err
	}
	var app struct {
		Company string `xml:"Company"`
	}
	if err := xml.Unmarshal(data, &app); err != nil {
		return err
	}
	info.Company = app.Company
	return nil
}

// readSlideSummary counts the pictures of a slide and collects its text
// runs.
func readSlideSummary(files map[string]*zip.File, name string) (int, string, error) {
	data, err := readFileFromZip(files, name)
	if err != nil {
		return 0, "", err
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	pics := 0
	var text strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == nsPresentationML && t.Name.Local == "pic":
				pics++
			case t.Name.Space == nsDrawingML && t.Name.Local == "t":
				inText = true
			}
		case xml.EndElement:
			if t.Name.Space == nsDrawingML && t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}
	return pics, text.String(), nil
}
