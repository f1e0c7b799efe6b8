package slideshow

import "time"

// Metadata is the document information attached to an exported deck.
type Metadata struct {
	Author  string `json:"author,omitempty"`
	Company string `json:"company,omitempty"`
	Title   string `json:"title,omitempty"`
}

// Defaults applied to PPTX exports.
const (
	DefaultAuthor  = "Slide Editor"
	DefaultCompany = "KENBILERN"
	DefaultTitle   = "Exported Presentation"
)

// WithDefaults fills empty fields with the export defaults.
func (m Metadata) WithDefaults() Metadata {
	if m.Author == "" {
		m.Author = DefaultAuthor
	}
	if m.Company == "" {
		m.Company = DefaultCompany
	}
	if m.Title == "" {
		m.Title = DefaultTitle
	}
	return m
}

// DocumentProperties holds the core and extended properties of a PPTX
// package.
type DocumentProperties struct {
	Creator        string
	LastModifiedBy string
	Company        string
	Title          string
	Subject        string
	Description    string
	Keywords       string
	Category       string
	Revision       string
	Created        time.Time
	Modified       time.Time
}

// NewDocumentProperties returns properties stamped with the current time.
func NewDocumentProperties() *DocumentProperties {
	now := time.Now()
	return &DocumentProperties{
		Creator:  DefaultAuthor,
		Revision: "1",
		Created:  now,
		Modified: now,
	}
}

// Apply copies metadata into the properties.
func (dp *DocumentProperties) Apply(m Metadata) {
	m = m.WithDefaults()
	dp.Creator = m.Author
	dp.LastModifiedBy = m.Author
	dp.Company = m.Company
	dp.Title = m.Title
}

// DocumentLayout is the slide size of a deck.
type DocumentLayout struct {
	CX   int64 // width in EMU
	CY   int64 // height in EMU
	Name string
}

// Standard layout names.
const (
	LayoutScreen4x3   = "screen4x3"
	LayoutScreen16x9  = "screen16x9"
	LayoutScreen16x10 = "screen16x10"
	LayoutCustom      = "custom"
)

// NewDocumentLayout returns the 16:9 layout that matches the canvas.
func NewDocumentLayout() *DocumentLayout {
	return &DocumentLayout{CX: slideWidthEMU, CY: slideHeightEMU, Name: LayoutScreen16x9}
}

// SetLayout selects a predefined layout. Unknown names are ignored.
func (dl *DocumentLayout) SetLayout(name string) {
	switch name {
	case LayoutScreen4x3:
		dl.CX, dl.CY = 9144000, 6858000
	case LayoutScreen16x9:
		dl.CX, dl.CY = slideWidthEMU, slideHeightEMU
	case LayoutScreen16x10:
		dl.CX, dl.CY = 10972800, 6858000
	default:
		return
	}
	dl.Name = name
}

// SetCustomLayout sets custom dimensions in EMU. Non-positive values keep
// the 16:9 default for that axis.
func (dl *DocumentLayout) SetCustomLayout(cx, cy int64) {
	if cx <= 0 {
		cx = slideWidthEMU
	}
	if cy <= 0 {
		cy = slideHeightEMU
	}
	dl.CX, dl.CY, dl.Name = cx, cy, LayoutCustom
}

// scale maps a canvas rectangle onto the layout in EMU.
func (dl *DocumentLayout) scale(r Rect) (x, y, w, h int64) {
	sx := float64(dl.CX) / CanvasWidth
	sy := float64(dl.CY) / CanvasHeight
	return clampEMU(r.X * sx), clampEMU(r.Y * sy), clampEMU(r.W * sx), clampEMU(r.H * sy)
}
