package slideshow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Deck is a PPTX document under construction. Exporters build one deck per
// call and write it with a PPTXWriter.
type Deck struct {
	Properties *DocumentProperties
	Layout     *DocumentLayout
	slides     []*DeckSlide
}

// NewDeck creates an empty 16:9 deck.
func NewDeck() *Deck {
	return &Deck{Properties: NewDocumentProperties(), Layout: NewDocumentLayout()}
}

// AddSlide appends a blank slide.
func (d *Deck) AddSlide() *DeckSlide {
	s := &DeckSlide{}
	d.slides = append(d.slides, s)
	return s
}

// Slides returns the slides in order.
func (d *Deck) Slides() []*DeckSlide {
	return d.slides
}

// DeckSlide is one slide of a deck.
type DeckSlide struct {
	Background Color
	shapes     []DeckShape
}

// Shapes returns the shapes in paint order.
func (s *DeckSlide) Shapes() []DeckShape {
	return s.shapes
}

// AddPicture adds an embedded image.
func (s *DeckSlide) AddPicture(data []byte, mimeType string) *PictureShape {
	p := &PictureShape{data: data, mimeType: mimeType}
	s.shapes = append(s.shapes, p)
	return p
}

// AddText adds an empty text box.
func (s *DeckSlide) AddText() *TextBoxShape {
	t := &TextBoxShape{wrap: true, anchor: VerticalTop}
	s.shapes = append(s.shapes, t)
	return t
}

// AddRect adds a filled rectangle.
func (s *DeckSlide) AddRect(fill Color) *RectShape {
	r := &RectShape{fill: fill}
	s.shapes = append(s.shapes, r)
	return r
}

// DeckShape is any shape that can be placed on a deck slide.
type DeckShape interface {
	base() *BaseShape
}

// BaseShape holds the geometry shared by every shape. Geometry is in EMU.
type BaseShape struct {
	offsetX     int64
	offsetY     int64
	width       int64
	height      int64
	rotation    int
	name        string
	description string
}

func (b *BaseShape) base() *BaseShape { return b }

func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetRotation() int  { return b.rotation }
func (b *BaseShape) GetName() string   { return b.name }

// SetBounds sets position and size in EMU. Negative sizes are clamped to 0.
func (b *BaseShape) SetBounds(x, y, w, h int64) {
	b.offsetX, b.offsetY = x, y
	b.width, b.height = max(w, 0), max(h, 0)
}

// SetRotation sets the clockwise rotation in degrees, normalized to 0..359.
func (b *BaseShape) SetRotation(deg int) { b.rotation = ((deg % 360) + 360) % 360 }

func (b *BaseShape) SetName(n string)        { b.name = n }
func (b *BaseShape) SetDescription(d string) { b.description = d }

// PictureShape is an embedded raster image.
type PictureShape struct {
	BaseShape
	data     []byte
	mimeType string
}

// SetImageFromFile loads image bytes from a file.
func (p *PictureShape) SetImageFromFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxImageFileSize {
		return fmt.Errorf("image file too large: %d bytes (max %d)", info.Size(), maxImageFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p.data = data
	p.mimeType = guessMimeFromPath(path)
	return nil
}

// Data returns the encoded image bytes.
func (p *PictureShape) Data() []byte { return p.data }

// MimeType returns the image media type.
func (p *PictureShape) MimeType() string { return p.mimeType }

const maxImageFileSize = 50 << 20 // 50 MB

func guessMimeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	default:
		return "image/png"
	}
}

// imageExtension returns the media part extension for a mime type.
func imageExtension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	default:
		return "png"
	}
}

// TextBoxShape is a text box made of paragraphs of styled runs.
type TextBoxShape struct {
	BaseShape
	paragraphs []*Paragraph
	fill       Color
	anchor     VerticalAlignment
	wrap       bool
}

// CreateParagraph appends an empty paragraph.
func (t *TextBoxShape) CreateParagraph(align HorizontalAlignment) *Paragraph {
	p := &Paragraph{Align: align}
	t.paragraphs = append(t.paragraphs, p)
	return p
}

// Paragraphs returns the paragraphs of the box.
func (t *TextBoxShape) Paragraphs() []*Paragraph { return t.paragraphs }

// SetAnchor sets the vertical anchoring of the text.
func (t *TextBoxShape) SetAnchor(a VerticalAlignment) { t.anchor = a }

// SetFill sets a background fill; a zero color means no fill.
func (t *TextBoxShape) SetFill(c Color) { t.fill = c }

// SetWordWrap toggles wrapping at the box edge.
func (t *TextBoxShape) SetWordWrap(wrap bool) { t.wrap = wrap }

// Text returns the plain text of the box, one line per paragraph.
func (t *TextBoxShape) Text() string {
	lines := make([]string, len(t.paragraphs))
	for i, p := range t.paragraphs {
		var b strings.Builder
		for _, r := range p.runs {
			b.WriteString(r.Text)
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Paragraph is a line of runs with one alignment.
type Paragraph struct {
	Align HorizontalAlignment
	runs  []*TextRun
}

// AddRun appends a run.
func (p *Paragraph) AddRun(text string, f Font) *TextRun {
	r := &TextRun{Text: text, Font: f}
	p.runs = append(p.runs, r)
	return r
}

// Runs returns the runs of the paragraph.
func (p *Paragraph) Runs() []*TextRun { return p.runs }

// TextRun is text drawn in one font.
type TextRun struct {
	Text string
	Font Font
}

// Font describes run formatting. Size is in points.
type Font struct {
	Name      string
	Size      float64
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     Color
}

// fontFromStyle converts a canvas text style to a PPTX font.
func fontFromStyle(st TextStyle) Font {
	return Font{
		Name:      st.FontFamily,
		Size:      pixelToPoint(st.FontSize),
		Bold:      st.Bold,
		Italic:    st.Italic,
		Underline: st.Underline,
		Strike:    st.Strike,
		Color:     st.Color,
	}
}

// RectShape is a filled rectangle.
type RectShape struct {
	BaseShape
	fill Color
}
