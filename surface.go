package slideshow

import (
	"image"
	"sync"
)

// ElementKind identifies the primitive an element draws.
type ElementKind int

const (
	ElementRect ElementKind = iota
	ElementText
	ElementImage
)

func (k ElementKind) String() string {
	switch k {
	case ElementRect:
		return "rect"
	case ElementText:
		return "text"
	case ElementImage:
		return "image"
	}
	return "unknown"
}

// ImageFit controls how an image fills its box.
type ImageFit int

const (
	FitCover ImageFit = iota
	FitContain
	FitStretch
)

// Element is one paint operation on a surface. Boxes are in logical canvas
// pixels; Rotation is in degrees about the box centre.
type Element struct {
	Kind     ElementKind
	Box      Rect
	Rotation float64
	Fill     Color

	Text   string
	Style  TextStyle
	Spans  []Span
	Align  HorizontalAlignment
	VAlign VerticalAlignment

	// Source is the asset reference of an image element; Image holds the
	// decoded pixels once loaded. Hidden elements paint nothing.
	Source string
	Image  image.Image
	Fit    ImageFit
	Hidden bool

	// Overlay marks elements painted from draggable components.
	Overlay     bool
	ComponentID string
}

// Tree is the visual output of a theme layout.
type Tree struct {
	Background Color
	Elements   []Element
}

func (t *Tree) add(e Element) {
	t.Elements = append(t.Elements, e)
}

// Rect adds a filled rectangle.
func (t *Tree) Rect(box Rect, fill Color) {
	t.add(Element{Kind: ElementRect, Box: box, Fill: fill})
}

// Text adds a text block.
func (t *Tree) Text(box Rect, text string, style TextStyle, align HorizontalAlignment, valign VerticalAlignment) {
	if text == "" {
		return
	}
	t.add(Element{Kind: ElementText, Box: box, Text: text, Style: style, Align: align, VAlign: valign})
}

// Image adds an image reference resolved later by the materializer.
func (t *Tree) Image(box Rect, src string) {
	if src == "" {
		return
	}
	t.add(Element{Kind: ElementImage, Box: box, Source: src})
}

// Surface is a fully laid-out, fixed-size slide ready to be rasterized.
type Surface struct {
	Width      int
	Height     int
	Background Color
	Selection  Selection
	Elements   []Element

	once    sync.Once
	release func()
}

// Cleanup releases the decoded assets held by the surface. It is safe to
// call more than once.
func (s *Surface) Cleanup() {
	s.once.Do(func() {
		for i := range s.Elements {
			s.Elements[i].Image = nil
		}
		if s.release != nil {
			s.release()
		}
	})
}

// HiddenCount returns the number of elements hidden because their asset
// failed to load.
func (s *Surface) HiddenCount() int {
	n := 0
	for _, e := range s.Elements {
		if e.Hidden {
			n++
		}
	}
	return n
}
