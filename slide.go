package slideshow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ComponentType identifies what a component holds.
type ComponentType string

const (
	ComponentTitle     ComponentType = "title"
	ComponentParagraph ComponentType = "paragraph"
	ComponentAuthor    ComponentType = "author"
	ComponentImage     ComponentType = "image"
	ComponentText      ComponentType = "text"
	ComponentTOC       ComponentType = "toc"
	ComponentTOCItem   ComponentType = "toc_item"
	ComponentEnd       ComponentType = "end"
)

var componentTypes = []ComponentType{
	ComponentTitle, ComponentParagraph, ComponentAuthor, ComponentImage,
	ComponentText, ComponentTOC, ComponentTOCItem, ComponentEnd,
}

// ParseComponentType converts a string into a ComponentType.
func ParseComponentType(s string) (ComponentType, error) {
	t := ComponentType(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownComponentType, s)
}

// Valid reports whether t is one of the known component types.
func (t ComponentType) Valid() bool {
	for _, ct := range componentTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// IsText reports whether the component carries text content.
func (t ComponentType) IsText() bool {
	return t != ComponentImage && t != ""
}

// Component is a single element on a slide. Positioning fields are only
// meaningful for draggable components and are expressed in the 1920x1080
// logical canvas.
type Component struct {
	ID             string        `json:"id"`
	Type           ComponentType `json:"type"`
	Content        string        `json:"content"`
	X              float64       `json:"x,omitempty"`
	Y              float64       `json:"y,omitempty"`
	W              float64       `json:"w,omitempty"`
	H              float64       `json:"h,omitempty"`
	Rotation       float64       `json:"rotation,omitempty"`
	FontFamily     string        `json:"fontFamily,omitempty"`
	FontSize       float64       `json:"fontSize,omitempty"`
	FontWeight     string        `json:"fontWeight,omitempty"`
	FontStyle      string        `json:"fontStyle,omitempty"`
	TextDecoration string        `json:"textDecoration,omitempty"`
	Color          string        `json:"color,omitempty"`
	IsDraggable    bool          `json:"isDraggable,omitempty"`
	Spans          []Span        `json:"spans,omitempty"`
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	if c.Spans != nil {
		c.Spans = append([]Span(nil), c.Spans...)
	}
	return c
}

// Bold reports whether the component's weight renders as bold.
func (c Component) Bold() bool {
	switch strings.ToLower(c.FontWeight) {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

// Italic reports whether the component uses an italic style.
func (c Component) Italic() bool {
	return strings.EqualFold(c.FontStyle, "italic") || strings.EqualFold(c.FontStyle, "oblique")
}

// Underline reports whether the text decoration includes an underline.
func (c Component) Underline() bool {
	return strings.Contains(strings.ToLower(c.TextDecoration), "underline")
}

// Strikethrough reports whether the text decoration includes a line-through.
func (c Component) Strikethrough() bool {
	return strings.Contains(strings.ToLower(c.TextDecoration), "line-through")
}

// RichText returns the component content with its formatting spans.
func (c Component) RichText() *RichText {
	rt := NewRichText(c.Content)
	if len(c.Spans) > 0 {
		rt.Spans = append([]Span(nil), c.Spans...)
		rt.normalize()
	}
	return rt
}

// Slide is one page of a presentation.
type Slide struct {
	ID         string      `json:"id"`
	Layout     string      `json:"layout,omitempty"`
	Components []Component `json:"components"`
}

// NewSlide creates an empty slide with a fresh id.
func NewSlide() *Slide {
	return &Slide{ID: uuid.NewString(), Components: []Component{}}
}

// Clone returns a deep copy of the slide. The copy shares no component
// storage with the original.
func (s *Slide) Clone() *Slide {
	if s == nil {
		return nil
	}
	out := &Slide{ID: s.ID, Layout: s.Layout, Components: make([]Component, len(s.Components))}
	for i, c := range s.Components {
		out.Components[i] = c.Clone()
	}
	return out
}

// Component returns the component with the given id.
func (s *Slide) Component(id string) (Component, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Components[i], true
	}
	return Component{}, false
}

// First returns the first component of the given type.
func (s *Slide) First(t ComponentType) (Component, bool) {
	for _, c := range s.Components {
		if c.Type == t {
			return c, true
		}
	}
	return Component{}, false
}

// FirstBackgroundImage returns the first non-draggable image component.
func (s *Slide) FirstBackgroundImage() (Component, bool) {
	for _, c := range s.Components {
		if c.Type == ComponentImage && !c.IsDraggable {
			return c, true
		}
	}
	return Component{}, false
}

// OfType returns every component of the given type in insertion order.
func (s *Slide) OfType(t ComponentType) []Component {
	var out []Component
	for _, c := range s.Components {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Overlays returns the draggable components in paint order.
func (s *Slide) Overlays() []Component {
	var out []Component
	for _, c := range s.Components {
		if c.IsDraggable {
			out = append(out, c)
		}
	}
	return out
}

func (s *Slide) indexOf(id string) int {
	for i, c := range s.Components {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Patch is a partial update of a component. Nil fields are left untouched.
type Patch struct {
	Type           *ComponentType `json:"type,omitempty"`
	Content        *string        `json:"content,omitempty"`
	X              *float64       `json:"x,omitempty"`
	Y              *float64       `json:"y,omitempty"`
	W              *float64       `json:"w,omitempty"`
	H              *float64       `json:"h,omitempty"`
	Rotation       *float64       `json:"rotation,omitempty"`
	FontFamily     *string        `json:"fontFamily,omitempty"`
	FontSize       *float64       `json:"fontSize,omitempty"`
	FontWeight     *string        `json:"fontWeight,omitempty"`
	FontStyle      *string        `json:"fontStyle,omitempty"`
	TextDecoration *string        `json:"textDecoration,omitempty"`
	Color          *string        `json:"color,omitempty"`
	IsDraggable    *bool          `json:"isDraggable,omitempty"`
	Spans          *[]Span        `json:"spans,omitempty"`
}

func (p Patch) apply(c Component) (Component, error) {
	if p.Type != nil {
		if !p.Type.Valid() {
			return c, fmt.Errorf("%w: %q", ErrUnknownComponentType, *p.Type)
		}
		c.Type = *p.Type
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.X != nil {
		c.X = *p.X
	}
	if p.Y != nil {
		c.Y = *p.Y
	}
	if p.W != nil {
		c.W = *p.W
	}
	if p.H != nil {
		c.H = *p.H
	}
	if p.Rotation != nil {
		c.Rotation = *p.Rotation
	}
	if p.FontFamily != nil {
		c.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		c.FontSize = *p.FontSize
	}
	if p.FontWeight != nil {
		c.FontWeight = *p.FontWeight
	}
	if p.FontStyle != nil {
		c.FontStyle = *p.FontStyle
	}
	if p.TextDecoration != nil {
		c.TextDecoration = *p.TextDecoration
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.IsDraggable != nil {
		c.IsDraggable = *p.IsDraggable
	}
	if p.Spans != nil {
		c.Spans = append([]Span(nil), (*p.Spans)...)
	}
	return c, nil
}

// RemoveComponent returns a copy of s without the component id.
func RemoveComponent(s *Slide, id string) (*Slide, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	out := s.Clone()
	out.Components = append(out.Components[:i], out.Components[i+1:]...)
	return out, nil
}

// UpdateComponent returns a copy of s with patch applied to the component id.
func UpdateComponent(s *Slide, id string, patch Patch) (*Slide, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	out := s.Clone()
	c, err := patch.apply(out.Components[i])
	if err != nil {
		return nil, err
	}
	out.Components[i] = c
	return out, nil
}

// MoveComponentBy returns a copy of s with the component id translated by
// (dx, dy) logical pixels.
func MoveComponentBy(s *Slide, id string, dx, dy float64) (*Slide, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	out := s.Clone()
	out.Components[i].X += dx
	out.Components[i].Y += dy
	return out, nil
}

// DefaultComponent returns a component of type t with type-appropriate
// styling and size. Position is left at the origin.
func DefaultComponent(t ComponentType) Component {
	c := Component{
		ID:          uuid.NewString(),
		Type:        t,
		IsDraggable: true,
	}
	switch t {
	case ComponentImage:
		c.W, c.H = 320, 180
		return c
	case ComponentTitle:
		c.Content = "New Title"
		c.FontSize = 24
		c.FontWeight = "bold"
		c.Color = "#222"
	default:
		c.Content = "New Text"
		c.FontSize = 16
		c.FontWeight = "normal"
		c.Color = "#444"
	}
	c.W, c.H = 400, 60
	c.FontFamily = "Arial"
	c.FontStyle = "normal"
	c.TextDecoration = "none"
	return c
}
