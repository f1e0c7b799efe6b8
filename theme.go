package slideshow

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// LayoutKind names a layout variant a theme can expose.
type LayoutKind string

const (
	LayoutTitle    LayoutKind = "title"
	LayoutTOC      LayoutKind = "toc"
	LayoutEnd      LayoutKind = "end"
	LayoutMain     LayoutKind = "main"
	LayoutContent  LayoutKind = "content"
	LayoutImage    LayoutKind = "image"
	LayoutSection  LayoutKind = "section"
	LayoutColumns  LayoutKind = "columns"
	LayoutSplit    LayoutKind = "split"
	LayoutUnstyled LayoutKind = "unstyled"
)

// DefaultThemeName is used when a theme name is unknown.
const DefaultThemeName = "default"

// Placeholder text used when a layout expects content the slide lacks.
const (
	placeholderTitle    = "Sample Title"
	placeholderSubtitle = "Subtitle placeholder"
	placeholderEnd      = "Thank You!"
)

var folder = cases.Fold()

// foldName normalizes a theme name so "Classic Classroom",
// "classic-classroom" and "CLASSIC_CLASSROOM" match.
func foldName(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(s))
	return folder.String(strings.Join(strings.Fields(s), " "))
}

// ParseLayoutKind accepts both short names ("main") and component-style
// names ("MainSlide").
func ParseLayoutKind(s string) LayoutKind {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.TrimSuffix(k, "slide")
	k = strings.TrimSuffix(k, "_")
	k = strings.TrimSuffix(k, "-")
	return LayoutKind(k)
}

// LayoutInput is the slide content handed to a layout function.
type LayoutInput struct {
	Title      string
	Subtitle   string
	Image      string
	Author     string
	TOCHeading string
	TOCItems   []string
}

// LayoutFunc draws one layout variant in the style of a theme.
type LayoutFunc func(in LayoutInput, style ThemeStyle) *Tree

// ThemeStyle holds the colors and fonts of a theme.
type ThemeStyle struct {
	Background Color
	Accent     Color
	Title      TextStyle
	Paragraph  TextStyle
	Author     TextStyle
}

// Theme is a named family of layouts.
type Theme struct {
	Name    string
	Style   ThemeStyle
	Layouts map[LayoutKind]LayoutFunc
}

// Supports reports whether the theme exposes the layout kind.
func (t *Theme) Supports(kind LayoutKind) bool {
	_, ok := t.Layouts[kind]
	return ok
}

// Capabilities returns the layout kinds the theme exposes, sorted.
func (t *Theme) Capabilities() []LayoutKind {
	out := make([]LayoutKind, 0, len(t.Layouts))
	for k := range t.Layouts {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Selection is the outcome of the layout selection rules for one slide.
type Selection struct {
	Theme string
	Kind  LayoutKind
	Input LayoutInput
}

// Registry maps theme names to themes. Lookups are case-insensitive.
type Registry struct {
	mu     sync.RWMutex
	themes map[string]*Theme
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{themes: make(map[string]*Theme)}
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the shared registry of built-in themes.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, t := range builtinThemes() {
			defaultRegistry.Register(t)
		}
	})
	return defaultRegistry
}

// Register adds or replaces a theme.
func (r *Registry) Register(t *Theme) {
	key := foldName(t.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.themes[key]; !exists && key != DefaultThemeName {
		r.order = append(r.order, t.Name)
	}
	r.themes[key] = t
}

// Lookup returns the theme with the given name, falling back to the default
// theme. The boolean reports whether the name matched.
func (r *Registry) Lookup(name string) (*Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.themes[foldName(name)]; ok {
		return t, true
	}
	if t, ok := r.themes[DefaultThemeName]; ok {
		return t, false
	}
	return unstyledTheme, false
}

// Names returns theme names in catalog order, excluding the default theme.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Select applies the layout selection rules to a slide.
func (r *Registry) Select(index int, slide *Slide, themeName string) Selection {
	theme, _ := r.Lookup(themeName)
	sel := Selection{Theme: theme.Name}

	content := func() LayoutInput {
		in := LayoutInput{}
		if c, ok := slide.First(ComponentTitle); ok {
			in.Title = c.Content
		}
		if c, ok := slide.First(ComponentParagraph); ok {
			in.Subtitle = c.Content
		}
		if c, ok := slide.First(ComponentAuthor); ok {
			in.Author = c.Content
		}
		if c, ok := slide.FirstBackgroundImage(); ok {
			in.Image = c.Content
		}
		return in
	}

	if index == 0 && theme.Supports(LayoutTitle) {
		in := content()
		in.Image = ""
		if c, ok := slide.First(ComponentImage); ok {
			in.Image = c.Content
		}
		if in.Title == "" {
			in.Title = placeholderTitle
		}
		if in.Subtitle == "" {
			in.Subtitle = placeholderSubtitle
		}
		sel.Kind, sel.Input = LayoutTitle, in
		return sel
	}

	if toc, ok := slide.First(ComponentTOC); ok && theme.Supports(LayoutTOC) {
		in := LayoutInput{TOCHeading: toc.Content}
		for _, item := range slide.OfType(ComponentTOCItem) {
			in.TOCItems = append(in.TOCItems, item.Content)
		}
		sel.Kind, sel.Input = LayoutTOC, in
		return sel
	}

	if end, ok := slide.First(ComponentEnd); ok && theme.Supports(LayoutEnd) {
		in := content()
		in.Title = end.Content
		if in.Title == "" {
			in.Title = placeholderEnd
		}
		sel.Kind, sel.Input = LayoutEnd, in
		return sel
	}

	in := content()
	if slide.Layout != "" {
		if kind := ParseLayoutKind(slide.Layout); theme.Supports(kind) {
			sel.Kind, sel.Input = kind, in
			return sel
		}
	}

	switch {
	case in.Image != "" && theme.Supports(LayoutImage):
		sel.Kind = LayoutImage
	case theme.Supports(LayoutMain):
		sel.Kind = LayoutMain
	case theme.Supports(LayoutContent):
		sel.Kind = LayoutContent
	default:
		sel.Kind = LayoutUnstyled
	}
	sel.Input = in
	return sel
}

// Render selects a layout for the slide, draws it and paints every
// draggable component on top of it.
func (r *Registry) Render(index int, slide *Slide, themeName string) (*Tree, Selection) {
	sel := r.Select(index, slide, themeName)
	theme, _ := r.Lookup(sel.Theme)

	fn, ok := theme.Layouts[sel.Kind]
	if !ok {
		fn = unstyledLayout
	}
	tree := fn(sel.Input, theme.Style)
	if tree == nil {
		tree = &Tree{}
	}
	if tree.Background.IsZero() {
		tree.Background = theme.Style.Background
	}

	layoutBox := Rect{W: CanvasWidth, H: CanvasHeight}
	for _, c := range slide.Overlays() {
		tree.add(overlayElement(c, layoutBox, theme.Style))
	}
	return tree, sel
}

// overlayElement places a draggable component proportionally inside the
// layout box.
func overlayElement(c Component, box Rect, style ThemeStyle) Element {
	w, h := c.W, c.H
	if w <= 0 {
		w = 320
	}
	if h <= 0 {
		h = 180
	}
	e := Element{
		Box: Rect{
			X: box.X + c.X/CanvasWidth*box.W,
			Y: box.Y + c.Y/CanvasHeight*box.H,
			W: w / CanvasWidth * box.W,
			H: h / CanvasHeight * box.H,
		},
		Rotation:    c.Rotation,
		Overlay:     true,
		ComponentID: c.ID,
	}
	if c.Type == ComponentImage {
		e.Kind = ElementImage
		e.Source = c.Content
		e.Fit = FitContain
		return e
	}
	base := style.Paragraph
	if c.Type == ComponentTitle {
		base = style.Title
	}
	e.Kind = ElementText
	e.Text = c.Content
	e.Style = componentStyle(c, base)
	e.Spans = c.Spans
	e.Align = HorizontalLeft
	e.VAlign = VerticalTop
	return e
}

// ThemeInfo describes a theme for listings.
type ThemeInfo struct {
	Name         string       `json:"name"`
	Background   string       `json:"background"`
	TitleFont    string       `json:"titleFont"`
	Capabilities []LayoutKind `json:"capabilities"`
}

// Catalog lists every registered theme in catalog order.
func (r *Registry) Catalog() []ThemeInfo {
	var out []ThemeInfo
	for _, name := range r.Names() {
		t, _ := r.Lookup(name)
		out = append(out, ThemeInfo{
			Name:         t.Name,
			Background:   "#" + t.Style.Background.RGB(),
			TitleFont:    t.Style.Title.FontFamily,
			Capabilities: t.Capabilities(),
		})
	}
	return out
}
