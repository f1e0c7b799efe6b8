package slideshow

import "sort"

// TextAttrs are formatting attributes of a run of text. Zero values inherit
// the component style.
type TextAttrs struct {
	Bold       bool    `json:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Underline  bool    `json:"underline,omitempty"`
	Strike     bool    `json:"strike,omitempty"`
	Color      string  `json:"color,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
}

// AttrPatch changes selected attributes of a range. Nil fields are kept.
type AttrPatch struct {
	Bold       *bool
	Italic     *bool
	Underline  *bool
	Strike     *bool
	Color      *string
	FontSize   *float64
	FontFamily *string
}

func (p AttrPatch) apply(a TextAttrs) TextAttrs {
	if p.Bold != nil {
		a.Bold = *p.Bold
	}
	if p.Italic != nil {
		a.Italic = *p.Italic
	}
	if p.Underline != nil {
		a.Underline = *p.Underline
	}
	if p.Strike != nil {
		a.Strike = *p.Strike
	}
	if p.Color != nil {
		a.Color = *p.Color
	}
	if p.FontSize != nil {
		a.FontSize = *p.FontSize
	}
	if p.FontFamily != nil {
		a.FontFamily = *p.FontFamily
	}
	return a
}

// Span is a formatted run covering rune offsets [Start, End).
type Span struct {
	Start int       `json:"start"`
	End   int       `json:"end"`
	Attrs TextAttrs `json:"attrs"`
}

// Run is a piece of text with its attributes, ready for drawing.
type Run struct {
	Text  string
	Attrs TextAttrs
}

// RichText is text plus ordered, non-overlapping spans that cover every
// rune exactly once.
type RichText struct {
	Text  string
	Spans []Span
}

// NewRichText returns unformatted rich text.
func NewRichText(text string) *RichText {
	rt := &RichText{Text: text}
	if n := len([]rune(text)); n > 0 {
		rt.Spans = []Span{{Start: 0, End: n}}
	}
	return rt
}

// Len returns the length in runes.
func (rt *RichText) Len() int {
	return len([]rune(rt.Text))
}

func (rt *RichText) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if n := rt.Len(); off > n {
		return n
	}
	return off
}

// normalize repairs arbitrary span input: clamps offsets, sorts, trims
// overlaps, fills gaps with unformatted runs and merges.
func (rt *RichText) normalize() {
	n := rt.Len()
	var spans []Span
	for _, s := range rt.Spans {
		s.Start, s.End = rt.clamp(s.Start), rt.clamp(s.End)
		if s.End > s.Start {
			spans = append(spans, s)
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	var out []Span
	pos := 0
	for _, s := range spans {
		if s.End <= pos {
			continue
		}
		if s.Start > pos {
			out = append(out, Span{Start: pos, End: s.Start})
		}
		if s.Start < pos {
			s.Start = pos
		}
		out = append(out, s)
		pos = s.End
	}
	if pos < n {
		out = append(out, Span{Start: pos, End: n})
	}
	rt.Spans = out
	rt.Merge()
}

// SplitAt splits the span containing off so that a span boundary exists
// there. It returns the index of the span starting at off, or len(Spans)
// when off is the end of the text.
func (rt *RichText) SplitAt(off int) int {
	off = rt.clamp(off)
	for i, s := range rt.Spans {
		if s.Start == off {
			return i
		}
		if s.Start < off && off < s.End {
			left := Span{Start: s.Start, End: off, Attrs: s.Attrs}
			right := Span{Start: off, End: s.End, Attrs: s.Attrs}
			rt.Spans = append(rt.Spans[:i], append([]Span{left, right}, rt.Spans[i+1:]...)...)
			return i + 1
		}
	}
	return len(rt.Spans)
}

// Apply patches the attributes of the runes in [start, end).
func (rt *RichText) Apply(start, end int, patch AttrPatch) {
	start, end = rt.clamp(start), rt.clamp(end)
	if start >= end {
		return
	}
	first := rt.SplitAt(start)
	last := rt.SplitAt(end)
	for i := first; i < last; i++ {
		rt.Spans[i].Attrs = patch.apply(rt.Spans[i].Attrs)
	}
	rt.Merge()
}

// Merge joins adjacent spans with identical attributes and drops empty ones.
func (rt *RichText) Merge() {
	var out []Span
	for _, s := range rt.Spans {
		if s.End <= s.Start {
			continue
		}
		if k := len(out) - 1; k >= 0 && out[k].End == s.Start && out[k].Attrs == s.Attrs {
			out[k].End = s.End
			continue
		}
		out = append(out, s)
	}
	rt.Spans = out
}

// Insert adds text at off. The inserted runes take the attributes of the
// run that ends at or contains off.
func (rt *RichText) Insert(off int, text string) {
	ins := []rune(text)
	if len(ins) == 0 {
		return
	}
	off = rt.clamp(off)
	runes := []rune(rt.Text)
	rt.Text = string(append(runes[:off:off], append(ins, runes[off:]...)...))

	if len(rt.Spans) == 0 {
		rt.Spans = []Span{{Start: 0, End: len(ins)}}
		return
	}
	grown := false
	for i := range rt.Spans {
		s := &rt.Spans[i]
		switch {
		case !grown && ((s.Start < off && off <= s.End) || (off == 0 && s.Start == 0)):
			s.End += len(ins)
			grown = true
		case s.Start >= off && grown:
			s.Start += len(ins)
			s.End += len(ins)
		}
	}
}

// Delete removes the runes in [start, end).
func (rt *RichText) Delete(start, end int) {
	start, end = rt.clamp(start), rt.clamp(end)
	if start >= end {
		return
	}
	runes := []rune(rt.Text)
	rt.Text = string(append(runes[:start:start], runes[end:]...))
	width := end - start

	shift := func(p int) int {
		switch {
		case p <= start:
			return p
		case p >= end:
			return p - width
		default:
			return start
		}
	}
	for i := range rt.Spans {
		rt.Spans[i].Start = shift(rt.Spans[i].Start)
		rt.Spans[i].End = shift(rt.Spans[i].End)
	}
	rt.Merge()
}

// Runs returns the text split into formatted runs.
func (rt *RichText) Runs() []Run {
	runes := []rune(rt.Text)
	out := make([]Run, 0, len(rt.Spans))
	for _, s := range rt.Spans {
		out = append(out, Run{Text: string(runes[s.Start:s.End]), Attrs: s.Attrs})
	}
	return out
}
