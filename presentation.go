// Package slideshow implements a themed slideshow model together with an
// off-screen rendering pipeline that exports slides as PNG, PDF and PPTX.
//
// Slides are edited through a Presentation (or a Session, which adds
// undo/redo), turned into fixed 1920x1080 surfaces by a Materializer,
// rasterized by a Rasterizer and assembled into artifacts by an Exporter.
package slideshow

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

var (
	// ErrInvariantViolation is returned when an operation would break a
	// presentation invariant, such as deleting the last slide.
	ErrInvariantViolation = errors.New("invariant violation")
	ErrOutOfRange         = errors.New("slide index out of range")
	ErrComponentNotFound  = errors.New("component not found")
	// ErrUnknownComponentType is returned for component types outside the
	// supported set.
	ErrUnknownComponentType = errors.New("unknown component type")
	ErrCancelled            = errors.New("export cancelled")
)

// Presentation is an ordered list of slides with an active slide index.
type Presentation struct {
	Title   string
	Author  string
	Company string
	Theme   string

	slides      []*Slide
	activeIndex int
	rnd         *rand.Rand
}

// NewPresentation creates a presentation holding deep copies of slides.
// Without slides it starts with one blank slide.
func NewPresentation(slides ...*Slide) *Presentation {
	p := &Presentation{
		slides: make([]*Slide, 0, len(slides)),
		rnd:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, s := range slides {
		if s == nil {
			continue
		}
		c := s.Clone()
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		p.slides = append(p.slides, c)
	}
	if len(p.slides) == 0 {
		p.slides = append(p.slides, NewSlide())
	}
	return p
}

// SetRand replaces the random source used to place new components.
func (p *Presentation) SetRand(r *rand.Rand) {
	p.rnd = r
}

// Len returns the number of slides.
func (p *Presentation) Len() int {
	return len(p.slides)
}

// Slide returns a deep copy of the slide at index.
func (p *Presentation) Slide(index int) (*Slide, error) {
	if index < 0 || index >= len(p.slides) {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	return p.slides[index].Clone(), nil
}

// Slides returns deep copies of all slides in order.
func (p *Presentation) Slides() []*Slide {
	out := make([]*Slide, len(p.slides))
	for i, s := range p.slides {
		out[i] = s.Clone()
	}
	return out
}

// ActiveIndex returns the active slide index.
func (p *Presentation) ActiveIndex() int {
	return p.activeIndex
}

// SetActiveIndex makes the slide at index active.
func (p *Presentation) SetActiveIndex(index int) error {
	if index < 0 || index >= len(p.slides) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	p.activeIndex = index
	return nil
}

// ActiveSlide returns a deep copy of the active slide.
func (p *Presentation) ActiveSlide() *Slide {
	return p.slides[p.activeIndex].Clone()
}

// ReplaceSlide stores a copy of s at index.
func (p *Presentation) ReplaceSlide(index int, s *Slide) error {
	if index < 0 || index >= len(p.slides) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	if s == nil {
		return fmt.Errorf("%w: nil slide", ErrInvariantViolation)
	}
	p.slides[index] = s.Clone()
	return nil
}

// AddSlide appends an empty slide. The active index is unchanged.
func (p *Presentation) AddSlide() *Slide {
	s := NewSlide()
	p.slides = append(p.slides, s)
	return s.Clone()
}

// DuplicateSlide inserts a deep copy of the slide at index right after it.
// The copy gets a fresh slide id; component ids are kept.
func (p *Presentation) DuplicateSlide(index int) (*Slide, error) {
	if index < 0 || index >= len(p.slides) {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	dup := p.slides[index].Clone()
	dup.ID = uuid.NewString()

	p.slides = append(p.slides, nil)
	copy(p.slides[index+2:], p.slides[index+1:])
	p.slides[index+1] = dup
	if p.activeIndex > index {
		p.activeIndex++
	}
	return dup.Clone(), nil
}

// DeleteSlide removes the slide at index. A presentation always keeps at
// least one slide; deleting the last one fails with ErrInvariantViolation
// and leaves the presentation untouched.
func (p *Presentation) DeleteSlide(index int) error {
	if len(p.slides) <= 1 {
		return fmt.Errorf("%w: cannot delete the last slide", ErrInvariantViolation)
	}
	if index < 0 || index >= len(p.slides) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	p.slides = append(p.slides[:index], p.slides[index+1:]...)
	if index < p.activeIndex || (index == p.activeIndex && p.activeIndex > 0) {
		p.activeIndex--
	}
	if p.activeIndex >= len(p.slides) {
		p.activeIndex = len(p.slides) - 1
	}
	return nil
}

// MoveSlide relocates the slide at from to position to, keeping the
// relative order of every other slide. The active slide follows its slide.
func (p *Presentation) MoveSlide(from, to int) error {
	if from < 0 || from >= len(p.slides) {
		return fmt.Errorf("%w: from %d", ErrOutOfRange, from)
	}
	if to < 0 || to >= len(p.slides) {
		return fmt.Errorf("%w: to %d", ErrOutOfRange, to)
	}
	if from == to {
		return nil
	}
	active := p.slides[p.activeIndex]
	slide := p.slides[from]
	p.slides = append(p.slides[:from], p.slides[from+1:]...)
	p.slides = append(p.slides, nil)
	copy(p.slides[to+1:], p.slides[to:])
	p.slides[to] = slide
	for i, s := range p.slides {
		if s == active {
			p.activeIndex = i
			break
		}
	}
	return nil
}

// AddComponent appends a default component of type t to the active slide at
// a random position that keeps the whole box inside the canvas.
func (p *Presentation) AddComponent(t ComponentType) (Component, error) {
	if !t.Valid() {
		return Component{}, fmt.Errorf("%w: %q", ErrUnknownComponentType, t)
	}
	c := DefaultComponent(t)
	c.X = float64(p.rnd.IntN(int(CanvasWidth-c.W) + 1))
	c.Y = float64(p.rnd.IntN(int(CanvasHeight-c.H) + 1))

	s := p.slides[p.activeIndex].Clone()
	s.Components = append(s.Components, c)
	p.slides[p.activeIndex] = s
	return c, nil
}

// ApplyToActive replaces the active slide with the result of fn. fn receives
// a copy and its error aborts the change.
func (p *Presentation) ApplyToActive(fn func(*Slide) (*Slide, error)) error {
	next, err := fn(p.slides[p.activeIndex].Clone())
	if err != nil {
		return err
	}
	p.slides[p.activeIndex] = next.Clone()
	return nil
}
