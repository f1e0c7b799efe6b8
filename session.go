package slideshow

import (
	"context"
	"fmt"
	"sync"
)

// DefaultUndoLimit bounds the undo and redo stacks of a Session.
const DefaultUndoLimit = 50

// snapshot is a deep copy of an editing state.
type snapshot struct {
	slides []*Slide
	active int
}

// Session is an editing session over a presentation. Every mutation takes an
// undo snapshot first. It is safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	pres  *Presentation
	undo  []snapshot
	redo  []snapshot
	limit int
}

// NewSession starts a session on p. A nil p starts on a blank presentation.
func NewSession(p *Presentation) *Session {
	if p == nil {
		p = NewPresentation()
	}
	return &Session{pres: p, limit: DefaultUndoLimit}
}

// SetUndoLimit changes the number of kept snapshots; n <= 0 restores the
// default.
func (s *Session) SetUndoLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		n = DefaultUndoLimit
	}
	s.limit = n
	s.undo = trimStack(s.undo, n)
	s.redo = trimStack(s.redo, n)
}

func trimStack(st []snapshot, n int) []snapshot {
	if len(st) > n {
		return append([]snapshot(nil), st[len(st)-n:]...)
	}
	return st
}

func (s *Session) capture() snapshot {
	return snapshot{slides: s.pres.Slides(), active: s.pres.activeIndex}
}

func (s *Session) restore(sn snapshot) {
	s.pres.slides = sn.slides
	s.pres.activeIndex = sn.active
}

// mutate runs fn under the lock. The pre-change state is pushed on the undo
// stack only when fn succeeds; redo history is dropped.
func (s *Session) mutate(fn func(p *Presentation) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.capture()
	if err := fn(s.pres); err != nil {
		s.restore(before)
		return err
	}
	s.undo = trimStack(append(s.undo, before), s.limit)
	s.redo = nil
	return nil
}

// Presentation returns a deep copy of the edited presentation.
func (s *Session) Presentation() *Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := NewPresentation(s.pres.slides...)
	p.Title, p.Author, p.Company, p.Theme = s.pres.Title, s.pres.Author, s.pres.Company, s.pres.Theme
	p.activeIndex = s.pres.activeIndex
	return p
}

// Slides returns snapshots of every slide.
func (s *Session) Slides() []*Slide {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pres.Slides()
}

// ActiveIndex returns the active slide index.
func (s *Session) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pres.activeIndex
}

// SetActiveIndex selects a slide. Selection is not recorded for undo.
func (s *Session) SetActiveIndex(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pres.SetActiveIndex(index)
}

// AddSlide appends a blank slide.
func (s *Session) AddSlide() (*Slide, error) {
	var added *Slide
	err := s.mutate(func(p *Presentation) error {
		added = p.AddSlide()
		return nil
	})
	return added, err
}

// DuplicateSlide copies the slide at index right after it.
func (s *Session) DuplicateSlide(index int) (*Slide, error) {
	var dup *Slide
	err := s.mutate(func(p *Presentation) error {
		var err error
		dup, err = p.DuplicateSlide(index)
		return err
	})
	return dup, err
}

// DeleteSlide removes the slide at index.
func (s *Session) DeleteSlide(index int) error {
	return s.mutate(func(p *Presentation) error { return p.DeleteSlide(index) })
}

// MoveSlide moves the slide at from to position to.
func (s *Session) MoveSlide(from, to int) error {
	return s.mutate(func(p *Presentation) error { return p.MoveSlide(from, to) })
}

// AddComponent adds a default component of type t to the active slide.
func (s *Session) AddComponent(t ComponentType) (Component, error) {
	var c Component
	err := s.mutate(func(p *Presentation) error {
		var err error
		c, err = p.AddComponent(t)
		return err
	})
	return c, err
}

// UpdateComponent patches a component of the active slide.
func (s *Session) UpdateComponent(id string, patch Patch) error {
	return s.mutate(func(p *Presentation) error {
		return p.ApplyToActive(func(sl *Slide) (*Slide, error) { return UpdateComponent(sl, id, patch) })
	})
}

// RemoveComponent deletes a component of the active slide.
func (s *Session) RemoveComponent(id string) error {
	return s.mutate(func(p *Presentation) error {
		return p.ApplyToActive(func(sl *Slide) (*Slide, error) { return RemoveComponent(sl, id) })
	})
}

// MoveComponentBy offsets a component of the active slide.
func (s *Session) MoveComponentBy(id string, dx, dy float64) error {
	return s.mutate(func(p *Presentation) error {
		return p.ApplyToActive(func(sl *Slide) (*Slide, error) { return MoveComponentBy(sl, id, dx, dy) })
	})
}

// CanUndo reports whether Undo has a state to return to.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo reports whether Redo has a state to re-apply.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// Undo reverts the last mutation. It reports false when there is nothing to
// undo.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		return false
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = trimStack(append(s.redo, s.capture()), s.limit)
	s.restore(prev)
	return true
}

// Redo re-applies the last undone mutation.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redo) == 0 {
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = trimStack(append(s.undo, s.capture()), s.limit)
	s.restore(next)
	return true
}

// ExportPNG exports the active slide. The session state is not changed.
func (s *Session) ExportPNG(ctx context.Context, e *Exporter, filename string) Result {
	s.mu.Lock()
	slide, index := s.pres.ActiveSlide(), s.pres.activeIndex
	s.mu.Unlock()
	return e.ExportPNG(ctx, slide, index, filename)
}

// Export exports snapshots of the slides in one of the ExportType formats.
// PNG exports the active slide only.
func (s *Session) Export(ctx context.Context, e *Exporter, format, filename string) Result {
	s.mu.Lock()
	slides := s.pres.Slides()
	meta := s.pres.Metadata()
	index := s.pres.activeIndex
	s.mu.Unlock()

	switch format {
	case ExportTypePDF:
		return e.ExportPDF(ctx, slides, filename)
	case ExportTypePPTX:
		return e.ExportPPTX(ctx, slides, meta, filename)
	case ExportTypeEditablePPTX:
		return e.ExportEditablePPTX(ctx, slides, meta, filename)
	case ExportTypePNG:
		return e.ExportPNG(ctx, slides[index], index, filename)
	}
	return Result{ExportType: format, Message: fmt.Sprintf("unsupported export format %q", format)}
}
