package slideshow

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNewPresentationStartsWithOneSlide(t *testing.T) {
	p := NewPresentation()
	if p.Len() != 1 || p.ActiveIndex() != 0 {
		t.Fatalf("expected one active blank slide, got len=%d active=%d", p.Len(), p.ActiveIndex())
	}
}

func TestDeleteLastSlideFails(t *testing.T) {
	p := NewPresentation()
	before := p.Slides()[0].ID
	if err := p.DeleteSlide(0); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
	if p.Len() != 1 || p.Slides()[0].ID != before {
		t.Error("failed delete changed the presentation")
	}
}

func TestDeleteSlideAdjustsActiveIndex(t *testing.T) {
	tests := []struct {
		name          string
		active, index int
		want          int
	}{
		{"before active", 2, 0, 1},
		{"at active", 2, 2, 1},
		{"at first", 0, 0, 0},
		{"after active", 1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPresentation(NewSlide(), NewSlide(), NewSlide(), NewSlide())
			p.SetActiveIndex(tt.active)
			if err := p.DeleteSlide(tt.index); err != nil {
				t.Fatalf("DeleteSlide: %v", err)
			}
			if p.ActiveIndex() != tt.want {
				t.Errorf("active = %d, want %d", p.ActiveIndex(), tt.want)
			}
		})
	}
}

func TestMoveSlide(t *testing.T) {
	a, b, c := titleSlide("a"), titleSlide("b"), titleSlide("c")
	p := NewPresentation(a, b, c)
	p.SetActiveIndex(0)
	if err := p.MoveSlide(0, 2); err != nil {
		t.Fatalf("MoveSlide: %v", err)
	}
	got := p.Slides()
	if got[0].ID != b.ID || got[1].ID != c.ID || got[2].ID != a.ID {
		t.Errorf("unexpected order %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if p.ActiveIndex() != 2 {
		t.Errorf("active did not follow the moved slide: %d", p.ActiveIndex())
	}
	if err := p.MoveSlide(0, 5); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestDuplicateSlide(t *testing.T) {
	p := NewPresentation(titleSlide("a"), titleSlide("b"))
	p.SetActiveIndex(1)
	dup, err := p.DuplicateSlide(0)
	if err != nil {
		t.Fatalf("DuplicateSlide: %v", err)
	}
	got := p.Slides()
	if len(got) != 3 || got[1].ID != dup.ID || dup.ID == got[0].ID {
		t.Fatalf("duplicate not inserted after its source")
	}
	if got[1].Components[0].Content != "a" {
		t.Errorf("duplicate content = %q", got[1].Components[0].Content)
	}
	if p.ActiveIndex() != 2 {
		t.Errorf("active = %d, want 2", p.ActiveIndex())
	}
}

func TestSlidesAreDeepCopies(t *testing.T) {
	p := NewPresentation(titleSlide("original"))
	s := p.Slides()[0]
	s.Components[0].Content = "changed"
	if p.Slides()[0].Components[0].Content != "original" {
		t.Error("mutating a returned slide changed the presentation")
	}
}

func TestAddComponentDefaults(t *testing.T) {
	p := NewPresentation()
	p.SetRand(rand.New(rand.NewPCG(1, 2)))
	c, err := p.AddComponent(ComponentTitle)
	if err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if c.FontSize != 24 || !c.Bold() || c.Color != "#222" || !c.IsDraggable {
		t.Errorf("unexpected title defaults %+v", c)
	}
	img, _ := p.AddComponent(ComponentImage)
	if img.W != 320 || img.H != 180 {
		t.Errorf("image size = %vx%v", img.W, img.H)
	}
	if _, err := p.AddComponent("chart"); !errors.Is(err, ErrUnknownComponentType) {
		t.Errorf("expected ErrUnknownComponentType, got %v", err)
	}
	if n := len(p.ActiveSlide().Components); n != 2 {
		t.Errorf("active slide has %d components", n)
	}
}

func TestComponentFunctionsDoNotMutateInput(t *testing.T) {
	s := titleSlide("keep")
	s.Components[0].X = 10

	moved, err := MoveComponentBy(s, "title", 5, -5)
	if err != nil {
		t.Fatalf("MoveComponentBy: %v", err)
	}
	content := "new"
	updated, _ := UpdateComponent(s, "title", Patch{Content: &content})
	removed, _ := RemoveComponent(s, "title")

	if s.Components[0].X != 10 || s.Components[0].Content != "keep" || len(s.Components) != 1 {
		t.Fatal("input slide was mutated")
	}
	if moved.Components[0].X != 15 || moved.Components[0].Y != -5 {
		t.Errorf("moved to (%v,%v)", moved.Components[0].X, moved.Components[0].Y)
	}
	if updated.Components[0].Content != "new" {
		t.Errorf("update not applied")
	}
	if len(removed.Components) != 0 {
		t.Errorf("remove not applied")
	}
	if _, err := RemoveComponent(s, "missing"); !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("expected ErrComponentNotFound, got %v", err)
	}
}

func TestParseComponentType(t *testing.T) {
	if ct, err := ParseComponentType(" TOC_ITEM "); err != nil || ct != ComponentTOCItem {
		t.Errorf("ParseComponentType = %q, %v", ct, err)
	}
	if _, err := ParseComponentType("video"); !errors.Is(err, ErrUnknownComponentType) {
		t.Errorf("expected ErrUnknownComponentType, got %v", err)
	}
}

// op codes for random operation sequences.
const (
	opAdd = iota
	opDelete
	opMove
	opDuplicate
	opSelect
	opAddComponent
)

func genOps() gopter.Gen {
	return gen.SliceOfN(40, gopter.CombineGens(
		gen.IntRange(opAdd, opAddComponent),
		gen.IntRange(0, 9),
		gen.IntRange(0, 9),
	))
}

func TestPropertyPresentationInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("slides never empty and active index always in range", prop.ForAll(
		func(ops [][]interface{}) bool {
			p := NewPresentation()
			for _, v := range ops {
				a, b := v[1].(int), v[2].(int)
				switch v[0].(int) {
				case opAdd:
					p.AddSlide()
				case opDelete:
					p.DeleteSlide(a)
				case opMove:
					p.MoveSlide(a, b)
				case opDuplicate:
					p.DuplicateSlide(a)
				case opSelect:
					p.SetActiveIndex(a)
				case opAddComponent:
					p.AddComponent(ComponentText)
				}
				if p.Len() < 1 || p.ActiveIndex() < 0 || p.ActiveIndex() >= p.Len() {
					return false
				}
			}
			return p.Validate() == nil
		},
		genOps(),
	))

	properties.Property("move keeps the set of slides", prop.ForAll(
		func(n, from, to int) bool {
			var slides []*Slide
			for i := 0; i < n; i++ {
				slides = append(slides, NewSlide())
			}
			p := NewPresentation(slides...)
			before := map[string]bool{}
			for _, s := range p.Slides() {
				before[s.ID] = true
			}
			p.MoveSlide(from%n, to%n)
			after := p.Slides()
			if len(after) != n {
				return false
			}
			for _, s := range after {
				if !before[s.ID] {
					return false
				}
			}
			return after[to%n].ID == slides[from%n].ID
		},
		gen.IntRange(1, 12), gen.IntRange(0, 50), gen.IntRange(0, 50),
	))

	properties.Property("duplicate then delete restores the slide list", prop.ForAll(
		func(n, i int) bool {
			var slides []*Slide
			for k := 0; k < n; k++ {
				slides = append(slides, titleSlide(fmt.Sprint("slide ", k)))
			}
			p := NewPresentation(slides...)
			i %= n
			if _, err := p.DuplicateSlide(i); err != nil {
				return false
			}
			if err := p.DeleteSlide(i + 1); err != nil {
				return false
			}
			got := p.Slides()
			if len(got) != n {
				return false
			}
			for k := range got {
				if got[k].ID != slides[k].ID || got[k].Components[0].Content != slides[k].Components[0].Content {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 10), gen.IntRange(0, 100),
	))

	properties.Property("added components stay inside the canvas", prop.ForAll(
		func(seed uint64, image bool) bool {
			p := NewPresentation()
			p.SetRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
			ct := ComponentParagraph
			if image {
				ct = ComponentImage
			}
			c, err := p.AddComponent(ct)
			if err != nil {
				return false
			}
			return c.X >= 0 && c.Y >= 0 && c.X+c.W <= CanvasWidth && c.Y+c.H <= CanvasHeight
		},
		gen.UInt64(), gen.Bool(),
	))

	properties.TestingRun(t)
}
