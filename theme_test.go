package slideshow

import (
	"strings"
	"testing"
)

func slideWith(cs ...Component) *Slide {
	s := NewSlide()
	s.Components = append(s.Components, cs...)
	return s
}

func TestSelect(t *testing.T) {
	reg := DefaultRegistry()
	title := Component{ID: "t", Type: ComponentTitle, Content: "Heading"}
	bg := Component{ID: "i", Type: ComponentImage, Content: "bg.png"}

	tests := []struct {
		name  string
		theme string
		index int
		slide *Slide
		want  LayoutKind
	}{
		{"first slide is a title", "STEM Modern", 0, slideWith(title), LayoutTitle},
		{"toc in a toc theme", "History Heritage", 2, TOCSlide(DefaultTOC()), LayoutTOC},
		{"toc without support", "STEM Modern", 2, TOCSlide(DefaultTOC()), LayoutMain},
		{"end slide", "Blue Horizon", 4, slideWith(Component{ID: "e", Type: ComponentEnd}), LayoutEnd},
		{"end without support", "Classic Classroom", 4, slideWith(Component{ID: "e", Type: ComponentEnd}), LayoutContent},
		{"image slide", "STEM Modern", 1, slideWith(title, bg), LayoutImage},
		{"image without support", "Art Studio", 1, slideWith(title, bg), LayoutMain},
		{"plain slide", "Calm Cyan", 3, slideWith(title), LayoutMain},
		{"classic falls back to content", "Classic Classroom", 3, slideWith(title), LayoutContent},
		{"unknown theme uses default", "No Such Theme", 3, slideWith(title), LayoutContent},
		{"explicit supported layout", "Calm Cyan", 3, &Slide{ID: "x", Layout: "ColumnsSlide", Components: []Component{title}}, LayoutColumns},
		{"explicit unsupported layout", "Blue Horizon", 3, &Slide{ID: "x", Layout: "split", Components: []Component{title}}, LayoutMain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := reg.Select(tt.index, tt.slide, tt.theme)
			if sel.Kind != tt.want {
				t.Errorf("kind = %s, want %s", sel.Kind, tt.want)
			}
		})
	}
}

func TestSelectTitleScenario(t *testing.T) {
	s := slideWith(
		Component{ID: "t", Type: ComponentTitle, Content: "Intro"},
		Component{ID: "p", Type: ComponentParagraph, Content: "Welcome"},
	)
	for i := 0; i < 3; i++ {
		sel := DefaultRegistry().Select(0, s, "Classic Classroom")
		if sel.Kind != LayoutTitle || sel.Input.Title != "Intro" || sel.Input.Subtitle != "Welcome" {
			t.Fatalf("selection = %+v", sel)
		}
	}
}

func TestSelectPlaceholders(t *testing.T) {
	reg := DefaultRegistry()
	sel := reg.Select(0, NewSlide(), "Tech Trends")
	if sel.Input.Title != "Sample Title" || sel.Input.Subtitle != "Subtitle placeholder" {
		t.Errorf("title placeholders = %+v", sel.Input)
	}
	sel = reg.Select(5, slideWith(Component{ID: "e", Type: ComponentEnd}), "Tech Trends")
	if sel.Input.Title != "Thank You!" {
		t.Errorf("end placeholder = %q", sel.Input.Title)
	}
}

func TestSelectTOCInput(t *testing.T) {
	sel := DefaultRegistry().Select(1, TOCSlide(DefaultTOC()), "Art Studio")
	if sel.Input.TOCHeading != DefaultTOCTitle || len(sel.Input.TOCItems) != 4 {
		t.Errorf("toc input = %+v", sel.Input)
	}
}

func TestLookupFoldsNames(t *testing.T) {
	reg := DefaultRegistry()
	for _, name := range []string{"Calm Cyan", "calm-cyan", "CALM_CYAN", "  calm   cyan "} {
		th, ok := reg.Lookup(name)
		if !ok || th.Name != "Calm Cyan" {
			t.Errorf("Lookup(%q) = %v, %v", name, th.Name, ok)
		}
	}
	if th, ok := reg.Lookup("nope"); ok || th.Name != DefaultThemeName {
		t.Errorf("unknown theme resolved to %q", th.Name)
	}
}

func TestCatalog(t *testing.T) {
	cat := DefaultRegistry().Catalog()
	if len(cat) != 20 {
		t.Fatalf("catalog has %d themes", len(cat))
	}
	if cat[0].Name != "Classic Classroom" || cat[0].Background != "#F8F4E3" {
		t.Errorf("first entry = %+v", cat[0])
	}
	for _, info := range cat {
		if info.Name == DefaultThemeName {
			t.Error("default theme listed")
		}
		if !strings.HasPrefix(info.Background, "#") || len(info.Background) != 7 {
			t.Errorf("%s background = %q", info.Name, info.Background)
		}
		if len(info.Capabilities) == 0 {
			t.Errorf("%s has no layouts", info.Name)
		}
	}
}

func TestRenderAddsOverlays(t *testing.T) {
	s := slideWith(
		Component{ID: "t", Type: ComponentTitle, Content: "Hi"},
		Component{ID: "o", Type: ComponentText, Content: "note", IsDraggable: true, X: 960, Y: 540, W: 400, H: 60},
	)
	tree, _ := DefaultRegistry().Render(2, s, "STEM Modern")
	last := tree.Elements[len(tree.Elements)-1]
	if !last.Overlay || last.ComponentID != "o" || last.Box.X != 960 || last.Box.W != 400 {
		t.Errorf("overlay element = %+v", last)
	}
	if tree.Background.IsZero() {
		t.Error("background not set")
	}
}

func TestParseLayoutKind(t *testing.T) {
	for in, want := range map[string]LayoutKind{
		"MainSlide": LayoutMain, "toc": LayoutTOC, " Split_Slide ": LayoutSplit, "end-slide": LayoutEnd,
	} {
		if got := ParseLayoutKind(in); got != want {
			t.Errorf("ParseLayoutKind(%q) = %q, want %q", in, got, want)
		}
	}
}
