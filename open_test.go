package slideshow

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	p := NewPresentation(titleSlide("First"), titleSlide("Second"))
	p.Title, p.Author, p.Theme = "Deck", "Ada", "Calm Cyan"
	p.SetActiveIndex(1)

	path := filepath.Join(t.TempDir(), "nested", "deck.json")
	if err := p.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Title != "Deck" || got.Author != "Ada" || got.Theme != "Calm Cyan" || got.ActiveIndex() != 1 {
		t.Errorf("metadata = %q %q %q active=%d", got.Title, got.Author, got.Theme, got.ActiveIndex())
	}
	want, have := p.Slides(), got.Slides()
	if len(have) != len(want) {
		t.Fatalf("slides = %d", len(have))
	}
	for i := range want {
		if have[i].ID != want[i].ID || have[i].Components[0].Content != want[i].Components[0].Content {
			t.Errorf("slide %d differs", i)
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestReadFromFillsDefaults(t *testing.T) {
	in := `{"activeIndex": 9, "slides": [{"id": "s1", "components": [{"type": "title", "content": "x"}]}, {"id": "s2"}]}`
	p, err := ReadFrom(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if p.ActiveIndex() != 1 {
		t.Errorf("active index not clamped: %d", p.ActiveIndex())
	}
	slides := p.Slides()
	if slides[0].Components[0].ID == "" {
		t.Error("component id not filled")
	}
	if slides[1].Components == nil {
		t.Error("nil components not replaced")
	}

	empty, err := ReadFrom(strings.NewReader(`{"slides": []}`))
	if err != nil || empty.Len() != 1 {
		t.Errorf("empty deck: len=%d err=%v", empty.Len(), err)
	}
}

func TestReadFromRejects(t *testing.T) {
	tests := map[string]string{
		"malformed":     `{"slides": [`,
		"null slide":    `{"slides": [null]}`,
		"unknown type":  `{"slides": [{"id": "a", "components": [{"id": "c", "type": "video"}]}]}`,
		"duplicate ids": `{"slides": [{"id": "a"}, {"id": "a"}]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadFrom(strings.NewReader(in)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestWriteToIsIndented(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewPresentation().WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"slides\"") || !strings.HasSuffix(buf.String(), "\n") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	s := NewSlide()
	s.Components = []Component{
		{ID: "a", Type: ComponentTitle, Color: "not-a-color"},
		{ID: "a", Type: ComponentText, W: -1},
		{ID: "b", Type: ComponentText, Content: "abc", Spans: []Span{{Start: 0, End: 5}}},
	}
	p := NewPresentation(s)
	err := p.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"invalid color", "duplicate id a", "size is negative", "outside text"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %v", want, err)
		}
	}
}
