package slideshow

import (
	"strings"
	"testing"
)

func TestSlidesFromUploads(t *testing.T) {
	results := []UploadResult{
		{
			Filename:        "intro.pdf",
			Terms:           []Term{{Term: "Go", Definition: "a language"}, {Term: "Go", Definition: "again"}},
			ExtractedImages: []string{`img\one.png`},
		},
		{
			Filename: "more.pdf",
			Terms:    []Term{{Term: "Go", Definition: "dup"}, {Term: "Rune", Definition: "a code point"}},
		},
	}
	slides, err := SlidesFromUploads(results, "Ada")
	if err != nil {
		t.Fatalf("SlidesFromUploads: %v", err)
	}
	// intro: title, image, Go; more: title, Rune
	if len(slides) != 5 {
		t.Fatalf("got %d slides", len(slides))
	}
	if c, _ := slides[0].First(ComponentAuthor); c.Content != "Ada" {
		t.Errorf("author = %q", c.Content)
	}
	if c, _ := slides[1].First(ComponentImage); c.Content != "img/one.png" {
		t.Errorf("image path = %q", c.Content)
	}
	if c, _ := slides[2].First(ComponentParagraph); c.Content != "a language" {
		t.Errorf("first definition = %q", c.Content)
	}
	if c, _ := slides[4].First(ComponentTitle); c.Content != "Rune" {
		t.Errorf("last term = %q", c.Content)
	}
	if err := NewPresentation(slides...).Validate(); err != nil {
		t.Errorf("seeded deck invalid: %v", err)
	}
}

func TestSlidesFromUploadsFailure(t *testing.T) {
	_, err := SlidesFromUploads([]UploadResult{
		{Filename: "ok.pdf"},
		{Filename: "bad.pdf", Error: "unreadable"},
	}, "")
	if err == nil || !strings.Contains(err.Error(), "bad.pdf: unreadable") {
		t.Errorf("err = %v", err)
	}
	if _, err := SlidesFromUploads(nil, ""); err == nil {
		t.Error("empty results accepted")
	}
}
