package slideshow

import (
	"errors"
	"fmt"
	"strings"
)

// Term is an extracted term with its definition.
type Term struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// UploadResult is the extraction outcome for one uploaded document.
type UploadResult struct {
	Filename    string `json:"filename"`
	Terms       []Term `json:"terms,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	// ExtractedImages are image references usable as image component
	// content.
	ExtractedImages []string `json:"extracted_images,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// SlidesFromUploads builds the initial slides of a presentation from
// extraction results. Per file it adds a title slide, one slide per
// extracted image and one slide per term not seen in an earlier file or
// earlier in the same file. Any failed file fails the whole seed.
func SlidesFromUploads(results []UploadResult, author string) ([]*Slide, error) {
	if len(results) == 0 {
		return nil, errors.New("no upload results")
	}
	var failures []string
	for _, r := range results {
		if r.Error != "" {
			failures = append(failures, fmt.Sprintf("%s: %s", r.Filename, r.Error))
		}
	}
	if len(failures) > 0 {
		return nil, fmt.Errorf("some files failed to process: %s", strings.Join(failures, "; "))
	}

	var slides []*Slide
	seen := make(map[string]bool)
	for _, r := range results {
		title := NewSlide()
		title.Components = append(title.Components,
			Component{ID: "title-" + r.Filename, Type: ComponentTitle, Content: r.Filename},
			Component{ID: "author-" + r.Filename, Type: ComponentAuthor, Content: author},
		)
		slides = append(slides, title)

		for i, src := range r.ExtractedImages {
			s := NewSlide()
			s.Components = append(s.Components, Component{
				ID:      fmt.Sprintf("extracted-img-%d", i),
				Type:    ComponentImage,
				Content: strings.ReplaceAll(src, `\`, "/"),
			})
			slides = append(slides, s)
		}

		for _, t := range r.Terms {
			if seen[t.Term] {
				continue
			}
			seen[t.Term] = true
			s := NewSlide()
			s.Components = append(s.Components,
				Component{ID: "term-" + t.Term, Type: ComponentTitle, Content: t.Term},
				Component{ID: "def-" + t.Term, Type: ComponentParagraph, Content: t.Definition},
			)
			slides = append(slides, s)
		}
	}
	return slides, nil
}
