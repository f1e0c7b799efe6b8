package slideshow

import (
	"fmt"
	"strings"
)

// Validate checks the presentation for structural issues and returns an
// error describing all problems found, or nil if the presentation is valid.
func (p *Presentation) Validate() error {
	var errs []string

	if len(p.slides) == 0 {
		errs = append(errs, "presentation must have at least one slide")
	} else if p.activeIndex < 0 || p.activeIndex >= len(p.slides) {
		errs = append(errs, fmt.Sprintf("active index %d out of range [0,%d)", p.activeIndex, len(p.slides)))
	}

	seen := make(map[string]int, len(p.slides))
	for i, slide := range p.slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		if slide == nil {
			errs = append(errs, prefix+": slide is nil")
			continue
		}
		if slide.ID == "" {
			errs = append(errs, prefix+": slide id is empty")
		} else if j, dup := seen[slide.ID]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate slide id %s (also slide %d)", prefix, slide.ID, j+1))
		} else {
			seen[slide.ID] = i
		}
		for _, e := range validateSlide(slide) {
			errs = append(errs, prefix+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateSlide(s *Slide) []string {
	var errs []string
	ids := make(map[string]bool, len(s.Components))
	for j, c := range s.Components {
		prefix := fmt.Sprintf("component %d", j+1)
		if c.ID == "" {
			errs = append(errs, prefix+": id is empty")
		} else if ids[c.ID] {
			errs = append(errs, prefix+": duplicate id "+c.ID)
		}
		ids[c.ID] = true

		if !c.Type.Valid() {
			errs = append(errs, prefix+": unknown type "+string(c.Type))
		}
		if c.W < 0 || c.H < 0 {
			errs = append(errs, prefix+": size is negative")
		}
		if c.FontSize < 0 {
			errs = append(errs, prefix+": font size is negative")
		}
		if c.Color != "" {
			if _, ok := ParseColor(c.Color); !ok {
				errs = append(errs, prefix+": invalid color "+c.Color)
			}
		}
		if msg := validateSpans(c.Spans, len([]rune(c.Content))); msg != "" {
			errs = append(errs, prefix+": "+msg)
		}
	}
	return errs
}

// validateSpans checks that spans are ordered, non-overlapping and inside
// the text. Gaps are allowed; they are filled on normalization.
func validateSpans(spans []Span, n int) string {
	prev := 0
	for i, sp := range spans {
		switch {
		case sp.Start < 0 || sp.End > n:
			return fmt.Sprintf("span %d [%d,%d) outside text of length %d", i, sp.Start, sp.End, n)
		case sp.Start >= sp.End:
			return fmt.Sprintf("span %d [%d,%d) is empty", i, sp.Start, sp.End)
		case sp.Start < prev:
			return fmt.Sprintf("span %d overlaps the previous span", i)
		}
		prev = sp.End
	}
	return ""
}

// Validate checks a deck before it is written.
func (d *Deck) Validate() error {
	var errs []string
	if d.Layout == nil {
		errs = append(errs, "document layout is nil")
	} else {
		if d.Layout.CX <= 0 {
			errs = append(errs, "layout width (CX) must be positive")
		}
		if d.Layout.CY <= 0 {
			errs = append(errs, "layout height (CY) must be positive")
		}
	}
	if len(d.slides) == 0 {
		errs = append(errs, "deck must have at least one slide")
	}
	for i, slide := range d.slides {
		for j, shape := range slide.shapes {
			prefix := fmt.Sprintf("slide %d: shape %d", i+1, j+1)
			if shape == nil {
				errs = append(errs, prefix+": shape is nil")
				continue
			}
			if p, ok := shape.(*PictureShape); ok {
				if len(p.data) == 0 {
					errs = append(errs, prefix+": picture has no image data")
				}
				if !isValidImageMime(p.mimeType) {
					errs = append(errs, prefix+": unsupported image MIME type: "+p.mimeType)
				}
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func isValidImageMime(mime string) bool {
	switch mime {
	case "image/png", "image/jpeg", "image/gif", "image/bmp":
		return true
	}
	return false
}
