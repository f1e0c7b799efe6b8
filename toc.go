package slideshow

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultTOCTitle is the heading of a table of contents without its own.
const DefaultTOCTitle = "Table of Contents"

// ErrInvalidTOC is returned for a table of contents missing its title or
// sections.
var ErrInvalidTOC = errors.New("invalid table of contents")

// TOC is a table of contents.
type TOC struct {
	Title    string       `json:"title"`
	Sections []TOCSection `json:"sections"`
}

// TOCSection is one entry of a table of contents. Page is 0 when unknown.
type TOCSection struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Subsections []string `json:"subsections"`
	Page        int      `json:"page,omitempty"`
}

// DefaultTOC returns the four-section outline used when no outline could be
// generated.
func DefaultTOC() *TOC {
	return &TOC{
		Title: DefaultTOCTitle,
		Sections: []TOCSection{
			{ID: "intro", Title: "Introduction and Problem Statement", Subsections: []string{
				"Problem Statement and Background", "Research Objectives and Methodology",
			}},
			{ID: "concepts", Title: "Theoretical Framework and Key Concepts", Subsections: []string{
				"Theoretical Framework and Definitions", "Fundamental Principles and Methods",
			}},
			{ID: "applications", Title: "System Implementation and Analysis", Subsections: []string{
				"Analysis Methods and Techniques", "Practical Applications and Implementation",
			}},
			{ID: "conclusion", Title: "Results and Future Research Directions", Subsections: []string{
				"Research Findings and Results", "Future Work and Research Directions",
			}},
		},
	}
}

// FallbackTOCItems are the entries of the generic TOC slide used when the
// outline service is unavailable.
var FallbackTOCItems = []string{
	"Introduction to the Topic",
	"Key Concepts and Definitions",
	"Historical Background",
	"Current Applications",
	"Case Studies and Examples",
	"Future Implications",
	"Conclusion and Q&A",
}

// ValidateTOC reports whether toc has a title, a section list and a title on
// every section.
func ValidateTOC(toc *TOC) error {
	switch {
	case toc == nil:
		return fmt.Errorf("%w: nil", ErrInvalidTOC)
	case strings.TrimSpace(toc.Title) == "":
		return fmt.Errorf("%w: missing title", ErrInvalidTOC)
	case toc.Sections == nil:
		return fmt.Errorf("%w: missing sections", ErrInvalidTOC)
	}
	for i, s := range toc.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("%w: section %d has no title", ErrInvalidTOC, i+1)
		}
	}
	return nil
}

// NormalizeTOC returns a copy of toc with ids and subsection lists filled
// in. An invalid toc yields DefaultTOC.
func NormalizeTOC(toc *TOC) *TOC {
	if ValidateTOC(toc) != nil {
		return DefaultTOC()
	}
	out := &TOC{Title: toc.Title, Sections: make([]TOCSection, len(toc.Sections))}
	for i, s := range toc.Sections {
		if s.ID == "" {
			s.ID = fmt.Sprintf("section-%d", i)
		}
		subs := make([]string, len(s.Subsections))
		copy(subs, s.Subsections)
		s.Subsections = subs
		out.Sections[i] = s
	}
	return out
}

// FormatSimpleList flattens the outline; subsections are indented by two
// spaces.
func FormatSimpleList(toc *TOC) []string {
	var items []string
	for _, s := range toc.Sections {
		items = append(items, s.Title)
		for _, sub := range s.Subsections {
			items = append(items, "  "+sub)
		}
	}
	return items
}

// TOCNode is an entry of the hierarchical form of an outline.
type TOCNode struct {
	ID       string    `json:"id,omitempty"`
	Number   string    `json:"number,omitempty"`
	Title    string    `json:"title"`
	Children []TOCNode `json:"children,omitempty"`
}

// FormatHierarchical returns one node per section with its subsections as
// children.
func FormatHierarchical(toc *TOC) []TOCNode {
	nodes := make([]TOCNode, len(toc.Sections))
	for i, s := range toc.Sections {
		n := TOCNode{ID: s.ID, Title: s.Title}
		for _, sub := range s.Subsections {
			n.Children = append(n.Children, TOCNode{Title: sub})
		}
		nodes[i] = n
	}
	return nodes
}

// FormatNumbered numbers sections 1, 2, ... and subsections 1.1, 1.2, ...
func FormatNumbered(toc *TOC) []TOCNode {
	nodes := make([]TOCNode, len(toc.Sections))
	for i, s := range toc.Sections {
		n := TOCNode{ID: s.ID, Number: fmt.Sprint(i + 1), Title: s.Title}
		for j, sub := range s.Subsections {
			n.Children = append(n.Children, TOCNode{Number: fmt.Sprintf("%d.%d", i+1, j+1), Title: sub})
		}
		nodes[i] = n
	}
	return nodes
}

// AddPageNumbers estimates a start page per section. Pages start at 3, after
// the title and TOC slides, and advance by totalSlides/len(sections).
func AddPageNumbers(toc *TOC, totalSlides int) *TOC {
	out := NormalizeTOC(toc)
	if len(out.Sections) == 0 {
		return out
	}
	step := totalSlides / len(out.Sections)
	for i := range out.Sections {
		out.Sections[i].Page = 3 + i*step
	}
	return out
}

// TOCSlide builds a slide holding the outline: a toc heading followed by one
// toc_item per section.
func TOCSlide(toc *TOC) *Slide {
	toc = NormalizeTOC(toc)
	s := NewSlide()
	s.Components = append(s.Components, Component{ID: "toc-header", Type: ComponentTOC, Content: toc.Title})
	for i, sec := range toc.Sections {
		s.Components = append(s.Components, Component{
			ID:      fmt.Sprintf("toc-item-%d", i+1),
			Type:    ComponentTOCItem,
			Content: sec.Title,
		})
	}
	return s
}

// FallbackTOCSlide builds a TOC slide from FallbackTOCItems.
func FallbackTOCSlide() *Slide {
	toc := &TOC{Title: DefaultTOCTitle}
	for _, item := range FallbackTOCItems {
		toc.Sections = append(toc.Sections, TOCSection{Title: item})
	}
	return TOCSlide(toc)
}

// TextFromTerms joins every extracted term as "term: definition" blocks,
// the input expected by the outline service.
func TextFromTerms(results []UploadResult) string {
	var b strings.Builder
	for _, r := range results {
		for _, t := range r.Terms {
			fmt.Fprintf(&b, "%s: %s\n\n", t.Term, t.Definition)
		}
	}
	return strings.TrimSpace(b.String())
}
