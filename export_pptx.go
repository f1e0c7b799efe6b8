package slideshow

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
)

// ExportPPTX renders every slide to a PNG and places it as a full-bleed
// picture on a 16:9 slide. Empty metadata fields take the export defaults.
func (e *Exporter) ExportPPTX(ctx context.Context, slides []*Slide, meta Metadata, filename string) Result {
	tr := e.tracker()
	tr.report(0)
	if len(slides) == 0 {
		return failed(ExportTypePPTX, errors.New("no slides to export"))
	}
	tr.report(5)

	deck := NewDeck()
	deck.Properties.Apply(meta)

	skipped, pages, err := e.batch(ctx, ExportTypePPTX, slides, tr, func(i int, img *image.RGBA) error {
		data, err := EncodePNG(img)
		if err != nil {
			return err
		}
		pic := deck.AddSlide().AddPicture(data, "image/png")
		pic.SetBounds(0, 0, deck.Layout.CX, deck.Layout.CY)
		pic.SetName(fmt.Sprintf("Slide %d", i+1))
		return nil
	})
	if err != nil {
		return failed(ExportTypePPTX, err)
	}
	tr.report(95)

	data, err := NewPPTXWriter(deck).Bytes()
	if err != nil {
		return failed(ExportTypePPTX, fmt.Errorf("assemble document: %w", err))
	}
	return e.publish(ExportTypePPTX, PPTXContentType, e.filename(filename, "presentation", "pptx"), data, pages, skipped, tr)
}

// ExportEditablePPTX writes every slide as native shapes: rectangles, text
// boxes with styled runs and embedded pictures. Nothing is rasterized, so
// text stays editable.
func (e *Exporter) ExportEditablePPTX(ctx context.Context, slides []*Slide, meta Metadata, filename string) Result {
	tr := e.tracker()
	tr.report(0)
	if len(slides) == 0 {
		return failed(ExportTypePPTX, errors.New("no slides to export"))
	}
	tr.report(5)

	m := e.Materializer
	if m == nil {
		m = NewMaterializer(e.Logger)
	}
	deck := NewDeck()
	deck.Properties.Apply(meta)

	n := len(slides)
	var skipped []int
	for i, s := range slides {
		if err := ctx.Err(); err != nil {
			return failed(ExportTypePPTX, err)
		}
		surface, err := m.Materialize(ctx, s, e.Theme, i)
		if err != nil {
			if ctx.Err() != nil {
				return failed(ExportTypePPTX, ctx.Err())
			}
			e.log().Logf("PPTX export: slide %d skipped: %v", i, err)
			skipped = append(skipped, i)
			tr.report(10 + 80*(i+1)/n)
			continue
		}
		err = addSurfaceShapes(deck, surface)
		surface.Cleanup()
		if err != nil {
			return failed(ExportTypePPTX, fmt.Errorf("slide %d: %w", i, err))
		}
		tr.report(10 + 80*(i+1)/n)
	}
	pages := n - len(skipped)
	if pages == 0 {
		return failed(ExportTypePPTX, fmt.Errorf("all %d slides failed to render", n))
	}
	tr.report(95)

	data, err := NewPPTXWriter(deck).Bytes()
	if err != nil {
		return failed(ExportTypePPTX, fmt.Errorf("assemble document: %w", err))
	}
	return e.publish(ExportTypePPTX, PPTXContentType, e.filename(filename, "presentation", "pptx"), data, pages, skipped, tr)
}

// addSurfaceShapes appends one deck slide mirroring the surface.
func addSurfaceShapes(deck *Deck, s *Surface) error {
	slide := deck.AddSlide()
	slide.Background = s.Background
	for _, el := range s.Elements {
		if el.Hidden {
			continue
		}
		var shape *BaseShape
		switch el.Kind {
		case ElementRect:
			if el.Fill.IsZero() {
				continue
			}
			shape = &slide.AddRect(el.Fill).BaseShape
		case ElementText:
			shape = &addTextBox(slide, el).BaseShape
		case ElementImage:
			if el.Image == nil {
				continue
			}
			data, err := EncodePNG(el.Image)
			if err != nil {
				return fmt.Errorf("encode image %s: %w", truncate(el.Source, 64), err)
			}
			shape = &slide.AddPicture(data, "image/png").BaseShape
		default:
			continue
		}
		shape.SetBounds(deck.Layout.scale(el.Box))
		shape.SetRotation(int(math.Round(el.Rotation)))
		if el.ComponentID != "" {
			shape.SetName(el.ComponentID)
		}
	}
	return nil
}

// addTextBox converts a text element into paragraphs, one per line, with
// one run per formatted span.
func addTextBox(slide *DeckSlide, el Element) *TextBoxShape {
	box := slide.AddText()
	box.SetAnchor(el.VAlign)
	align := el.Align
	if align == "" {
		align = HorizontalLeft
	}

	rt := &RichText{Text: el.Text, Spans: el.Spans}
	if len(rt.Spans) == 0 {
		rt = NewRichText(el.Text)
	} else {
		rt.normalize()
	}
	para := box.CreateParagraph(align)
	for _, run := range rt.Runs() {
		st := el.Style.withAttrs(run.Attrs)
		if st.Color.IsZero() {
			st.Color = ColorBlack
		}
		font := fontFromStyle(st)
		for i, piece := range strings.Split(run.Text, "\n") {
			if i > 0 {
				para = box.CreateParagraph(align)
			}
			if piece != "" {
				para.AddRun(piece, font)
			}
		}
	}
	return box
}
