package slideshow

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PPTXWriter writes a deck as an Office Open XML presentation.
type PPTXWriter struct {
	deck  *Deck
	media map[*PictureShape]int
}

// NewPPTXWriter creates a writer for deck.
func NewPPTXWriter(deck *Deck) *PPTXWriter {
	return &PPTXWriter{deck: deck}
}

// Save writes the deck to a file, removing it again if writing fails.
func (w *PPTXWriter) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := w.Write(f)
	closeErr := f.Close()
	if writeErr != nil {
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

// Bytes returns the encoded package.
func (w *PPTXWriter) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes the package to writer.
func (w *PPTXWriter) Write(writer io.Writer) error {
	if w.deck == nil {
		return fmt.Errorf("deck is nil")
	}
	if w.deck.Properties == nil {
		w.deck.Properties = NewDocumentProperties()
	}
	if err := w.deck.Validate(); err != nil {
		return err
	}
	w.indexMedia()

	zw := zip.NewWriter(writer)
	steps := []func(*zip.Writer) error{
		w.writeContentTypes,
		w.writeRootRels,
		w.writeAppProperties,
		w.writeCoreProperties,
		w.writePresentation,
		w.writePresentationRels,
		w.writePresProps,
		w.writeViewProps,
		w.writeTableStyles,
		w.writeSlideMaster,
		w.writeSlideLayout,
		w.writeTheme,
	}
	for _, step := range steps {
		if err := step(zw); err != nil {
			return err
		}
	}
	for i, slide := range w.deck.slides {
		if err := w.writeSlide(zw, slide, i+1); err != nil {
			return err
		}
		if err := w.writeSlideRels(zw, slide, i+1); err != nil {
			return err
		}
	}
	if err := w.writeMedia(zw); err != nil {
		return err
	}
	return zw.Close()
}

// indexMedia numbers every picture in deck order; media parts are named
// image<N>.<ext>.
func (w *PPTXWriter) indexMedia() {
	w.media = make(map[*PictureShape]int)
	n := 1
	for _, slide := range w.deck.slides {
		for _, p := range slide.pictures() {
			w.media[p] = n
			n++
		}
	}
}

func (s *DeckSlide) pictures() []*PictureShape {
	var out []*PictureShape
	for _, shape := range s.shapes {
		if p, ok := shape.(*PictureShape); ok && len(p.data) > 0 {
			out = append(out, p)
		}
	}
	return out
}
