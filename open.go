package slideshow

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// deckFile is the on-disk JSON form of a presentation.
type deckFile struct {
	Title       string   `json:"title,omitempty"`
	Author      string   `json:"author,omitempty"`
	Company     string   `json:"company,omitempty"`
	Theme       string   `json:"theme,omitempty"`
	ActiveIndex int      `json:"activeIndex"`
	Slides      []*Slide `json:"slides"`
}

// maxDeckFileSize caps deck files read from disk or a stream.
const maxDeckFileSize = 64 << 20 // 64 MB

// Open reads a JSON deck file and returns a Presentation.
func Open(path string) (*Presentation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return ReadFrom(f)
}

// ReadFrom decodes a JSON deck. A deck without slides gets one blank slide,
// components without ids get fresh ones and an out of range active index is
// clamped.
func ReadFrom(r io.Reader) (*Presentation, error) {
	var df deckFile
	dec := json.NewDecoder(io.LimitReader(r, maxDeckFileSize))
	if err := dec.Decode(&df); err != nil {
		return nil, fmt.Errorf("failed to decode deck: %w", err)
	}
	for i, s := range df.Slides {
		if s == nil {
			return nil, fmt.Errorf("failed to decode deck: slide %d is null", i+1)
		}
		if s.Components == nil {
			s.Components = []Component{}
		}
		for j := range s.Components {
			if s.Components[j].ID == "" {
				s.Components[j].ID = uuid.NewString()
			}
		}
	}

	p := NewPresentation(df.Slides...)
	p.Title, p.Author, p.Company, p.Theme = df.Title, df.Author, df.Company, df.Theme
	p.activeIndex = min(max(df.ActiveIndex, 0), len(p.slides)-1)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the presentation as a JSON deck. The file is replaced
// atomically.
func (p *Presentation) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".deck-*.json")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := p.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WriteTo writes the presentation as indented JSON.
func (p *Presentation) WriteTo(w io.Writer) (int64, error) {
	df := deckFile{
		Title:       p.Title,
		Author:      p.Author,
		Company:     p.Company,
		Theme:       p.Theme,
		ActiveIndex: p.activeIndex,
		Slides:      p.slides,
	}
	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode deck: %w", err)
	}
	data = append(data, '\n')
	n, err := w.Write(data)
	return int64(n), err
}

// Metadata returns the document information used for PPTX exports.
func (p *Presentation) Metadata() Metadata {
	return Metadata{Author: p.Author, Company: p.Company, Title: p.Title}
}
