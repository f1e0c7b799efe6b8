package slideshow

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
)

// pngDataURI returns a w x h single-color PNG as a data URI.
func pngDataURI(t *testing.T, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return DataURI("image/png", buf.Bytes())
}

func titleSlide(title string) *Slide {
	s := NewSlide()
	s.Components = append(s.Components, Component{ID: "title", Type: ComponentTitle, Content: title})
	return s
}

// testExporter uses the Go fonts only so output does not depend on the host.
func testExporter() *Exporter {
	return NewExporter(nil, NewNativeRasterizer(NewIsolatedFontCache()), nil, nil)
}

// failingRasterizer fails surfaces whose text contains "boom" and delegates
// the rest.
type failingRasterizer struct {
	next Rasterizer
}

func (f failingRasterizer) Rasterize(ctx context.Context, s *Surface, opts RasterOptions) (*image.RGBA, error) {
	for _, e := range s.Elements {
		if strings.Contains(e.Text, "boom") {
			return nil, errors.New("capture failed")
		}
	}
	return f.next.Rasterize(ctx, s, opts)
}

// recordingLogger collects log lines.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Logf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}
