package slideshow

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRasterizeBackground(t *testing.T) {
	r := NewNativeRasterizer(NewIsolatedFontCache())

	img, err := r.Rasterize(context.Background(), &Surface{}, RasterOptions{Width: 64})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 36 {
		t.Errorf("size = %v", b)
	}
	if got := img.RGBAAt(10, 10); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("zero background painted %v, want white", got)
	}

	img, _ = r.Rasterize(context.Background(), &Surface{Background: NewColor("#263238")}, RasterOptions{Width: 64})
	if got := img.RGBAAt(10, 10); got != (color.RGBA{0x26, 0x32, 0x38, 255}) {
		t.Errorf("background = %v", got)
	}
}

func TestRasterizeScalesBoxes(t *testing.T) {
	s := &Surface{Elements: []Element{
		{Kind: ElementRect, Box: Rect{X: 960, Y: 540, W: 480, H: 270}, Fill: NewColor("FF0000")},
	}}
	img, err := NewNativeRasterizer(NewIsolatedFontCache()).Rasterize(context.Background(), s, RasterOptions{Width: 480})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	inside := []image.Point{{241, 136}, {300, 170}, {358, 201}}
	for _, p := range inside {
		if got := img.RGBAAt(p.X, p.Y); got.R != 255 || got.G != 0 {
			t.Errorf("pixel %v = %v, want red", p, got)
		}
	}
	outside := []image.Point{{238, 136}, {300, 133}, {362, 170}, {10, 10}}
	for _, p := range outside {
		if got := img.RGBAAt(p.X, p.Y); got.G != 255 {
			t.Errorf("pixel %v = %v, want white", p, got)
		}
	}
}

func TestRasterizeSkipsHidden(t *testing.T) {
	s := &Surface{Elements: []Element{
		{Kind: ElementRect, Box: Rect{W: 1920, H: 1080}, Fill: NewColor("000000"), Hidden: true},
	}}
	img, _ := NewNativeRasterizer(NewIsolatedFontCache()).Rasterize(context.Background(), s, RasterOptions{Width: 32})
	if got := img.RGBAAt(5, 5); got.R != 255 {
		t.Errorf("hidden element was painted: %v", got)
	}
}

func TestRasterizeText(t *testing.T) {
	s := &Surface{Elements: []Element{{
		Kind:  ElementText,
		Box:   Rect{X: 100, Y: 100, W: 1720, H: 400},
		Text:  "Hello, World!",
		Style: TextStyle{FontFamily: "Arial", FontSize: 120, Color: NewColor("000000")},
	}}}
	img, err := NewNativeRasterizer(NewIsolatedFontCache()).Rasterize(context.Background(), s, RasterOptions{})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	dark := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x += 2 {
			if img.RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no text pixels were drawn")
	}
}

func TestRasterizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewNativeRasterizer(NewIsolatedFontCache()).Rasterize(ctx, &Surface{}, RasterOptions{}); err == nil {
		t.Error("cancelled rasterize succeeded")
	}
}

func TestRasterOptionsSize(t *testing.T) {
	tests := []struct {
		opts RasterOptions
		w, h int
	}{
		{RasterOptions{}, 1920, 1080},
		{RasterOptions{Width: 960}, 960, 540},
		{RasterOptions{Width: 100, Height: 100}, 100, 100},
	}
	for _, tt := range tests {
		if w, h := tt.opts.size(); w != tt.w || h != tt.h {
			t.Errorf("%+v: size = %dx%d, want %dx%d", tt.opts, w, h, tt.w, tt.h)
		}
	}
}

// paintedColumns returns the first and last columns of row y whose red
// channel is below 128.
func paintedColumns(img *image.RGBA, y int) (int, int) {
	first, last := -1, -1
	for x := 0; x < img.Bounds().Dx(); x++ {
		if img.RGBAAt(x, y).R < 128 {
			if first < 0 {
				first = x
			}
			last = x
		}
	}
	return first, last
}

func TestPropertyCoordinateScaling(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)
	r := NewNativeRasterizer(NewIsolatedFontCache())

	properties.Property("boxes land at x/1920*W for any output width", prop.ForAll(
		func(x, w, width int) bool {
			s := &Surface{Elements: []Element{
				{Kind: ElementRect, Box: Rect{X: float64(x), Y: 0, W: float64(w), H: 1080}, Fill: NewColor("0000FF")},
			}}
			img, err := r.Rasterize(context.Background(), s, RasterOptions{Width: width})
			if err != nil {
				return false
			}
			first, last := paintedColumns(img, img.Bounds().Dy()/2)
			wantFirst := float64(x) / CanvasWidth * float64(width)
			wantLast := float64(x+w)/CanvasWidth*float64(width) - 1
			return first >= 0 && abs(float64(first)-wantFirst) <= 1 && abs(float64(last)-wantLast) <= 1
		},
		gen.IntRange(0, 1400), gen.IntRange(100, 500), gen.IntRange(160, 800),
	))

	properties.TestingRun(t)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
