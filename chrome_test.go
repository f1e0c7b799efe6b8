package slideshow

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"
)

func TestSurfaceHTML(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	s := &Surface{
		Background: NewColor("E0F7FA"),
		Elements: []Element{
			{Kind: ElementRect, Box: Rect{X: 10, Y: 20, W: 30, H: 40}, Fill: NewColor("FF0000"), Rotation: 15},
			{Kind: ElementText, Box: Rect{W: 100, H: 50}, Text: "a < b", Style: TextStyle{FontFamily: "Georgia", FontSize: 40},
				Spans: []Span{{Start: 0, End: 1, Attrs: TextAttrs{Bold: true}}}},
			{Kind: ElementImage, Box: Rect{W: 10, H: 10}, Image: img, Fit: FitContain},
			{Kind: ElementImage, Box: Rect{W: 10, H: 10}, Source: "gone.png", Hidden: true},
		},
	}
	doc, err := SurfaceHTML(s, RasterOptions{Width: 480})
	if err != nil {
		t.Fatalf("SurfaceHTML: %v", err)
	}
	for _, want := range []string{
		"width:480px;height:270px",
		"transform:scale(0.25,0.25)",
		"left:10px;top:20px;width:30px;height:40px;transform:rotate(15deg)",
		`<span style="font-weight:bold">a</span> &lt; b`,
		"font-family:'Georgia',sans-serif",
		"object-fit:contain",
		`src="data:image/png;base64,`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document lacks %q", want)
		}
	}
	if strings.Count(doc, "<img") != 1 {
		t.Error("hidden image was emitted")
	}
}

func TestChromeRasterize(t *testing.T) {
	path, err := FindChrome()
	if err != nil {
		t.Skip("chrome not installed")
	}
	r := NewChromeRasterizer(path)
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s := &Surface{Background: NewColor("000000"), Elements: []Element{
		{Kind: ElementRect, Box: Rect{X: 960, W: 960, H: 1080}, Fill: NewColor("FFFFFF")},
	}}
	img, err := r.Rasterize(ctx, s, RasterOptions{Width: 320})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Fatalf("size = %v", b)
	}
	if got := img.RGBAAt(40, 90); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("left half = %v", got)
	}
	if got := img.RGBAAt(280, 90); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("right half = %v", got)
	}
}
