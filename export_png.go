package slideshow

import (
	"context"
	"fmt"
)

// ExportPNG renders a single slide and returns it as a PNG data URL. index
// is the slide's position in its presentation, which drives layout
// selection.
func (e *Exporter) ExportPNG(ctx context.Context, slide *Slide, index int, filename string) Result {
	tr := e.tracker()
	tr.report(0)
	if slide == nil {
		return failed(ExportTypePNG, fmt.Errorf("no slide to export"))
	}
	if err := ctx.Err(); err != nil {
		return failed(ExportTypePNG, err)
	}
	tr.report(10)

	m := e.Materializer
	if m == nil {
		m = NewMaterializer(e.Logger)
	}
	surface, err := m.Materialize(ctx, slide, e.Theme, index)
	if err != nil {
		return failed(ExportTypePNG, err)
	}
	defer surface.Cleanup()
	tr.report(30)

	r := e.Rasterizer
	if r == nil {
		r = NewNativeRasterizer(nil)
	}
	img, err := r.Rasterize(ctx, surface, e.Raster)
	if err != nil {
		e.log().Logf("PNG export: slide %d capture failed: %v", index, err)
		return failed(ExportTypePNG, err)
	}
	tr.report(70)

	data, err := EncodePNG(img)
	if err != nil {
		return failed(ExportTypePNG, err)
	}
	tr.report(80)

	res := Result{
		Success:     true,
		Message:     "PNG exported successfully!",
		DownloadURL: DataURI("image/png", data),
		Filename:    e.filename(filename, "slide", "png"),
		ExportType:  ExportTypePNG,
		Pages:       1,
		Data:        data,
	}
	tr.report(100)
	return res
}
