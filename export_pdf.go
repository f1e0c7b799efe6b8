package slideshow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/jung-kurt/gofpdf"
)

// ExportPDF renders every slide as a JPEG page of a 1920x1080 point
// document.
func (e *Exporter) ExportPDF(ctx context.Context, slides []*Slide, filename string) Result {
	tr := e.tracker()
	tr.report(0)
	if len(slides) == 0 {
		return failed(ExportTypePDF, errors.New("no slides to export"))
	}
	tr.report(5)

	// "P" keeps the page as given; "L" would swap width and height.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: CanvasWidth, Ht: CanvasHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("GoSlideshow "+Version, true)
	opts := gofpdf.ImageOptions{ImageType: "JPG"}

	skipped, pages, err := e.batch(ctx, ExportTypePDF, slides, tr, func(i int, img *image.RGBA) error {
		data, err := EncodeJPEG(img, DefaultJPEGQuality)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("slide-%d", i)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		pdf.ImageOptions(name, 0, 0, CanvasWidth, CanvasHeight, false, opts, 0, "")
		return pdf.Error()
	})
	if err != nil {
		return failed(ExportTypePDF, err)
	}
	tr.report(95)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return failed(ExportTypePDF, fmt.Errorf("assemble document: %w", err))
	}
	return e.publish(ExportTypePDF, "application/pdf", e.filename(filename, "presentation", "pdf"), buf.Bytes(), pages, skipped, tr)
}

// publish stores an assembled artifact and builds the success result.
func (e *Exporter) publish(kind, contentType, name string, data []byte, pages int, skipped []int, tr *progressTracker) Result {
	blobs := e.Blobs
	if blobs == nil {
		blobs = NewMemoryBlobStore("")
		e.Blobs = blobs
	}
	url, err := blobs.Put(name, contentType, data)
	if err != nil {
		return failed(kind, fmt.Errorf("store artifact: %w", err))
	}
	res := Result{
		Success:     true,
		Message:     batchMessage(kind, pages, skipped),
		DownloadURL: url,
		Filename:    name,
		ExportType:  kind,
		Warnings:    skipped,
		Pages:       pages,
		Data:        data,
	}
	tr.report(100)
	return res
}
