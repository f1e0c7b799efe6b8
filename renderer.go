package slideshow

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// Rasterizer turns a materialized surface into pixels.
type Rasterizer interface {
	Rasterize(ctx context.Context, s *Surface, opts RasterOptions) (*image.RGBA, error)
}

// RasterOptions sets the output size. Zero values select the 1920x1080
// canvas; a zero Height keeps the 16:9 aspect ratio.
type RasterOptions struct {
	Width  int
	Height int
}

// DefaultJPEGQuality is used by the PDF exporter and EncodeJPEG callers
// that pass zero.
const DefaultJPEGQuality = 90

func (o RasterOptions) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = int(CanvasWidth)
	}
	if h <= 0 {
		h = int(math.Round(float64(w) * CanvasHeight / CanvasWidth))
	}
	return w, h
}

// NativeRasterizer paints surfaces with golang.org/x/image.
type NativeRasterizer struct {
	Fonts *FontCache
}

// NewNativeRasterizer creates a rasterizer. A nil cache creates one that
// searches the system font directories.
func NewNativeRasterizer(fonts *FontCache) *NativeRasterizer {
	if fonts == nil {
		fonts = NewFontCache()
	}
	return &NativeRasterizer{Fonts: fonts}
}

// Rasterize paints the surface at the requested size.
func (n *NativeRasterizer) Rasterize(ctx context.Context, s *Surface, opts RasterOptions) (*image.RGBA, error) {
	if s == nil {
		return nil, fmt.Errorf("rasterize: nil surface")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := opts.size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	bg := s.Background
	if bg.IsZero() {
		bg = ColorWhite
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg.NRGBA()}, image.Point{}, draw.Src)

	fonts := n.Fonts
	if fonts == nil {
		fonts = NewFontCache()
	}
	r := &renderer{
		img:    img,
		width:  w,
		height: h,
		scaleX: float64(w) / CanvasWidth,
		scaleY: float64(h) / CanvasHeight,
		fonts:  fonts,
	}
	for _, e := range s.Elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.Hidden {
			continue
		}
		r.renderElement(e)
	}
	return img, nil
}

type renderer struct {
	img    *image.RGBA
	width  int
	height int
	scaleX float64
	scaleY float64
	fonts  *FontCache
}

func (r *renderer) renderElement(e Element) {
	x0, y0, x1, y1 := e.Box.Scale(r.width, r.height)
	rect := image.Rect(x0, y0, x1, y1)
	if rect.Empty() {
		return
	}
	rot := math.Mod(e.Rotation, 360)
	if rot == 0 {
		r.paint(r.img, rect, e)
		return
	}

	// Paint into a layer the size of the box, then rotate it about the box
	// centre onto the slide.
	layer := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	r.paint(layer, layer.Bounds(), e)

	theta := rot * math.Pi / 180
	sin, cos := math.Sincos(theta)
	cx := float64(rect.Min.X) + float64(rect.Dx())/2
	cy := float64(rect.Min.Y) + float64(rect.Dy())/2
	hw, hh := float64(rect.Dx())/2, float64(rect.Dy())/2
	m := f64.Aff3{
		cos, -sin, cx - cos*hw + sin*hh,
		sin, cos, cy - sin*hw - cos*hh,
	}
	xdraw.ApproxBiLinear.Transform(r.img, m, layer, layer.Bounds(), xdraw.Over, nil)
}

func (r *renderer) paint(dst *image.RGBA, rect image.Rectangle, e Element) {
	switch e.Kind {
	case ElementRect:
		draw.Draw(dst, rect, &image.Uniform{e.Fill.NRGBA()}, image.Point{}, draw.Over)
	case ElementImage:
		if e.Image != nil {
			drawFitted(dst, rect, e.Image, e.Fit)
		}
	case ElementText:
		r.drawText(dst, rect, e)
	}
}

// drawFitted scales src into rect using the fit mode.
func drawFitted(dst draw.Image, rect image.Rectangle, src image.Image, fit ImageFit) {
	sb := src.Bounds()
	if sb.Empty() {
		return
	}
	dr, sr := fitRects(rect, sb, fit)
	if dr.Empty() || sr.Empty() {
		return
	}
	xdraw.CatmullRom.Scale(dst, dr, src, sr, xdraw.Over, nil)
}

func fitRects(box, src image.Rectangle, fit ImageFit) (dr, sr image.Rectangle) {
	bw, bh := float64(box.Dx()), float64(box.Dy())
	sw, sh := float64(src.Dx()), float64(src.Dy())
	switch fit {
	case FitStretch:
		return box, src
	case FitContain:
		scale := math.Min(bw/sw, bh/sh)
		w, h := int(math.Round(sw*scale)), int(math.Round(sh*scale))
		x := box.Min.X + (box.Dx()-w)/2
		y := box.Min.Y + (box.Dy()-h)/2
		return image.Rect(x, y, x+w, y+h), src
	default:
		scale := math.Max(bw/sw, bh/sh)
		w, h := int(math.Round(bw/scale)), int(math.Round(bh/scale))
		x := src.Min.X + (src.Dx()-w)/2
		y := src.Min.Y + (src.Dy()-h)/2
		return box, image.Rect(x, y, x+w, y+h)
	}
}

// --- Text rendering ---

type textRun struct {
	text      string
	face      font.Face
	color     color.NRGBA
	underline bool
	strike    bool
}

type textLine struct {
	runs   []textRun
	width  int
	height int
	ascent int
}

func buildTextLine(runs []textRun, fallback font.Face) textLine {
	line := textLine{runs: runs}
	faces := []font.Face{fallback}
	for _, run := range runs {
		line.width += font.MeasureString(run.face, run.text).Ceil()
		faces = append(faces, run.face)
	}
	for _, f := range faces {
		if f == nil {
			continue
		}
		m := f.Metrics()
		if h := m.Height.Ceil(); h > line.height {
			line.height = h
		}
		if a := m.Ascent.Ceil(); a > line.ascent {
			line.ascent = a
		}
	}
	if line.height <= 0 {
		line.height = 14
	}
	return line
}

func (r *renderer) face(st TextStyle) font.Face {
	size := st.FontSize * r.scaleY
	if size <= 0 {
		size = 16 * r.scaleY
	}
	if face := r.fonts.Face(st.FontFamily, size, st.Bold, st.Italic); face != nil {
		return face
	}
	return basicfont.Face7x13
}

// layoutText splits the element text into styled paragraphs and wraps every
// paragraph to width pixels.
func (r *renderer) layoutText(e Element, width int) []textLine {
	rt := &RichText{Text: e.Text, Spans: e.Spans}
	if len(rt.Spans) == 0 {
		rt = NewRichText(e.Text)
	} else {
		rt.normalize()
	}
	baseFace := r.face(e.Style)

	var lines []textLine
	var para []textRun
	flush := func() {
		line := buildTextLine(para, baseFace)
		if len(para) == 0 || line.width <= width || width <= 0 {
			lines = append(lines, line)
		} else {
			lines = append(lines, wrapRunLine(line, width, baseFace)...)
		}
		para = nil
	}
	for _, run := range rt.Runs() {
		st := e.Style.withAttrs(run.Attrs)
		if st.Color.IsZero() {
			st.Color = ColorBlack
		}
		face := r.face(st)
		for i, piece := range strings.Split(run.Text, "\n") {
			if i > 0 {
				flush()
			}
			if piece == "" {
				continue
			}
			para = append(para, textRun{
				text:      piece,
				face:      face,
				color:     st.Color.NRGBA(),
				underline: st.Underline,
				strike:    st.Strike,
			})
		}
	}
	flush()
	return lines
}

func (r *renderer) drawText(dst *image.RGBA, rect image.Rectangle, e Element) {
	lines := r.layoutText(e, rect.Dx())
	total := 0
	for _, l := range lines {
		total += l.height
	}

	curY := rect.Min.Y
	switch e.VAlign {
	case VerticalMiddle:
		curY += (rect.Dy() - total) / 2
	case VerticalBottom:
		curY += rect.Dy() - total
	}

	for i, line := range lines {
		// The first line is always drawn; later lines stop at the box edge.
		if i > 0 && curY >= rect.Max.Y {
			break
		}
		drawX := rect.Min.X
		switch e.Align {
		case HorizontalCenter:
			drawX += (rect.Dx() - line.width) / 2
		case HorizontalRight:
			drawX += rect.Dx() - line.width
		}
		baseline := curY + line.ascent
		for _, run := range line.runs {
			d := &font.Drawer{
				Dst:  dst,
				Src:  &image.Uniform{run.color},
				Face: run.face,
				Dot:  fixed.P(drawX, baseline),
			}
			d.DrawString(run.text)
			adv := font.MeasureString(run.face, run.text).Ceil()
			thick := max(1, run.face.Metrics().Height.Ceil()/16)
			if run.underline {
				y := baseline + thick
				draw.Draw(dst, image.Rect(drawX, y, drawX+adv, y+thick), &image.Uniform{run.color}, image.Point{}, draw.Over)
			}
			if run.strike {
				y := baseline - run.face.Metrics().Ascent.Ceil()*3/10
				draw.Draw(dst, image.Rect(drawX, y, drawX+adv, y+thick), &image.Uniform{run.color}, image.Point{}, draw.Over)
			}
			drawX += adv
		}
		curY += line.height
	}
}

// wrapRunLine wraps a line into lines that fit within maxWidth.
func wrapRunLine(line textLine, maxWidth int, fallback font.Face) []textLine {
	type styledWord struct {
		word string
		run  textRun
	}
	var words []styledWord
	for ri, run := range line.runs {
		fields := strings.Fields(run.text)
		// Whitespace at a run boundary still separates words.
		leading := ri > 0 && (strings.HasPrefix(run.text, " ") || strings.HasSuffix(line.runs[ri-1].text, " "))
		for i, w := range fields {
			if i > 0 || leading {
				w = " " + w
			}
			words = append(words, styledWord{word: w, run: run})
		}
	}
	if len(words) == 0 {
		return []textLine{line}
	}

	var result []textLine
	var cur []textRun
	curWidth := 0
	for _, sw := range words {
		ww := font.MeasureString(sw.run.face, sw.word).Ceil()
		if curWidth+ww > maxWidth && curWidth > 0 {
			result = append(result, buildTextLine(cur, fallback))
			cur = nil
			curWidth = 0
			sw.word = strings.TrimLeft(sw.word, " ")
			ww = font.MeasureString(sw.run.face, sw.word).Ceil()
		}
		run := sw.run
		run.text = sw.word
		// Merge consecutive words of the same run so decorations are
		// drawn continuously.
		if n := len(cur); n > 0 && sameStyle(cur[n-1], run) {
			cur[n-1].text += run.text
		} else {
			cur = append(cur, run)
		}
		curWidth += ww
	}
	if len(cur) > 0 {
		result = append(result, buildTextLine(cur, fallback))
	}
	return result
}

func sameStyle(a, b textRun) bool {
	return a.face == b.face && a.color == b.color && a.underline == b.underline && a.strike == b.strike
}

// EncodePNG encodes an image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG encodes an image as JPEG. Quality outside 1..100 selects
// DefaultJPEGQuality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
