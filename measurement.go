package slideshow

import "math"

// Logical canvas in which every component position is expressed.
const (
	CanvasWidth  = 1920.0
	CanvasHeight = 1080.0
)

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU.
const (
	emuPerInch  = 914400
	emuPerPoint = 12700

	// 16:9 slide size used by every PPTX export.
	slideWidthEMU  = 12192000
	slideHeightEMU = 6858000

	// emuPerPixel maps one logical canvas pixel onto the 16:9 slide.
	emuPerPixel = slideWidthEMU / 1920

	maxEMU = math.MaxInt64 / 2
)

// Inch converts inches to EMU.
func Inch(n float64) int64 {
	return clampEMU(n * emuPerInch)
}

// Point converts points to EMU.
func Point(n float64) int64 {
	return clampEMU(n * emuPerPoint)
}

// PixelToEMU converts a logical canvas length to EMU.
func PixelToEMU(px float64) int64 {
	return clampEMU(px * emuPerPixel)
}

// EMUToPixel converts EMU to logical canvas pixels.
func EMUToPixel(emu int64) float64 {
	return float64(emu) / emuPerPixel
}

// pixelToPoint converts a logical canvas length to typographic points. The
// 1920 pixel canvas spans a 13.333 inch slide, so one pixel is half a point.
func pixelToPoint(px float64) float64 {
	return px * emuPerPixel / emuPerPoint
}

func clampEMU(v float64) int64 {
	if v > float64(maxEMU) {
		return maxEMU
	}
	if v < -float64(maxEMU) {
		return -maxEMU
	}
	return int64(v)
}

// Rect is an axis-aligned box in logical canvas pixels.
type Rect struct {
	X, Y, W, H float64
}

// Scale maps the box onto an output of width by height pixels.
func (r Rect) Scale(width, height int) (x0, y0, x1, y1 int) {
	sx := float64(width) / CanvasWidth
	sy := float64(height) / CanvasHeight
	x0 = int(math.Round(r.X * sx))
	y0 = int(math.Round(r.Y * sy))
	x1 = int(math.Round((r.X + r.W) * sx))
	y1 = int(math.Round((r.Y + r.H) * sy))
	return
}

// Inset shrinks the box by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: math.Max(0, r.W-2*d), H: math.Max(0, r.H-2*d)}
}
