package slideshow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"image"
	"image/draw"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// ChromeRasterizer renders surfaces in headless Chrome. Every image is
// inlined as a data URI, so the captured page never reads cross-origin
// pixels.
type ChromeRasterizer struct {
	// ExecPath overrides the browser binary; empty lets chromedp find it.
	ExecPath string
	Timeout  time.Duration

	mu         sync.Mutex
	browserCtx context.Context
	cancel     context.CancelFunc
}

// ErrChromeUnavailable is returned when no browser binary can be found.
var ErrChromeUnavailable = errors.New("chrome not available")

var chromeNames = []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell"}

// FindChrome returns the path of an installed Chrome or Chromium binary.
func FindChrome() (string, error) {
	for _, name := range chromeNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrChromeUnavailable
}

// NewChromeRasterizer returns a rasterizer using the browser at execPath.
func NewChromeRasterizer(execPath string) *ChromeRasterizer {
	return &ChromeRasterizer{ExecPath: execPath, Timeout: 30 * time.Second}
}

func (c *ChromeRasterizer) browser() (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.browserCtx != nil && c.browserCtx.Err() == nil {
		return c.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Headless,
		chromedp.DisableGPU,
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	c.browserCtx = browserCtx
	c.cancel = func() {
		browserCancel()
		allocCancel()
	}
	return browserCtx, nil
}

// Close shuts the browser down.
func (c *ChromeRasterizer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
		c.browserCtx = nil
	}
}

const awaitImagesJS = `Promise.all(Array.from(document.images).map(function (i) {
	return i.complete ? 0 : new Promise(function (r) { i.onload = i.onerror = r; });
}))`

// Rasterize loads the surface as a page at the target viewport and captures
// a screenshot.
func (c *ChromeRasterizer) Rasterize(ctx context.Context, s *Surface, opts RasterOptions) (*image.RGBA, error) {
	if s == nil {
		return nil, fmt.Errorf("rasterize: nil surface")
	}
	doc, err := SurfaceHTML(s, opts)
	if err != nil {
		return nil, err
	}
	browserCtx, err := c.browser()
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	w, h := opts.size()
	var shot []byte
	err = chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(w), int64(h)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.Evaluate(awaitImagesJS, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.CaptureScreenshot(&shot),
	)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("chrome capture: %w", err)
	}

	decoded, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	if rgba, ok := decoded.(*image.RGBA); ok {
		return rgba, nil
	}
	out := image.NewRGBA(decoded.Bounds())
	draw.Draw(out, out.Bounds(), decoded, decoded.Bounds().Min, draw.Src)
	return out, nil
}

// SurfaceHTML serialises a surface as a standalone page of absolutely
// positioned elements scaled to the output size.
func SurfaceHTML(s *Surface, opts RasterOptions) (string, error) {
	w, h := opts.size()
	bg := s.Background
	if bg.IsZero() {
		bg = ColorWhite
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>`)
	b.WriteString(`html,body{margin:0;padding:0;overflow:hidden}`)
	b.WriteString(`.el{position:absolute;box-sizing:border-box;transform-origin:center center}`)
	b.WriteString(`.txt{display:flex;flex-direction:column;white-space:pre-wrap;overflow-wrap:break-word}`)
	b.WriteString(`</style></head><body>`)
	fmt.Fprintf(&b, `<div style="position:relative;width:%dpx;height:%dpx;overflow:hidden">`, w, h)
	fmt.Fprintf(&b, `<div style="position:absolute;left:0;top:0;width:%gpx;height:%gpx;background:%s;transform-origin:0 0;transform:scale(%s,%s)">`,
		CanvasWidth, CanvasHeight, bg.CSS(), ftoa(float64(w)/CanvasWidth), ftoa(float64(h)/CanvasHeight))

	for _, e := range s.Elements {
		if e.Hidden {
			continue
		}
		box := fmt.Sprintf("left:%spx;top:%spx;width:%spx;height:%spx;", ftoa(e.Box.X), ftoa(e.Box.Y), ftoa(e.Box.W), ftoa(e.Box.H))
		if e.Rotation != 0 {
			box += "transform:rotate(" + ftoa(e.Rotation) + "deg);"
		}
		switch e.Kind {
		case ElementRect:
			fmt.Fprintf(&b, `<div class="el" style="%sbackground:%s"></div>`, box, e.Fill.CSS())
		case ElementImage:
			if e.Image == nil {
				continue
			}
			data, err := EncodePNG(e.Image)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, `<img class="el" style="%sobject-fit:%s" src="%s">`, box, cssFit(e.Fit), DataURI("image/png", data))
		case ElementText:
			fmt.Fprintf(&b, `<div class="el txt" style="%s%s">`, box, textCSS(e))
			b.WriteString(`<div>`)
			writeRunsHTML(&b, e)
			b.WriteString(`</div></div>`)
		}
	}
	b.WriteString(`</div></div></body></html>`)
	return b.String(), nil
}

func writeRunsHTML(b *strings.Builder, e Element) {
	rt := &RichText{Text: e.Text, Spans: e.Spans}
	if len(rt.Spans) == 0 {
		rt = NewRichText(e.Text)
	} else {
		rt.normalize()
	}
	for _, run := range rt.Runs() {
		var style []string
		a := run.Attrs
		if a.Bold {
			style = append(style, "font-weight:bold")
		}
		if a.Italic {
			style = append(style, "font-style:italic")
		}
		if deco := textDecorationCSS(a.Underline, a.Strike); deco != "" {
			style = append(style, "text-decoration:"+deco)
		}
		if col, ok := ParseColor(a.Color); ok {
			style = append(style, "color:"+col.CSS())
		}
		if a.FontSize > 0 {
			style = append(style, "font-size:"+ftoa(a.FontSize)+"px")
		}
		if a.FontFamily != "" {
			style = append(style, "font-family:"+cssFamily(a.FontFamily))
		}
		text := html.EscapeString(run.Text)
		if len(style) == 0 {
			b.WriteString(text)
			continue
		}
		fmt.Fprintf(b, `<span style="%s">%s</span>`, strings.Join(style, ";"), text)
	}
}

func textCSS(e Element) string {
	st := e.Style
	col := st.Color
	if col.IsZero() {
		col = ColorBlack
	}
	parts := []string{
		"font-family:" + cssFamily(st.FontFamily),
		"font-size:" + ftoa(st.FontSize) + "px",
		"color:" + col.CSS(),
		"text-align:" + cssAlign(e.Align),
		"justify-content:" + cssVAlign(e.VAlign),
	}
	if st.Bold {
		parts = append(parts, "font-weight:bold")
	}
	if st.Italic {
		parts = append(parts, "font-style:italic")
	}
	if deco := textDecorationCSS(st.Underline, st.Strike); deco != "" {
		parts = append(parts, "text-decoration:"+deco)
	}
	return strings.Join(parts, ";")
}

func textDecorationCSS(underline, strike bool) string {
	switch {
	case underline && strike:
		return "underline line-through"
	case underline:
		return "underline"
	case strike:
		return "line-through"
	}
	return ""
}

func cssFamily(name string) string {
	if name == "" {
		return "sans-serif"
	}
	return "'" + strings.ReplaceAll(html.EscapeString(name), "'", "") + "',sans-serif"
}

func cssAlign(a HorizontalAlignment) string {
	switch a {
	case HorizontalCenter:
		return "center"
	case HorizontalRight:
		return "right"
	}
	return "left"
}

func cssVAlign(a VerticalAlignment) string {
	switch a {
	case VerticalMiddle:
		return "center"
	case VerticalBottom:
		return "flex-end"
	}
	return "flex-start"
}

func cssFit(f ImageFit) string {
	switch f {
	case FitContain:
		return "contain"
	case FitStretch:
		return "fill"
	}
	return "cover"
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
