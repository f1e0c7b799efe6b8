package slideshow

import (
	"fmt"
	"strings"
)

// layoutFor returns the layout function of kind decorated with d.
func layoutFor(kind LayoutKind, d decoration) LayoutFunc {
	var body func(t *Tree, in LayoutInput, st ThemeStyle)
	switch kind {
	case LayoutTitle:
		body = drawTitleLayout
	case LayoutTOC:
		body = drawTOCLayout
	case LayoutEnd:
		body = drawEndLayout
	case LayoutMain:
		body = drawMainLayout
	case LayoutContent:
		body = drawContentLayout
	case LayoutImage:
		body = drawImageLayout
	case LayoutSection:
		body = drawSectionLayout
	case LayoutColumns:
		body = drawColumnsLayout
	case LayoutSplit:
		body = drawSplitLayout
	default:
		return nil
	}
	return func(in LayoutInput, st ThemeStyle) *Tree {
		t := &Tree{Background: st.Background}
		drawDecoration(t, d, st)
		body(t, in, st)
		return t
	}
}

// unstyledLayout draws a plain title and paragraph block.
func unstyledLayout(in LayoutInput, st ThemeStyle) *Tree {
	t := &Tree{Background: ColorWhite}
	title := TextStyle{FontFamily: "Arial", FontSize: themeTitleSize, Bold: true, Color: ColorBlack}
	body := TextStyle{FontFamily: "Arial", FontSize: themeParagraphSize, Color: ColorBlack}
	t.Text(Rect{X: 120, Y: 120, W: 1680, H: 160}, in.Title, title, HorizontalLeft, VerticalTop)
	t.Text(Rect{X: 120, Y: 320, W: 1680, H: 640}, in.Subtitle, body, HorizontalLeft, VerticalTop)
	return t
}

func drawDecoration(t *Tree, d decoration, st ThemeStyle) {
	accent := st.Accent
	switch d {
	case decorBand:
		t.Rect(Rect{W: CanvasWidth, H: 24}, accent)
		t.Rect(Rect{Y: CanvasHeight - 24, W: CanvasWidth, H: 24}, accent)
	case decorSidebar:
		t.Rect(Rect{W: 48, H: CanvasHeight}, accent)
	case decorFrame:
		const b = 16
		t.Rect(Rect{X: 40, Y: 40, W: CanvasWidth - 80, H: b}, accent)
		t.Rect(Rect{X: 40, Y: CanvasHeight - 40 - b, W: CanvasWidth - 80, H: b}, accent)
		t.Rect(Rect{X: 40, Y: 40, W: b, H: CanvasHeight - 80}, accent)
		t.Rect(Rect{X: CanvasWidth - 40 - b, Y: 40, W: b, H: CanvasHeight - 80}, accent)
	case decorCorner:
		t.Rect(Rect{W: 240, H: 240}, accent)
		t.Rect(Rect{X: CanvasWidth - 160, Y: CanvasHeight - 160, W: 160, H: 160}, accent)
	case decorGrid:
		for x := 160.0; x < CanvasWidth; x += 160 {
			t.Rect(Rect{X: x, W: 2, H: CanvasHeight}, withAlpha(accent, 0x30))
		}
		for y := 120.0; y < CanvasHeight; y += 120 {
			t.Rect(Rect{Y: y, W: CanvasWidth, H: 2}, withAlpha(accent, 0x30))
		}
	}
}

func withAlpha(c Color, a uint8) Color {
	v := c.NRGBA()
	v.A = a
	return FromNRGBA(v)
}

func drawTitleLayout(t *Tree, in LayoutInput, st ThemeStyle) {
	textBox := Rect{X: 160, Y: 300, W: 1600, H: 200}
	subBox := Rect{X: 160, Y: 540, W: 1600, H: 200}
	if in.Image != "" {
		t.Image(Rect{X: 1080, Y: 180, W: 680, H: 720}, in.Image)
		textBox.W, subBox.W = 860, 860
	}
	align := HorizontalCenter
	if in.Image != "" {
		align = HorizontalLeft
	}
	t.Text(textBox, in.Title, st.Title.WithSize(themeTitleSize*1.5), align, VerticalBottom)
	t.Rect(Rect{X: textBox.X + textBox.W/2 - 120, Y: 516, W: 240, H: 8}, st.Accent)
	t.Text(subBox, in.Subtitle, st.Paragraph, align, VerticalTop)
	if in.Author != "" {
		t.Text(Rect{X: 1120, Y: 940, W: 640, H: 60}, in.Author, st.Author, HorizontalRight, VerticalBottom)
	}
}

func drawMainLayout(t *Tree, in LayoutInput, st ThemeStyle) {
	t.Text(Rect{X: 140, Y: 100, W: 1640, H: 140}, in.Title, st.Title, HorizontalLeft, VerticalBottom)
	t.Rect(Rect{X: 140, Y: 256, W: 320, H: 8}, st.Accent)
	t.Text(Rect{X: 140, Y: 320, W: 1640, H: 660}, in.Subtitle, st.Paragraph, HorizontalLeft, VerticalTop)
}

func drawContentLayout(t *Tree, in LayoutInput, st ThemeStyle) {
	t.Text(Rect{X: 140, Y: 90, W: 1640, H: 140}, in.Title, st.Title, HorizontalCenter, VerticalBottom)
	t.Rect(Rect{X: 140, Y: 280, W: 1640, H: 700}, withAlpha(st.Accent, 0x22))
	t.Text(Rect{X: 200, Y: 330, W: 1520, H: 600}, in.Subtitle, st.Paragraph, HorizontalLeft, VerticalTop)
}

func drawImageLayout(t *Tree, in LayoutInput, st ThemeStyle) {
	t.Text(Rect{X: 140, Y: 60, W: 1640, H: 140}, in.Title, st.Title, HorizontalCenter, VerticalBottom)
	t.Image(Rect{X: 260, Y: 240, W: 1400, H: 560}, in.Image)
	t.Text(Rect{X: 260, Y: 830, W: 1400, H: 180}, in.Subtitle, st.Paragraph, HorizontalCenter, VerticalTop)
}

func drawTOCLayout(t *Tree, in LayoutInput, st ThemeStyle) {
	heading := in.TOCHeading
	if heading == "" {
		heading = DefaultTOCTitle
	}
	t.Text(Rect{X: 140, Y: 80, W: 1640, H: 140}, heading, st.Title, HorizontalLeft, VerticalBottom)
	t.Rect(Rect{X: 140, Y: 236, W: 320, H: 8}, st.Accent)

	perColumn := len(in.TOCItems)
	columns := 1
	if perColumn > 6 {
		columns = 2
		perColumn = (perColumn + 1) / 2
	}
	colW := 1640.0 / float64(columns)
	for i, item := range in.TOCItems {
		col, row := i/perColumn, i%perColumn
		box := Rect{X: 140 + float64(col)*colW, Y: 290 + float64(row)*110, W: colW - 40, H: 100}
		t.Text(box, fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(item)), st.Paragraph, HorizontalLeft, VerticalTop)
	}
}

func drawEndLayout(t *Tree, in LayoutInput, st ThemeStyle) {
	t.Text(Rect{X: 160, Y: 340, W: 1600, H: 220}, in.Title, st.Title.WithSize(themeTitleSize*1.5), HorizontalCenter, VerticalBottom)
	t.Text(Rect{X: 160, Y: 600, W: 1600, H: 160}, in.Subtitle, st.Paragraph, HorizontalCenter, VerticalTop)
}

func drawSectionLayout(t *Tree, in LayoutInput, st ThemeStyle) {
	t.Rect(Rect{X: 0, Y: 400, W: 24, H: 280}, st.Accent)
	t.Text(Rect{X: 160, Y: 380, W: 1600, H: 200}, in.Title, st.Title.WithSize(themeTitleSize*1.25), HorizontalLeft, VerticalMiddle)
	t.Text(Rect{X: 160, Y: 600, W: 1600, H: 120}, in.Subtitle, st.Paragraph, HorizontalLeft, VerticalTop)
}

func drawColumnsLayout(t *Tree, in LayoutInput, st ThemeStyle) {
	t.Text(Rect{X: 140, Y: 90, W: 1640, H: 140}, in.Title, st.Title, HorizontalLeft, VerticalBottom)
	left, right := splitColumns(in.Subtitle)
	t.Text(Rect{X: 140, Y: 300, W: 780, H: 680}, left, st.Paragraph, HorizontalLeft, VerticalTop)
	t.Rect(Rect{X: 956, Y: 300, W: 8, H: 680}, st.Accent)
	t.Text(Rect{X: 1000, Y: 300, W: 780, H: 680}, right, st.Paragraph, HorizontalLeft, VerticalTop)
}

func drawSplitLayout(t *Tree, in LayoutInput, st ThemeStyle) {
	half := Rect{W: CanvasWidth / 2, H: CanvasHeight}
	t.Rect(half, st.Accent)
	t.Image(half, in.Image)
	t.Text(Rect{X: 1040, Y: 200, W: 760, H: 200}, in.Title, st.Title, HorizontalLeft, VerticalBottom)
	t.Text(Rect{X: 1040, Y: 440, W: 760, H: 540}, in.Subtitle, st.Paragraph, HorizontalLeft, VerticalTop)
}

// splitColumns divides text at the paragraph or sentence boundary nearest
// its middle.
func splitColumns(text string) (string, string) {
	if paras := strings.Split(text, "\n"); len(paras) > 1 {
		mid := (len(paras) + 1) / 2
		return strings.Join(paras[:mid], "\n"), strings.Join(paras[mid:], "\n")
	}
	words := strings.Fields(text)
	if len(words) < 2 {
		return text, ""
	}
	mid := len(words) / 2
	for i := mid; i < len(words); i++ {
		if strings.HasSuffix(words[i-1], ".") {
			mid = i
			break
		}
	}
	return strings.Join(words[:mid], " "), strings.Join(words[mid:], " ")
}
