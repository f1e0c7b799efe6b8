package slideshow

// decoration selects the ornament a theme paints behind its layouts.
type decoration int

const (
	decorNone decoration = iota
	decorBand
	decorSidebar
	decorFrame
	decorCorner
	decorGrid
)

type themeDef struct {
	name       string
	bg         string
	accent     string
	titleColor string
	titleFont  string
	bodyColor  string
	bodyFont   string
	authorCol  string
	decor      decoration
	layouts    []LayoutKind
}

var (
	layoutsClassic  = []LayoutKind{LayoutTitle, LayoutContent, LayoutImage}
	layoutsStandard = []LayoutKind{LayoutTitle, LayoutMain, LayoutImage, LayoutEnd}
)

// Theme catalog in display order. Font sizes follow the slide deck styles:
// title 36pt bold, paragraph 20pt, author 14pt (doubled into canvas pixels).
var themeCatalog = []themeDef{
	{"Classic Classroom", "F8F4E3", "8D6E63", "3B2F2F", "Arial Black", "3B2F2F", "Arial", "888888", decorFrame, layoutsClassic},
	{"STEM Modern", "E3F6FD", "1976D2", "0D47A1", "Calibri", "1976D2", "Calibri", "888888", decorBand, layoutsStandard},
	{"Playful Primary", "FFF9C4", "F57C00", "F57C00", "Comic Sans MS", "F57C00", "Comic Sans MS", "888888", decorCorner, layoutsStandard},
	{"Academic Minimal", "FFFFFF", "BDBDBD", "222222", "Arial", "333333", "Arial", "888888", decorNone, layoutsClassic},
	{"Scholarly Elegant", "F3E5F5", "AB47BC", "6A1B9A", "Georgia", "6A1B9A", "Georgia", "888888", decorFrame, layoutsStandard},
	{"Digital Chalkboard", "263238", "A5D6A7", "A5D6A7", "Courier New", "A5D6A7", "Courier New", "B0BEC5", decorFrame, layoutsStandard},
	{"Science Spectrum", "E0F7FA", "0288D1", "0288D1", "Trebuchet MS", "0288D1", "Trebuchet MS", "888888", decorBand, layoutsStandard},
	{"History Heritage", "FFF8E1", "BCA678", "BCA678", "Times New Roman", "BCA678", "Times New Roman", "888888", decorFrame,
		[]LayoutKind{LayoutTitle, LayoutTOC, LayoutMain, LayoutImage, LayoutEnd}},
	{"Art Studio", "F8BBD0", "6A1B9A", "6A1B9A", "Brush Script MT", "6A1B9A", "Brush Script MT", "888888", decorCorner,
		[]LayoutKind{LayoutTitle, LayoutTOC, LayoutMain, LayoutEnd}},
	{"Math Matrix", "E3F2FD", "1565C0", "1565C0", "Consolas", "1565C0", "Consolas", "888888", decorGrid, layoutsStandard},
	{"Language Lab", "FFE0B2", "E65100", "E65100", "Verdana", "E65100", "Verdana", "888888", decorSidebar, layoutsStandard},
	{"Tech Trends", "263238", "00B8D4", "00B8D4", "Arial", "00B8D4", "Arial", "B0BEC5", decorGrid, layoutsStandard},
	{"Research Ready", "F5F5F5", "263238", "263238", "Georgia", "263238", "Georgia", "888888", decorSidebar, layoutsStandard},
	{"Creative Canvas", "FFFDE7", "F06292", "F06292", "Comic Sans MS", "F06292", "Comic Sans MS", "888888", decorCorner, layoutsStandard},
	{"Youthful Yellow", "FFFDE7", "FBC02D", "FFEB3B", "Arial", "FBC02D", "Arial", "888888", decorBand, layoutsStandard},
	{"Calm Cyan", "E0F7FA", "00ACC1", "00ACC1", "Arial", "00ACC1", "Arial", "888888", decorSidebar,
		[]LayoutKind{LayoutTitle, LayoutMain, LayoutSection, LayoutColumns, LayoutSplit, LayoutEnd}},
	{"Scholar Green", "E8F5E9", "388E3C", "388E3C", "Arial", "388E3C", "Arial", "888888", decorBand, layoutsStandard},
	{"Vibrant Violet", "E1BEE7", "8E24AA", "8E24AA", "Arial", "8E24AA", "Arial", "888888", decorCorner, layoutsStandard},
	{"Orange Orbit", "FFE0B2", "FF6F00", "FF6F00", "Arial", "FF6F00", "Arial", "888888", decorCorner, layoutsStandard},
	{"Blue Horizon", "E3F2FD", "1976D2", "1976D2", "Arial", "1976D2", "Arial", "888888", decorBand,
		[]LayoutKind{LayoutTitle, LayoutMain, LayoutEnd}},
}

// The default theme mirrors Academic Minimal.
var defaultThemeDef = themeDef{
	DefaultThemeName, "FFFFFF", "BDBDBD", "222222", "Arial", "333333", "Arial", "888888", decorNone, layoutsClassic,
}

const (
	themeTitleSize     = 72
	themeParagraphSize = 40
	themeAuthorSize    = 28
)

func (ts themeDef) build() *Theme {
	style := ThemeStyle{
		Background: NewColor(ts.bg),
		Accent:     NewColor(ts.accent),
		Title:      TextStyle{FontFamily: ts.titleFont, FontSize: themeTitleSize, Bold: true, Color: NewColor(ts.titleColor)},
		Paragraph:  TextStyle{FontFamily: ts.bodyFont, FontSize: themeParagraphSize, Color: NewColor(ts.bodyColor)},
		Author:     TextStyle{FontFamily: ts.bodyFont, FontSize: themeAuthorSize, Color: NewColor(ts.authorCol)},
	}
	t := &Theme{Name: ts.name, Style: style, Layouts: make(map[LayoutKind]LayoutFunc, len(ts.layouts))}
	for _, k := range ts.layouts {
		if fn := layoutFor(k, ts.decor); fn != nil {
			t.Layouts[k] = fn
		}
	}
	return t
}

func builtinThemes() []*Theme {
	out := make([]*Theme, 0, len(themeCatalog)+1)
	out = append(out, defaultThemeDef.build())
	for _, ts := range themeCatalog {
		out = append(out, ts.build())
	}
	return out
}

// unstyledTheme is used when a registry holds no default theme.
var unstyledTheme = &Theme{
	Name: DefaultThemeName,
	Style: ThemeStyle{
		Background: ColorWhite,
		Accent:     NewColor("BDBDBD"),
		Title:      TextStyle{FontFamily: "Arial", FontSize: themeTitleSize, Bold: true, Color: NewColor("222222")},
		Paragraph:  TextStyle{FontFamily: "Arial", FontSize: themeParagraphSize, Color: NewColor("333333")},
		Author:     TextStyle{FontFamily: "Arial", FontSize: themeAuthorSize, Color: NewColor("888888")},
	},
	Layouts: map[LayoutKind]LayoutFunc{},
}
