package slideshow

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

type fontKey struct {
	name   string
	size   float64
	bold   bool
	italic bool
}

// FontCache loads TrueType and OpenType fonts from font directories and
// caches the faces built from them. The Go fonts are always registered so
// text renders identically on hosts without system fonts.
type FontCache struct {
	mu      sync.RWMutex
	dirs    []string
	fonts   map[string]*opentype.Font
	faces   map[fontKey]font.Face
	scanned bool
	// SkipSystem limits scanning to the extra directories.
	SkipSystem bool
}

// NewFontCache creates a FontCache that searches extraDirs plus the OS
// font directories.
func NewFontCache(extraDirs ...string) *FontCache {
	fc := &FontCache{
		dirs:  append(systemFontDirs(), extraDirs...),
		fonts: make(map[string]*opentype.Font),
		faces: make(map[fontKey]font.Face),
	}
	fc.registerGoFonts()
	return fc
}

// NewIsolatedFontCache creates a FontCache holding only the Go fonts plus
// fonts from dirs. Output does not depend on the host.
func NewIsolatedFontCache(dirs ...string) *FontCache {
	fc := &FontCache{
		dirs:       dirs,
		fonts:      make(map[string]*opentype.Font),
		faces:      make(map[fontKey]font.Face),
		SkipSystem: true,
	}
	fc.registerGoFonts()
	return fc
}

const fallbackFamily = "go"

func (fc *FontCache) registerGoFonts() {
	variants := []struct {
		suffix string
		data   []byte
	}{
		{"", goregular.TTF},
		{" bold", gobold.TTF},
		{" italic", goitalic.TTF},
		{" bold italic", gobolditalic.TTF},
	}
	for _, v := range variants {
		if f, err := opentype.Parse(v.data); err == nil {
			fc.fonts[fallbackFamily+v.suffix] = f
		}
	}
}

// Face returns a face for the style at the given pixel size. Unknown
// families fall back to common sans fonts and finally to the Go fonts, so
// the result is never nil.
func (fc *FontCache) Face(family string, sizePx float64, bold, italic bool) font.Face {
	if sizePx <= 0 {
		sizePx = 16
	}
	for _, name := range append([]string{family}, "arial", "helvetica", "liberation sans", "dejavu sans", fallbackFamily) {
		if name == "" {
			continue
		}
		if face := fc.GetFace(name, sizePx, bold, italic); face != nil {
			return face
		}
	}
	return nil
}

// GetFace returns a face for the named font, or nil when no such font is
// known. Size is in pixels at 72 DPI, so one unit maps to one output pixel.
func (fc *FontCache) GetFace(name string, size float64, bold, italic bool) font.Face {
	fc.ensureScanned()

	key := fontKey{name: strings.ToLower(name), size: size, bold: bold, italic: italic}
	fc.mu.RLock()
	face, ok := fc.faces[key]
	fc.mu.RUnlock()
	if ok {
		return face
	}

	f := fc.findFont(key.name, bold, italic)
	if f == nil {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}

	fc.mu.Lock()
	if existing, ok := fc.faces[key]; ok {
		face = existing
	} else {
		fc.faces[key] = face
	}
	fc.mu.Unlock()
	return face
}

var (
	boldItalicSuffixes = []string{" bold italic", "bi", " bolditalic", "z"}
	boldSuffixes       = []string{" bold", "bd", "b"}
	italicSuffixes     = []string{" italic", "i", " it"}
)

// findFont resolves a lowercase family name, preferring style variants
// (Windows names them "arialbd", "arialbi").
func (fc *FontCache) findFont(lower string, bold, italic bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if f := fc.lookupLocked(lower, bold, italic); f != nil {
		return f
	}
	if alias, ok := fontAliases[lower]; ok {
		return fc.lookupLocked(alias, bold, italic)
	}
	return nil
}

func (fc *FontCache) lookupLocked(lower string, bold, italic bool) *opentype.Font {
	var groups [][]string
	switch {
	case bold && italic:
		groups = [][]string{boldItalicSuffixes, boldSuffixes, italicSuffixes}
	case bold:
		groups = [][]string{boldSuffixes}
	case italic:
		groups = [][]string{italicSuffixes}
	}
	for _, suffixes := range groups {
		for _, suffix := range suffixes {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if f, ok := fc.fonts[lower]; ok {
		return f
	}
	return nil
}

// LoadFont loads a font file and registers it under name.
func (fc *FontCache) LoadFont(name string, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFontFileSize {
		return fmt.Errorf("font file too large: %d bytes (max %d)", info.Size(), maxFontFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return fc.LoadFontData(name, data)
}

// LoadFontData registers a font from raw bytes.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return err
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerByFamilyName(f)
	for k := range fc.faces {
		if k.name == strings.ToLower(name) {
			delete(fc.faces, k)
		}
	}
	fc.mu.Unlock()
	return nil
}

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true
	dirs := fc.dirs
	if fc.SkipSystem {
		dirs = fc.dirs[:0:0]
		for _, d := range fc.dirs {
			if !isSystemFontDir(d) {
				dirs = append(dirs, d)
			}
		}
	}
	for _, dir := range dirs {
		fc.scanDir(dir, 0)
	}
}

const (
	maxFontScanDepth = 3
	maxFontFileSize  = 20 << 20 // 20 MB
)

func (fc *FontCache) scanDir(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			fc.scanDir(filepath.Join(dir, entry.Name()), depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		ext := filepath.Ext(lower)
		if ext != ".ttf" && ext != ".otf" && ext != ".ttc" && ext != ".otc" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		base := strings.TrimSuffix(lower, ext)
		if ext == ".ttc" || ext == ".otc" {
			fc.loadCollection(data, base)
		} else if f, err := opentype.Parse(data); err == nil {
			fc.fonts[base] = f
			fc.registerByFamilyName(f)
		}
	}
}

func (fc *FontCache) loadCollection(data []byte, base string) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if i == 0 {
			fc.fonts[base] = f
		}
		fc.registerByFamilyName(f)
	}
}

// fontAliases maps theme font names to metric-compatible families commonly
// installed on Linux.
var fontAliases = map[string]string{
	"arial":           "liberation sans",
	"arial black":     "dejavu sans",
	"calibri":         "carlito",
	"times new roman": "liberation serif",
	"georgia":         "dejavu serif",
	"courier new":     "liberation mono",
	"consolas":        "dejavu sans mono",
	"verdana":         "dejavu sans",
	"trebuchet ms":    "dejavu sans",
	"comic sans ms":   "comic neue",
	"brush script mt": "dejavu serif",
}

func (fc *FontCache) registerByFamilyName(f *opentype.Font) {
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		fc.fonts[strings.ToLower(name)] = f
	}
	if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		fc.fonts[strings.ToLower(name)] = f
	}
}

func isSystemFontDir(dir string) bool {
	for _, d := range systemFontDirs() {
		if d == dir {
			return true
		}
	}
	return false
}

func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
