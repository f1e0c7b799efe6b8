package slideshow

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Export types reported in Result.ExportType.
const (
	ExportTypePNG  = "PNG"
	ExportTypePDF  = "PDF"
	ExportTypePPTX = "PPTX"

	// ExportTypeEditablePPTX selects the native-shape PPTX export. Its
	// results report ExportTypePPTX.
	ExportTypeEditablePPTX = "PPTX-EDITABLE"
)

// ProgressFunc receives integer percentages in 0..100.
type ProgressFunc func(percent int)

// Result is the outcome of an export. Exporters never return Go errors;
// failures are reported through Success and Message.
type Result struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ExportType  string `json:"exportType"`
	// Warnings lists the indices of slides that were skipped.
	Warnings []int  `json:"warnings,omitempty"`
	Pages    int    `json:"pages,omitempty"`
	Data     []byte `json:"-"`
}

func failed(kind string, err error) Result {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrCancelled) {
		return Result{ExportType: kind, Message: kind + " export cancelled"}
	}
	return Result{ExportType: kind, Message: fmt.Sprintf("%s export failed: %v", kind, err)}
}

// Exporter assembles slides into PNG, PDF and PPTX artifacts.
type Exporter struct {
	Materializer *Materializer
	Rasterizer   Rasterizer
	Blobs        BlobStore
	Theme        string
	Logger       Logger
	Raster       RasterOptions
	// Now is used for generated filenames.
	Now func() time.Time

	progress ProgressFunc
}

// NewExporter creates an exporter. Nil arguments select the built-in theme
// registry with an HTTPAssetLoader, a NativeRasterizer over the system
// fonts and an in-memory blob store.
func NewExporter(m *Materializer, r Rasterizer, blobs BlobStore, logger Logger) *Exporter {
	if m == nil {
		m = NewMaterializer(logger)
	}
	if r == nil {
		r = NewNativeRasterizer(nil)
	}
	if blobs == nil {
		blobs = NewMemoryBlobStore("")
	}
	return &Exporter{
		Materializer: m,
		Rasterizer:   r,
		Blobs:        blobs,
		Theme:        DefaultThemeName,
		Logger:       logger,
		Now:          time.Now,
	}
}

// SetProgressCallback registers the progress callback used by later calls.
func (e *Exporter) SetProgressCallback(fn ProgressFunc) {
	e.progress = fn
}

// progressTracker never reports a value lower than one already reported.
type progressTracker struct {
	fn   ProgressFunc
	last int
}

func (e *Exporter) tracker() *progressTracker {
	return &progressTracker{fn: e.progress, last: -1}
}

func (p *progressTracker) report(v int) {
	v = min(max(v, 0), 100)
	if v < p.last {
		v = p.last
	}
	p.last = v
	if p.fn != nil {
		p.fn(v)
	}
}

func (e *Exporter) log() Logger {
	return loggerOrNop(e.Logger)
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Exporter) filename(name, base, ext string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return TimestampedFilename(base, ext, e.now())
	}
	if filepath.Ext(name) == "" {
		name += "." + ext
	}
	return name
}

// capture materializes and rasterizes one slide.
func (e *Exporter) capture(ctx context.Context, slide *Slide, index int) (*image.RGBA, error) {
	m := e.Materializer
	if m == nil {
		m = NewMaterializer(e.Logger)
	}
	surface, err := m.Materialize(ctx, slide, e.Theme, index)
	if err != nil {
		return nil, fmt.Errorf("materialize slide %d: %w", index, err)
	}
	defer surface.Cleanup()

	r := e.Rasterizer
	if r == nil {
		r = NewNativeRasterizer(nil)
	}
	img, err := r.Rasterize(ctx, surface, e.Raster)
	if err != nil {
		return nil, fmt.Errorf("rasterize slide %d: %w", index, err)
	}
	return img, nil
}

// batch captures every slide in order, handing each frame to add. Progress
// moves from 10 to 90 as slides are processed. A slide whose capture fails
// is skipped and recorded; an error from add is fatal.
func (e *Exporter) batch(ctx context.Context, kind string, slides []*Slide, tr *progressTracker, add func(i int, img *image.RGBA) error) ([]int, int, error) {
	var skipped []int
	added := 0
	n := len(slides)
	for i, s := range slides {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		img, err := e.capture(ctx, s, i)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, 0, ctx.Err()
		case err != nil:
			e.log().Logf("%s export: slide %d skipped: %v", kind, i, err)
			skipped = append(skipped, i)
		default:
			if err := add(i, img); err != nil {
				return nil, 0, fmt.Errorf("slide %d: %w", i, err)
			}
			added++
		}
		tr.report(10 + 80*(i+1)/n)
	}
	if added == 0 {
		return skipped, 0, fmt.Errorf("all %d slides failed to render", n)
	}
	return skipped, added, nil
}

func batchMessage(kind string, pages int, skipped []int) string {
	if len(skipped) == 0 {
		return fmt.Sprintf("%s with %d slides exported successfully!", kind, pages)
	}
	idx := make([]string, len(skipped))
	for i, s := range skipped {
		idx[i] = fmt.Sprint(s)
	}
	return fmt.Sprintf("%s with %d slides exported, %d skipped (slides %s)", kind, pages, len(skipped), strings.Join(idx, ", "))
}

// TimestampedFilename returns base_<UTC timestamp>.ext.
func TimestampedFilename(base, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", base, now.UTC().Format("2006-01-02T15-04-05"), strings.TrimPrefix(ext, "."))
}

// Blob is an artifact held by a BlobStore.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
	Created     time.Time
}

// BlobStore keeps export artifacts and mints download URLs for them.
type BlobStore interface {
	Put(name, contentType string, data []byte) (string, error)
	Get(url string) (Blob, bool)
}

// DefaultBlobPrefix is the URL prefix of an in-memory store.
const DefaultBlobPrefix = "blob:slideshow/"

// MemoryBlobStore is a BlobStore backed by a map. URLs are the prefix
// followed by a random id.
type MemoryBlobStore struct {
	mu     sync.RWMutex
	prefix string
	blobs  map[string]Blob
}

// NewMemoryBlobStore creates a store minting URLs with prefix; empty selects
// DefaultBlobPrefix.
func NewMemoryBlobStore(prefix string) *MemoryBlobStore {
	if prefix == "" {
		prefix = DefaultBlobPrefix
	}
	return &MemoryBlobStore{prefix: prefix, blobs: make(map[string]Blob)}
}

// Put stores data and returns its URL.
func (m *MemoryBlobStore) Put(name, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty artifact")
	}
	url := m.prefix + uuid.NewString()
	m.mu.Lock()
	m.blobs[url] = Blob{Name: name, ContentType: contentType, Data: data, Created: time.Now()}
	m.mu.Unlock()
	return url, nil
}

// Get returns the blob minted at url.
func (m *MemoryBlobStore) Get(url string) (Blob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[url]
	return b, ok
}

// Lookup returns the blob with the given id, the URL without its prefix.
func (m *MemoryBlobStore) Lookup(id string) (Blob, bool) {
	return m.Get(m.prefix + id)
}

// Revoke releases the blob at url.
func (m *MemoryBlobStore) Revoke(url string) {
	m.mu.Lock()
	delete(m.blobs, url)
	m.mu.Unlock()
}

// Prune drops blobs older than age and returns how many were removed.
func (m *MemoryBlobStore) Prune(age time.Duration) int {
	cutoff := time.Now().Add(-age)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for url, b := range m.blobs {
		if b.Created.Before(cutoff) {
			delete(m.blobs, url)
			n++
		}
	}
	return n
}
