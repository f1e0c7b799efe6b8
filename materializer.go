package slideshow

import (
	"context"
	"fmt"
	"image"
	"sync"
)

// Logger is the logging surface used by the library. A nil Logger discards
// output.
type Logger interface {
	Logf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...interface{}) {}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}

// Materializer turns a slide and a theme into a fully loaded surface.
type Materializer struct {
	Registry *Registry
	Assets   AssetLoader
	Logger   Logger
}

// NewMaterializer returns a materializer over the built-in themes that loads
// assets with an HTTPAssetLoader.
func NewMaterializer(logger Logger) *Materializer {
	return &Materializer{
		Registry: DefaultRegistry(),
		Assets:   NewHTTPAssetLoader(),
		Logger:   logger,
	}
}

// Materialize renders the slide at index in the named theme and resolves
// every image it references. It returns once all asset loads have settled.
// Failed assets are hidden; only cancellation of ctx aborts.
func (m *Materializer) Materialize(ctx context.Context, slide *Slide, themeName string, index int) (*Surface, error) {
	if slide == nil {
		return nil, fmt.Errorf("materialize slide %d: nil slide", index)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reg := m.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	tree, sel := reg.Render(index, slide, themeName)

	s := &Surface{
		Width:      int(CanvasWidth),
		Height:     int(CanvasHeight),
		Background: tree.Background,
		Selection:  sel,
		Elements:   append([]Element(nil), tree.Elements...),
	}
	if err := m.loadImages(ctx, s, slide.ID); err != nil {
		s.Cleanup()
		return nil, err
	}
	return s, nil
}

func (m *Materializer) loadImages(ctx context.Context, s *Surface, slideID string) error {
	log := loggerOrNop(m.Logger)
	var pending []int
	for i, e := range s.Elements {
		if e.Kind == ElementImage {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	if m.Assets == nil {
		for _, i := range pending {
			s.Elements[i].Hidden = true
		}
		log.Logf("slide %s: no asset loader, %d image(s) hidden", slideID, len(pending))
		return nil
	}

	type loaded struct {
		index int
		img   image.Image
		err   error
	}
	results := make([]loaded, len(pending))
	var wg sync.WaitGroup
	for n, i := range pending {
		wg.Add(1)
		go func(n, i int) {
			defer wg.Done()
			img, err := m.Assets.Load(ctx, s.Elements[i].Source)
			results[n] = loaded{index: i, img: img, err: err}
		}(n, i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, r := range results {
		e := &s.Elements[r.index]
		if r.err != nil || r.img == nil {
			e.Hidden = true
			log.Logf("slide %s: image %s hidden: %v", slideID, truncate(e.Source, 64), r.err)
			continue
		}
		e.Image = r.img
	}
	return nil
}
