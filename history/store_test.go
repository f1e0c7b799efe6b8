package history

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	slideshow "github.com/VantageDataChat/GoSlideshow"
)

// setupTestStore opens a store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSlides() []*slideshow.Slide {
	s := slideshow.NewSlide()
	s.Components = append(s.Components, slideshow.Component{ID: "t", Type: slideshow.ComponentTitle, Content: "Photosynthesis"})
	return []*slideshow.Slide{s}
}

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("query migrations: %v", err)
	}
	if count != len(Migrations()) {
		t.Errorf("Expected %d migrations, got %d", len(Migrations()), count)
	}
}

func TestAddListNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, name := range []string{"first.pdf", "second.pdf", "third.pdf"} {
		_, err := s.Add(ctx, "user123", Record{
			Filename:     name,
			TemplateName: "Blue Horizon",
			Slides:       sampleSlides(),
			GeneratedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Add %s: %v", name, err)
		}
	}
	if _, err := s.Add(ctx, "other", Record{Filename: "x.pdf"}); err != nil {
		t.Fatalf("Add other: %v", err)
	}

	recs, err := s.List(ctx, "user123")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(recs))
	}
	if recs[0].Filename != "third.pdf" || recs[2].Filename != "first.pdf" {
		t.Errorf("records not newest first: %s, %s, %s", recs[0].Filename, recs[1].Filename, recs[2].Filename)
	}
	if len(recs[0].Slides) != 1 || recs[0].Slides[0].Components[0].Content != "Photosynthesis" {
		t.Errorf("slides not round-tripped: %+v", recs[0].Slides)
	}
}

func TestRenameAndDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	rec, err := s.Add(ctx, "u", Record{Filename: "a.pdf", Slides: sampleSlides()})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.Rename(ctx, "u", rec.ID, "renamed.pdf"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	got, err := s.Get(ctx, "u", rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Filename != "renamed.pdf" {
		t.Errorf("Filename = %q", got.Filename)
	}

	// Another user cannot touch the record.
	if err := s.Delete(ctx, "intruder", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by other user = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "u", rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "u", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := s.Rename(ctx, "u", rec.ID, "x.pdf"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rename after delete = %v, want ErrNotFound", err)
	}
}

func TestEmptyUserRejected(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	if _, err := s.Add(ctx, "", Record{Filename: "a.pdf"}); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("Add = %v", err)
	}
	if _, err := s.List(ctx, ""); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("List = %v", err)
	}
}

func TestShareLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	sh, err := s.Share(ctx, Share{Slides: sampleSlides(), Author: "Ada"})
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-z]+-[0-9a-z]{6}$`).MatchString(sh.ID) {
		t.Errorf("unexpected share id %q", sh.ID)
	}
	if !strings.HasPrefix(sh.ID, "loyw3v28-") {
		t.Errorf("id prefix is not base36 millis: %q", sh.ID)
	}
	if sh.Title != DefaultShareTitle || sh.Theme != DefaultShareTheme || sh.SlideCount != 1 {
		t.Errorf("defaults not applied: %+v", sh)
	}

	for want := 1; want <= 2; want++ {
		got, err := s.GetShare(ctx, sh.ID)
		if err != nil {
			t.Fatalf("GetShare: %v", err)
		}
		if got.Views != want {
			t.Errorf("Views = %d, want %d", got.Views, want)
		}
		if got.Author != "Ada" || len(got.Slides) != 1 {
			t.Errorf("share not round-tripped: %+v", got)
		}
	}

	if _, err := s.GetShare(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetShare(missing) = %v", err)
	}
	list, err := s.ListShares(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListShares = %v, %v", list, err)
	}
}

func TestShareRequiresSlides(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.Share(context.Background(), Share{Title: "Empty"}); err == nil {
		t.Error("expected error for share without slides")
	}
}

func TestShareURL(t *testing.T) {
	if got := ShareURL("https://slides.example.com/", "abc-123456"); got != "https://slides.example.com/slideshow/abc-123456" {
		t.Errorf("ShareURL = %q", got)
	}
}

func TestRollback(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Rollback(2); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if err := s.Rollback(2); err == nil {
		t.Error("expected error rolling back an unapplied migration")
	}
	if err := s.Rollback(99); err == nil {
		t.Error("expected error for unknown version")
	}
}
