package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	slideshow "github.com/VantageDataChat/GoSlideshow"
)

// run executes the root command with a private config file.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfg := map[string]interface{}{
		"dataDir": dir,
		"tocURL":  "http://127.0.0.1:1",
	}
	data, _ := json.Marshal(cfg)
	cfgPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	exportFormat, exportOut, exportTheme, exportSlide = "pdf", "", "", -1
	tocFormat, tocSlides = "list", 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestThemesCommand(t *testing.T) {
	out, err := run(t, "themes")
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	for _, want := range []string{"NAME", "Calm Cyan", "#E0F7FA", "columns"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	deck := filepath.Join(dir, "deck.json")
	s := slideshow.NewSlide()
	s.Components = append(s.Components, slideshow.Component{ID: "t", Type: slideshow.ComponentTitle, Content: "CLI"})
	if err := slideshow.NewPresentation(s, slideshow.NewSlide()).Save(deck); err != nil {
		t.Fatal(err)
	}

	pdf := filepath.Join(dir, "out", "deck.pdf")
	out, err := run(t, "export", deck, "--format", "pdf", "--out", pdf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "PDF with 2 slides exported successfully!") {
		t.Errorf("output = %q", out)
	}
	data, err := os.ReadFile(pdf)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("pdf not written: %v", err)
	}

	if _, err := run(t, "export", deck, "--format", "gif"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestTOCCommandFallsBack(t *testing.T) {
	text := filepath.Join(t.TempDir(), "notes.txt")
	os.WriteFile(text, []byte("Go: a language"), 0644)

	out, err := run(t, "toc", "--text-file", text, "--format", "numbered")
	if err != nil {
		t.Fatalf("toc: %v", err)
	}
	if !strings.HasPrefix(out, slideshow.DefaultTOCTitle) || !strings.Contains(out, "1.2. ") {
		t.Errorf("output = %q", out)
	}
}
