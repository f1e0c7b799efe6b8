package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestInitCreatesDatedFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger()
	l.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local) }
	if err := l.Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	l.Logf("exported %d slides", 3)
	path := l.Path()
	l.Close()

	if filepath.Base(path) != "slideshow_2024-05-06_1.log" {
		t.Errorf("log file = %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[07:08:09.000] exported 3 slides\n") {
		t.Errorf("log content:\n%s", data)
	}
}

func TestInitCountsRuns(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		l := NewLogger()
		if err := l.Init(dir); err != nil {
			t.Fatalf("Init: %v", err)
		}
		l.Close()
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "slideshow_*_2.log"))
	if len(matches) != 1 {
		t.Errorf("second run file missing, got %v", matches)
	}
}

func TestMirrorWithoutFile(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger()
	l.SetOutput(&buf)
	l.Log("hello")
	if !regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\.\d{3}\] hello\n$`).Match(buf.Bytes()) {
		t.Errorf("mirror got %q", buf.String())
	}
}

func TestLogBeforeInitIsNoop(t *testing.T) {
	l := NewLogger()
	l.Log("dropped")
	l.Close()
}
