package slideshow

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		in, mime, data string
		ok             bool
	}{
		{"data:text/plain;base64,aGk=", "text/plain", "hi", true},
		{"data:text/plain;base64,aGk", "text/plain", "hi", true},
		{"data:,a%20b", "text/plain; charset=utf-8", "a b", true},
		{"data:image/png;base64,", "", "", false},
		{"http://example.com/x.png", "", "", false},
	}
	for _, tt := range tests {
		data, mime, err := DecodeDataURI(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("%q: err = %v", tt.in, err)
			continue
		}
		if tt.ok && (string(data) != tt.data || mime != tt.mime) {
			t.Errorf("%q: got %q %q", tt.in, data, mime)
		}
	}
}

func TestHTTPAssetLoader(t *testing.T) {
	uri := pngDataURI(t, 3, 2, color.RGBA{R: 10, A: 255})
	raw, _, _ := DecodeDataURI(uri)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(raw)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "local.png")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}

	l := NewHTTPAssetLoader()
	for _, src := range []string{uri, srv.URL + "/ok.png", path, "file://" + path} {
		img, err := l.Load(context.Background(), src)
		if err != nil {
			t.Errorf("Load(%.30s): %v", src, err)
			continue
		}
		if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
			t.Errorf("Load(%.30s) size = %v", src, b)
		}
	}

	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("missing asset: %v", err)
	}
	l.MaxBytes = 4
	if _, err := l.Fetch(context.Background(), srv.URL+"/ok.png"); err == nil {
		t.Error("size cap not applied")
	}
	l.AllowFiles = false
	if _, err := l.Fetch(context.Background(), path); err == nil {
		t.Error("file read while disabled")
	}
}
