package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	slideshow "github.com/VantageDataChat/GoSlideshow"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, nil)
}

func TestUploadValidatesLocally(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		files []File
		want  string
	}{
		{"none", nil, "no files"},
		{"not pdf", []File{{Name: "notes.docx", Data: []byte("x")}}, "must be a PDF"},
		{"too big", []File{{Name: "big.pdf", Data: make([]byte, MaxFileSize+1)}}, "exceeds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Upload(ctx, tc.files, false)
			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if se.StatusCode != 0 || !strings.Contains(se.Message, tc.want) {
				t.Errorf("error = %v, want message containing %q", se, tc.want)
			}
		})
	}
}

func TestUploadSendsMultipartAndResolvesImages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("generate_image"); got != "false" {
			t.Errorf("generate_image = %q", got)
		}
		files := r.MultipartForm.File["file"]
		if len(files) != 2 {
			t.Fatalf("got %d files", len(files))
		}
		f, _ := files[0].Open()
		data, _ := io.ReadAll(f)
		if string(data) != "%PDF-1" {
			t.Errorf("file content = %q", data)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"results": []map[string]any{
				{"filename": "a.pdf", "terms": []map[string]string{{"term": "Cell", "definition": "Unit of life"}},
					"extracted_images": []string{`static\img\a_0.png`, "https://cdn.example.com/x.png"}},
				{"filename": "b.pdf", "error": "no text"},
			},
		})
	})

	resp, err := c.Upload(context.Background(), []File{
		{Name: "a.pdf", Data: []byte("%PDF-1")},
		{Name: "b.PDF", Data: []byte("%PDF-2")},
	}, false)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[1].Error != "no text" {
		t.Fatalf("unexpected results: %+v", resp.Results)
	}
	imgs := resp.Results[0].ExtractedImages
	if imgs[0] != c.BaseURL+"/static/img/a_0.png" {
		t.Errorf("relative path resolved to %q", imgs[0])
	}
	if imgs[1] != "https://cdn.example.com/x.png" {
		t.Errorf("absolute URL changed to %q", imgs[1])
	}
}

func TestUploadServiceError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"No selected file"}`))
	})
	_, err := c.Upload(context.Background(), []File{{Name: "a.pdf", Data: []byte("x")}}, true)
	var se *Error
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest || se.Message != "No selected file" {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestGenerateImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["prompt"] != "a red fox" {
			t.Errorf("prompt = %q", body["prompt"])
		}
		w.Write([]byte(`{"image_base64":"iVBORw0KGgo="}`))
	})
	uri, err := c.GenerateImage(context.Background(), "  a red fox ")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if uri != "data:image/png;base64,iVBORw0KGgo=" {
		t.Errorf("uri = %q", uri)
	}
	if _, err := c.GenerateImage(context.Background(), "   "); err == nil {
		t.Error("expected error for empty prompt")
	}
}

func TestGenerateImageMissingData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	if _, err := c.GenerateImage(context.Background(), "fox"); err == nil {
		t.Error("expected error when no image is returned")
	}
}

func TestGenerateTOC(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"toc":{"title":"Biology","sections":[{"title":"Cells"},{"title":"Genes","subsections":["DNA"]}]}}`))
	})
	toc, fallback, err := c.GenerateTOC(context.Background(), "Cell: unit of life")
	if err != nil || fallback {
		t.Fatalf("GenerateTOC: fallback=%v err=%v", fallback, err)
	}
	if toc.Title != "Biology" || toc.Sections[0].ID != "section-0" || toc.Sections[0].Subsections == nil {
		t.Errorf("outline not normalized: %+v", toc)
	}
}

func TestGenerateTOCFallsBack(t *testing.T) {
	responses := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
		"json":   func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"success":`)) },
		"failed": func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"success":false,"error":"quota"}`)) },
		"invalid": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"toc":{"title":"","sections":[]}}`))
		},
	}
	for name, h := range responses {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, h)
			toc, fallback, err := c.GenerateTOC(context.Background(), "text")
			if !fallback || err == nil {
				t.Fatalf("fallback=%v err=%v", fallback, err)
			}
			if len(toc.Sections) != len(slideshow.DefaultTOC().Sections) {
				t.Errorf("expected the default outline, got %+v", toc)
			}
		})
	}
}

func TestRequestCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GenerateImage(ctx, "fox"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
