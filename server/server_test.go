package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	slideshow "github.com/VantageDataChat/GoSlideshow"
	"github.com/VantageDataChat/GoSlideshow/config"
	"github.com/VantageDataChat/GoSlideshow/history"
	"github.com/VantageDataChat/GoSlideshow/services"
)

func newTestServer(t *testing.T, withStore bool) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.TOCURL = ""
	cfg.PublicOrigin = "https://slides.example.com"
	opts := Options{
		Config:     cfg,
		Rasterizer: slideshow.NewNativeRasterizer(slideshow.NewIsolatedFontCache()),
	}
	if withStore {
		st, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
		if err != nil {
			t.Fatalf("history.Open: %v", err)
		}
		t.Cleanup(func() { st.Close() })
		opts.Store = st
	}
	return New(opts)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func textSlides(n int) []*slideshow.Slide {
	var out []*slideshow.Slide
	for i := 0; i < n; i++ {
		s := slideshow.NewSlide()
		s.Components = append(s.Components, slideshow.Component{ID: "t", Type: slideshow.ComponentTitle, Content: "Slide"})
		out = append(out, s)
	}
	return out
}

func TestThemes(t *testing.T) {
	s := newTestServer(t, false)
	rec := doJSON(t, s, http.MethodGet, "/api/themes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Themes []slideshow.ThemeInfo `json:"themes"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Themes) == 0 {
		t.Error("no themes listed")
	}
}

func TestExportPDFAndDownload(t *testing.T) {
	s := newTestServer(t, false)
	rec := doJSON(t, s, http.MethodPost, "/api/export/pdf", ExportRequest{
		Slides:   textSlides(2),
		Filename: "deck.pdf",
		JobID:    "job-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	var res slideshow.Result
	json.Unmarshal(rec.Body.Bytes(), &res)
	if !res.Success || !strings.HasPrefix(res.DownloadURL, DownloadPrefix) || res.Pages != 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	dl := httptest.NewRecorder()
	s.ServeHTTP(dl, httptest.NewRequest(http.MethodGet, res.DownloadURL, nil))
	if dl.Code != http.StatusOK {
		t.Fatalf("download status = %d", dl.Code)
	}
	if !bytes.HasPrefix(dl.Body.Bytes(), []byte("%PDF")) {
		t.Error("download is not a PDF")
	}
	if cd := dl.Header().Get("Content-Disposition"); !strings.Contains(cd, "deck.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestExportRejectsBadRequests(t *testing.T) {
	s := newTestServer(t, false)
	cases := []struct {
		name string
		path string
		body any
		code int
	}{
		{"format", "/api/export/docx", ExportRequest{Slides: textSlides(1)}, http.StatusBadRequest},
		{"empty", "/api/export/pdf", ExportRequest{}, http.StatusBadRequest},
		{"index", "/api/export/png", ExportRequest{Slides: textSlides(1), CurrentSlide: 3}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, tc.path, tc.body)
			if rec.Code != tc.code {
				t.Errorf("status = %d, want %d", rec.Code, tc.code)
			}
			var e errorResponse
			json.Unmarshal(rec.Body.Bytes(), &e)
			if e.Success || e.Error == "" {
				t.Errorf("unexpected error body %s", rec.Body)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, false)
	s.cfg.MaxUploadBytes = 64
	rec := doJSON(t, s, http.MethodPost, "/api/export/pdf", ExportRequest{Slides: textSlides(5)})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestDownloadMissing(t *testing.T) {
	s := newTestServer(t, false)
	rec := doJSON(t, s, http.MethodGet, "/api/downloads/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHistoryRoutes(t *testing.T) {
	s := newTestServer(t, true)
	rec := doJSON(t, s, http.MethodPost, "/api/users/u1/history", history.Record{Filename: "bio.pdf", Slides: textSlides(1)})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d body=%s", rec.Code, rec.Body)
	}
	var added struct {
		Record history.Record `json:"record"`
	}
	json.Unmarshal(rec.Body.Bytes(), &added)

	rec = doJSON(t, s, http.MethodPatch, "/api/users/u1/history/"+added.Record.ID, map[string]string{"filename": "biology.pdf"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rename status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/users/u1/history", nil)
	var list struct {
		History []history.Record `json:"history"`
	}
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.History) != 1 || list.History[0].Filename != "biology.pdf" {
		t.Fatalf("unexpected history %+v", list.History)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/users/u1/history/"+added.Record.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodDelete, "/api/users/u1/history/"+added.Record.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", rec.Code)
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	s := newTestServer(t, false)
	rec := doJSON(t, s, http.MethodGet, "/api/users/u1/history", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestShareRoutes(t *testing.T) {
	s := newTestServer(t, true)
	rec := doJSON(t, s, http.MethodPost, "/api/shares", history.Share{Title: "Bio", Slides: textSlides(2)})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	var created struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.URL != "https://slides.example.com/slideshow/"+created.ID {
		t.Errorf("url = %q", created.URL)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/shares/"+created.ID, nil)
	var got struct {
		Share history.Share `json:"share"`
	}
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Share.Views != 1 || got.Share.SlideCount != 2 {
		t.Errorf("unexpected share %+v", got.Share)
	}
}

func TestTOCFallsBackWithoutService(t *testing.T) {
	s := newTestServer(t, false)
	rec := doJSON(t, s, http.MethodPost, "/api/toc", map[string]any{
		"results": []slideshow.UploadResult{{Filename: "a.pdf", Terms: []slideshow.Term{{Term: "Cell", Definition: "Unit"}}}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Fallback bool             `json:"fallback"`
		Slide    *slideshow.Slide `json:"slide"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if !body.Fallback || body.Slide == nil || body.Slide.Components[0].Type != slideshow.ComponentTOC {
		t.Errorf("unexpected body %s", rec.Body)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/toc", map[string]string{"text": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty text status = %d", rec.Code)
	}
}

func TestTOCUsesService(t *testing.T) {
	svc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"toc":{"title":"Biology","sections":[{"title":"Cells"}]}}`))
	}))
	defer svc.Close()

	s := New(Options{Config: config.Default(), TOC: services.NewClient(svc.URL, nil)})
	rec := doJSON(t, s, http.MethodPost, "/api/toc", map[string]string{"text": "Cell: unit"})
	var body struct {
		Fallback bool           `json:"fallback"`
		TOC      *slideshow.TOC `json:"toc"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Fallback || body.TOC.Title != "Biology" {
		t.Errorf("unexpected body %s", rec.Body)
	}
}

func TestHubDeliversFinalFrame(t *testing.T) {
	h := NewHub()
	frames, cancel := h.Subscribe("j")
	defer cancel()
	for p := 0; p <= 100; p++ {
		h.Publish("j", p)
	}
	var last Progress
	for len(frames) > 0 {
		last = <-frames
	}
	if last.Progress != 100 {
		t.Errorf("last frame = %d, want 100", last.Progress)
	}
}

func TestProgressWebSocket(t *testing.T) {
	s := newTestServer(t, false)
	srv := httptest.NewServer(s)
	defer srv.Close()

	s.hub.Publish("job-ws", 100)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/progress/job-ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var p Progress
	if err := conn.ReadJSON(&p); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if p.JobID != "job-ws" || p.Progress != 100 {
		t.Errorf("frame = %+v", p)
	}
}
