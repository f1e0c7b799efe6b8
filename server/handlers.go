package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	slideshow "github.com/VantageDataChat/GoSlideshow"
	"github.com/VantageDataChat/GoSlideshow/history"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// decodeBody reads a JSON body capped at the configured upload limit.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	limit := s.cfg.MaxUploadBytes
	if limit <= 0 {
		limit = 32 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// GET /api/themes
func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	reg := s.materializer.Registry
	if reg == nil {
		reg = slideshow.DefaultRegistry()
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "themes": reg.Catalog()})
}

// ExportRequest is the body of POST /api/export/{format}.
type ExportRequest struct {
	Slides       []*slideshow.Slide `json:"slides"`
	Theme        string             `json:"theme"`
	Filename     string             `json:"filename"`
	CurrentSlide int                `json:"currentSlide"`
	Metadata     slideshow.Metadata `json:"metadata"`
	JobID        string             `json:"jobId"`
}

var exportFormats = map[string]string{
	"png":           slideshow.ExportTypePNG,
	"pdf":           slideshow.ExportTypePDF,
	"pptx":          slideshow.ExportTypePPTX,
	"pptx-editable": slideshow.ExportTypeEditablePPTX,
}

// POST /api/export/{format}
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, ok := exportFormats[strings.ToLower(mux.Vars(r)["format"])]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", mux.Vars(r)["format"]))
		return
	}
	var req ExportRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if len(req.Slides) == 0 {
		writeError(w, http.StatusBadRequest, "no slides to export")
		return
	}
	pres := slideshow.NewPresentation(req.Slides...)
	if err := pres.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slides := pres.Slides()
	if format == slideshow.ExportTypePNG && (req.CurrentSlide < 0 || req.CurrentSlide >= len(slides)) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("current slide %d out of range", req.CurrentSlide))
		return
	}

	e := slideshow.NewExporter(s.materializer, s.rasterizer, s.blobs, s.logger)
	e.Theme = req.Theme
	if e.Theme == "" {
		e.Theme = s.cfg.DefaultTheme
	}
	if req.JobID != "" {
		jobID := req.JobID
		e.SetProgressCallback(func(p int) { s.hub.Publish(jobID, p) })
		defer s.hub.Finish(jobID)
	}

	var res slideshow.Result
	switch format {
	case slideshow.ExportTypePNG:
		res = e.ExportPNG(r.Context(), slides[req.CurrentSlide], req.CurrentSlide, req.Filename)
	case slideshow.ExportTypePDF:
		res = e.ExportPDF(r.Context(), slides, req.Filename)
	case slideshow.ExportTypePPTX:
		res = e.ExportPPTX(r.Context(), slides, req.Metadata, req.Filename)
	case slideshow.ExportTypeEditablePPTX:
		res = e.ExportEditablePPTX(r.Context(), slides, req.Metadata, req.Filename)
	}
	if !res.Success {
		s.logf("[SERVER] %s", res.Message)
		writeJSON(w, http.StatusInternalServerError, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /api/downloads/{id}
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	blob, ok := s.blobs.Lookup(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "download not found or expired")
		return
	}
	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": blob.Name}))
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Data)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "history store is not configured")
		return false
	}
	return true
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, history.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, history.ErrInvalidUser):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logf("[SERVER] Store error: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// GET /api/users/{user}/history
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	recs, err := s.store.List(r.Context(), mux.Vars(r)["user"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "history": recs})
}

// POST /api/users/{user}/history
func (s *Server) handleAddHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var rec history.Record
	if !s.decodeBody(w, r, &rec) {
		return
	}
	if rec.Filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}
	saved, err := s.store.Add(r.Context(), mux.Vars(r)["user"], rec)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "record": saved})
}

// PATCH /api/users/{user}/history/{id}
func (s *Server) handleRenameHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var body struct {
		Filename string `json:"filename"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Filename) == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}
	vars := mux.Vars(r)
	if err := s.store.Rename(r.Context(), vars["user"], vars["id"], body.Filename); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DELETE /api/users/{user}/history/{id}
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	vars := mux.Vars(r)
	if err := s.store.Delete(r.Context(), vars["user"], vars["id"]); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// POST /api/shares
func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var sh history.Share
	if !s.decodeBody(w, r, &sh) {
		return
	}
	if len(sh.Slides) == 0 {
		writeError(w, http.StatusBadRequest, "share has no slides")
		return
	}
	saved, err := s.store.Share(r.Context(), sh)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      saved.ID,
		"url":     history.ShareURL(s.cfg.PublicOrigin, saved.ID),
	})
}

// GET /api/shares/{id}
func (s *Server) handleGetShare(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	sh, err := s.store.GetShare(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "share": sh})
}

// POST /api/toc
func (s *Server) handleTOC(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text    string                   `json:"text"`
		Results []slideshow.UploadResult `json:"results"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		text = slideshow.TextFromTerms(body.Results)
	}
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	toc, fallback := slideshow.DefaultTOC(), true
	if s.toc != nil {
		var err error
		toc, fallback, err = s.toc.GenerateTOC(r.Context(), text)
		if err != nil {
			s.logf("[SERVER] TOC service: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"toc":      toc,
		"fallback": fallback,
		"slide":    slideshow.TOCSlide(toc),
	})
}
