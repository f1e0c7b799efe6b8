// Package server exposes themes, exports, history and shares over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	slideshow "github.com/VantageDataChat/GoSlideshow"
	"github.com/VantageDataChat/GoSlideshow/config"
	"github.com/VantageDataChat/GoSlideshow/history"
	"github.com/VantageDataChat/GoSlideshow/services"
)

// DownloadPrefix is the URL prefix of export artifacts.
const DownloadPrefix = "/api/downloads/"

// blobTTL is how long artifacts stay downloadable.
const blobTTL = time.Hour

// Options configure a Server. Nil fields get defaults derived from Config.
type Options struct {
	Config       config.Config
	Materializer *slideshow.Materializer
	Rasterizer   slideshow.Rasterizer
	Store        *history.Store
	TOC          *services.Client
	Logger       slideshow.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg          config.Config
	router       *mux.Router
	materializer *slideshow.Materializer
	rasterizer   slideshow.Rasterizer
	blobs        *slideshow.MemoryBlobStore
	hub          *Hub
	store        *history.Store
	toc          *services.Client
	logger       slideshow.Logger
	upgrader     websocket.Upgrader
}

// New builds a server and its routes.
func New(opts Options) *Server {
	s := &Server{
		cfg:          opts.Config,
		materializer: opts.Materializer,
		rasterizer:   opts.Rasterizer,
		blobs:        slideshow.NewMemoryBlobStore(DownloadPrefix),
		hub:          NewHub(),
		store:        opts.Store,
		toc:          opts.TOC,
		logger:       opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	if s.materializer == nil {
		s.materializer = slideshow.NewMaterializer(s.logger)
	}
	if s.rasterizer == nil {
		s.rasterizer = slideshow.NewNativeRasterizer(slideshow.NewFontCache(s.cfg.FontDirs...))
	}
	if s.toc == nil && s.cfg.TOCURL != "" {
		s.toc = services.NewClient(s.cfg.TOCURL, s.logger)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/themes", s.handleThemes).Methods(http.MethodGet)
	api.HandleFunc("/export/{format}", s.handleExport).Methods(http.MethodPost)
	api.HandleFunc("/downloads/{id}", s.handleDownload).Methods(http.MethodGet)
	api.HandleFunc("/progress/{jobId}", s.handleProgress).Methods(http.MethodGet)

	api.HandleFunc("/users/{user}/history", s.handleListHistory).Methods(http.MethodGet)
	api.HandleFunc("/users/{user}/history", s.handleAddHistory).Methods(http.MethodPost)
	api.HandleFunc("/users/{user}/history/{id}", s.handleRenameHistory).Methods(http.MethodPatch)
	api.HandleFunc("/users/{user}/history/{id}", s.handleDeleteHistory).Methods(http.MethodDelete)

	api.HandleFunc("/shares", s.handleCreateShare).Methods(http.MethodPost)
	api.HandleFunc("/shares/{id}", s.handleGetShare).Methods(http.MethodGet)

	api.HandleFunc("/toc", s.handleTOC).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Blobs returns the artifact store behind /api/downloads.
func (s *Server) Blobs() *slideshow.MemoryBlobStore {
	return s.blobs
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.pruneBlobs(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logf("[SERVER] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logf("[SERVER] Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) pruneBlobs(ctx context.Context) {
	ticker := time.NewTicker(blobTTL / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.blobs.Prune(blobTTL); n > 0 {
				s.logf("[SERVER] Pruned %d expired download(s)", n)
			}
		}
	}
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Logf(format, args...)
	}
}
