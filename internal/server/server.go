// Package server exposes disk usage statistics over HTTP.
//
// Routes:
//
//	GET /api/dir?path=&files_count=&dirs_count=  largest files and directories below path
//	GET /api/ls?path=&show_dir_size=             one-level listing of path
//	GET /api/os_info                             home directory, filesystem root and OS
//	GET /health                                  liveness
//	GET /metrics                                 Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/idelchi/diskusage/internal/dirstat"
	"github.com/idelchi/diskusage/internal/logctx"
	"github.com/idelchi/diskusage/internal/metrics"
	"github.com/idelchi/diskusage/internal/sizecache"
)

// Limits bounds the top-n sizes of /api/dir.
type Limits struct {
	// Files is the default number of largest files.
	Files int
	// Dirs is the default number of largest directories.
	Dirs int
	// Max is the largest count a request may ask for.
	Max int
}

// Server serves the disk usage API.
type Server struct {
	fs     afero.Fs
	cache  sizecache.Store
	limits Limits
	logger zerolog.Logger
}

// New creates a Server reading through fsys and sizing directories through cache.
func New(fsys afero.Fs, cache sizecache.Store, limits Limits, logger zerolog.Logger) *Server {
	return &Server{
		fs:     fsys,
		cache:  cache,
		limits: limits,
		logger: logger,
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/dir", s.handleDir)
	mux.HandleFunc("GET /api/ls", s.handleLs)
	mux.HandleFunc("GET /api/os_info", s.handleOSInfo)
	mux.Handle("GET /metrics", metrics.Handler())

	return s.logRequests(metrics.Middleware(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return logctx.WithLogger(context.Background(), s.logger)
		},
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("address", addr).Msgf("diskusage is running on http://%s/", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("shutting down")

	return srv.Shutdown(shutdownCtx)
}

// logRequests attaches the server logger to each request context and logs the outcome.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &metrics.StatusWriter{ResponseWriter: w, Status: http.StatusOK}

		logger := s.logger.With().Str("method", r.Method).Str("path", r.URL.Path).Logger()
		r = r.WithContext(logctx.WithLogger(r.Context(), logger))

		next.ServeHTTP(sw, r)

		logger.Info().
			Int("status", sw.Status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// dirResponse is the body of /api/dir.
type dirResponse struct {
	Path         string             `json:"path"`
	Size         uint64             `json:"size"`
	FilesCount   uint64             `json:"files_count"`
	Duration     int64              `json:"duration"`
	BiggestDirs  []dirstat.FileStat `json:"biggest_dirs"`
	BiggestFiles []dirstat.FileStat `json:"biggest_files"`
}

func (s *Server) handleDir(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	path := query.Get("path")
	if path == "" {
		s.sendError(w, http.StatusBadRequest, "'path' is required")

		return
	}

	files, err := s.parseCount(query.Get("files_count"), s.limits.Files)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "files_count: "+err.Error())

		return
	}

	dirs, err := s.parseCount(query.Get("dirs_count"), s.limits.Dirs)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "dirs_count: "+err.Error())

		return
	}

	stats, err := dirstat.Run(r.Context(), s.fs, dirstat.Options{
		Path:     path,
		TopFiles: files,
		TopDirs:  dirs,
	}, nil)
	if err != nil {
		s.sendFailure(w, r, err)

		return
	}

	metrics.RecordAggregation(stats.Elapsed, stats.FileCount, stats.FileResorts, stats.DirResorts)
	logctx.FromContext(r.Context()).Debug().
		Uint64("dir_sorts", stats.DirResorts).
		Uint64("file_sorts", stats.FileResorts).
		Msg("retainer resorts")

	s.sendJSON(w, http.StatusOK, dirResponse{
		Path:         path,
		Size:         stats.Size,
		FilesCount:   stats.FileCount,
		Duration:     stats.Elapsed.Milliseconds(),
		BiggestDirs:  stats.TopDirs,
		BiggestFiles: stats.TopFiles,
	})
}

func (s *Server) handleLs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	path := query.Get("path")
	if path == "" {
		s.sendError(w, http.StatusBadRequest, "'path' is required")

		return
	}

	showDirSize := false

	if raw := query.Get("show_dir_size"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			s.sendError(w, http.StatusBadRequest, "show_dir_size: "+err.Error())

			return
		}

		showDirSize = parsed
	}

	listing, err := dirstat.List(r.Context(), s.fs, path, showDirSize, s.cache)
	if err != nil {
		s.sendFailure(w, r, err)

		return
	}

	s.sendJSON(w, http.StatusOK, listing)
}

// osInfo is the body of /api/os_info.
type osInfo struct {
	Home string `json:"home"`
	Root string `json:"root"`
	OS   string `json:"os"`
}

func (s *Server) handleOSInfo(w http.ResponseWriter, _ *http.Request) {
	home, err := os.UserHomeDir()
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Could not retrieve your home directory")

		return
	}

	root := "/"
	if runtime.GOOS == "windows" {
		root = `C:\`
	}

	s.sendJSON(w, http.StatusOK, osInfo{Home: home, Root: root, OS: runtime.GOOS})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseCount parses a top-n count, falling back to def when raw is empty.
func (s *Server) parseCount(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("must be an integer")
	}

	if n <= 0 {
		return 0, dirstat.ErrZeroCapacity
	}

	if s.limits.Max > 0 && n > s.limits.Max {
		return 0, errors.New("must not exceed " + strconv.Itoa(s.limits.Max))
	}

	return n, nil
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Message string `json:"message"`
}

// sendFailure maps a core error to a status code.
func (s *Server) sendFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, dirstat.ErrEntryMetadata):
	case errors.Is(err, fs.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, dirstat.ErrNotDirectory), errors.Is(err, dirstat.ErrZeroCapacity):
		status = http.StatusBadRequest
	case errors.Is(err, fs.ErrPermission):
		status = http.StatusForbidden
	}

	logctx.FromContext(r.Context()).Error().Err(err).Int("status", status).Msg("request failed")
	s.sendError(w, status, err.Error())
}

func (s *Server) sendError(w http.ResponseWriter, code int, message string) {
	s.sendJSON(w, code, errorResponse{Message: message})
}

func (s *Server) sendJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("encoding response")
	}
}
