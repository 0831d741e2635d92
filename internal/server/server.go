package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/corpscope/internal/model"
	"github.com/nao1215/corpscope/internal/report"
	"github.com/nao1215/corpscope/internal/reveal"
	"github.com/nao1215/corpscope/internal/session"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Server serves the current report.
type Server struct {
	store      session.Store
	revealer   *reveal.Revealer
	renderOpts []report.MarkdownOption
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRevealer sets the revealer used by /report/stream.
func WithRevealer(r *reveal.Revealer) Option {
	return func(s *Server) {
		s.revealer = r
	}
}

// WithMarkdownOptions passes options to the Markdown renderer.
func WithMarkdownOptions(opts ...report.MarkdownOption) Option {
	return func(s *Server) {
		s.renderOpts = opts
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server reading reports from store.
func New(store session.Store, opts ...Option) *Server {
	s := &Server{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.revealer == nil {
		s.revealer = reveal.NewRevealer()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.pageHandler)
	r.Get("/report", s.reportHandler)
	r.Get("/report/stream", s.streamHandler)
	r.Get("/api/report", s.reportJSONHandler)
	r.Get("/healthz", healthzHandler)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
// If ready is non-nil it receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready chan<- string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ready != nil {
		ready <- ln.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down preview server: %w", err)
		}
		return nil
	}
}

// logRequests logs each request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
		)
	})
}

// loadReport reads the current report. ok is false when none exists; the
// error response has then already been written.
func (s *Server) loadReport(w http.ResponseWriter, r *http.Request) (*model.ReportData, bool) {
	data, err := session.LoadReport(r.Context(), s.store)
	if errors.Is(err, session.ErrNotFound) {
		http.Error(w, "no report generated yet", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.logger.Error("failed to load report", "error", err)
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return nil, false
	}
	return data, true
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; }
#report-content a { color: #0a58ca; }
.empty { color: #666; }
</style>
</head>
<body>
<header><h1 id="report-title">{{.Title}}</h1></header>
{{if .HasReport}}<p><a href="/report/stream">Watch the report being written</a></p>
<main id="report-content">{{.Content}}</main>
{{else}}<p class="empty">No report generated yet. Run <code>corpscope generate &lt;company&gt;</code> and reload.</p>
{{end}}</body>
</html>
`))

type pageData struct {
	Title     string
	HasReport bool
	Content   template.HTML
}

// pageHandler renders the page shell.
func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	page := pageData{Title: "corpscope"}

	data, err := session.LoadReport(r.Context(), s.store)
	switch {
	case err == nil:
		page.Title = model.DisplayTitle(data.CompanyName)
		page.HasReport = true
		page.Content = template.HTML(report.RenderHTML(data, s.renderOpts...)) //nolint:gosec // rendered report HTML
	case !errors.Is(err, session.ErrNotFound):
		s.logger.Error("failed to load report", "error", err)
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, page); err != nil {
		s.logger.Warn("failed to write page", "error", err)
	}
}

// reportHandler writes the full report HTML fragment.
func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	data, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(report.RenderHTML(data, s.renderOpts...)))
}

// reportJSONHandler writes the raw report data.
func (s *Server) reportJSONHandler(w http.ResponseWriter, r *http.Request) {
	data, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// streamHandler reveals the report over a chunked response.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	data, ok := s.loadReport(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	sink := &flushSink{w: w, flusher: flusher}
	if err := s.revealer.Reveal(r.Context(), report.RenderHTML(data, s.renderOpts...), sink); err != nil {
		s.logger.Debug("report stream ended early", "error", err)
	}
}

// flushSink writes each reveal frame's new characters and flushes.
type flushSink struct {
	mu       sync.Mutex
	w        http.ResponseWriter
	flusher  http.Flusher
	rendered string
}

// Render writes the part of partial not yet sent. A response cannot be
// rewritten, so a frame that does not extend the previous one is ignored.
func (f *flushSink) Render(partial string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !strings.HasPrefix(partial, f.rendered) {
		return
	}
	if delta := partial[len(f.rendered):]; delta != "" {
		_, _ = f.w.Write([]byte(delta))
		f.flusher.Flush()
	}
	f.rendered = partial
}

// ScrollIntoView is a no-op; the browser keeps the end of the stream in view.
func (f *flushSink) ScrollIntoView() {}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
