// Package web provides a small preview server: it decodes the current
// log on request and serves the rendered calendar, so styling changes
// can be checked in a browser without producing a PDF each time.
package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"healthcal/internal/config"
	"healthcal/internal/healthlog"
	appLog "healthcal/internal/log"
	"healthcal/internal/render"
)

// Server serves the rendered calendar and the last written PDF.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start runs the server until ctx is canceled, then shuts it down
// gracefully.
func Start(ctx context.Context, cfg *config.Config) error {
	s := NewServer(cfg)
	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/calendar", s.handleCalendar)
	s.mux.HandleFunc("/calendar.pdf", s.handlePDF)
	s.mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/calendar", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleCalendar decodes the configured log file and renders it fresh on
// every request. Decode failures surface as a 422 carrying the full
// error chain, which is exactly the diagnostic a log author needs.
func (s *Server) handleCalendar(w http.ResponseWriter, _ *http.Request) {
	f, err := os.Open(s.cfg.LogPath)
	if err != nil {
		appLog.Error("preview: open log failed", err, "path", s.cfg.LogPath)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	log, err := healthlog.DecodeLog(f)
	if err != nil {
		appLog.Error("preview: decode failed", err, "path", s.cfg.LogPath)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	html, err := render.Calendar(log, render.Options{
		WeekStart: s.cfg.WeekStart,
		Page:      s.cfg.Page,
	})
	if err != nil {
		appLog.Error("preview: render failed", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// handlePDF serves the last written PDF from disk. http.ServeFile maps
// missing files and permission problems to sensible status codes.
func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.cfg.OutputPDF)
}
