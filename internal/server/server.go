package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/csvscope/internal/analysis"
	"github.com/KaramelBytes/csvscope/internal/session"
)

// Options configures a Server.
type Options struct {
	// MaxUploadBytes caps the size of an uploaded file; 0 disables the cap.
	MaxUploadBytes int64
	// Report controls the rendered dataset report.
	Report analysis.ReportOptions
	Logger *logrus.Logger
}

// Server exposes the current dataset of a session.Store over HTTP.
type Server struct {
	router   *chi.Mux
	store    *session.Store
	analyzer *analysis.Analyzer
	opt      Options
	log      *logrus.Logger
}

// New builds a Server around store. A nil logger falls back to logrus.New().
func New(store *session.Store, opt Options) *Server {
	logger := opt.Logger
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		router:   chi.NewRouter(),
		store:    store,
		analyzer: &analysis.Analyzer{Logger: logger},
		opt:      opt,
		log:      logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/datasets", s.handleUpload)
		r.Get("/dataset", s.handleDataset)
		r.Delete("/dataset", s.handleReset)
		r.Get("/dataset/rows", s.handleRows)
		r.Get("/dataset/report", s.handleReport)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// requestLogger logs one line per request with logrus.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"elapsed":    time.Since(start).String(),
		}).Info("request")
	})
}
