// Package plotserver serves generated plot images over HTTP with
// permissive CORS, and expires old artifacts in the background.
package plotserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

// Server is the static plot file server.
type Server struct {
	host      string
	port      int
	dir       string
	retention time.Duration
	sweep     time.Duration
	logger    *slog.Logger
	server    *http.Server
}

// New creates a plot server for the given directory.
func New(host string, port int, dir string, logger *slog.Logger) *Server {
	return &Server{
		host:   host,
		port:   port,
		dir:    dir,
		logger: logger,
	}
}

// SetRetention overrides the janitor's retention window and sweep
// interval. Zero values keep the defaults.
func (s *Server) SetRetention(retention, sweep time.Duration) {
	s.retention = retention
	s.sweep = sweep
}

// Handler builds the HTTP handler: a file server over the plots
// directory wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.dir)))

	return s.withLogging(s.withCORS(mux))
}

// Start begins serving HTTP requests. The plots directory is created
// if missing and a janitor goroutine expires old artifacts until ctx
// is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create plots directory: %w", err)
	}

	go NewJanitor(s.dir, s.retention, s.sweep, s.logger).Run(ctx)

	s.server = &http.Server{
		Addr:         net.JoinHostPort(s.host, fmt.Sprint(s.port)),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("starting plot server", "address", s.server.Addr, "dir", s.dir)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// withCORS adds the headers the chat UI needs to embed images from
// another origin, and answers OPTIONS preflights directly.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
