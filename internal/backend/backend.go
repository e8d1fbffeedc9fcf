// Package backend is the placeholder HTTP server every project starts with.
//
// It binds 127.0.0.1:<port> and answers GET /health with "ok" and every
// other path with a greeting naming the project. The generated entry point
// of each project execs "projrouter serve" to run it.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/logging"
)

// Server serves one project's placeholder backend.
type Server struct {
	Project string
	Port    int

	// Logger for request logs; defaults to the package logger.
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Handler returns the placeholder routes for project.
func Handler(project string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		writeText(w, "ok\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, "Hello world: "+project+"\n")
	})
	return mux
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// Addr returns the loopback address the server binds.
func (s *Server) Addr() string {
	return net.JoinHostPort(config.LocalHost, strconv.Itoa(s.Port))
}

// Run listens on Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := config.ValidateProjectName(s.Project); err != nil {
		return err
	}
	if err := config.ValidatePort(s.Port); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := s.Logger
	if logger == nil {
		logger = logging.Logger
	}
	timeout := s.ShutdownTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	srv := &http.Server{
		Handler:           logRequests(logger, Handler(s.Project)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("backend listening", "project", s.Project, "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down backend: %w", err)
	}
	return nil
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start))
	})
}
