package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vimleague/hub/internal/session"
	"github.com/vimleague/hub/internal/store"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Docs     store.Store
	Sessions session.Store

	// AdminHash is the bcrypt hash of the shared admin key.
	AdminHash    []byte
	CookieSecure bool
	PublicDir    string

	// closing is closed when the server starts shutting down. Long-lived
	// streams return on it, since Shutdown does not cancel request contexts.
	closing <-chan struct{}
}

type Server struct {
	srv     *http.Server
	logger  *slog.Logger
	closing <-chan struct{}
}

func New(addr string, logger *slog.Logger, deps Deps) *Server {
	stop, cancel := context.WithCancel(context.Background())
	deps.closing = stop.Done()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(logger, deps),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv.RegisterOnShutdown(cancel)

	return &Server{
		srv:     srv,
		logger:  logger,
		closing: deps.closing,
	}
}

func newRouter(logger *slog.Logger, deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	addRoutes(r, logger, deps)
	return r
}

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
