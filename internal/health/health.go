// Package health exposes the liveness endpoint hosting platforms poll to
// keep the bot process alive.
package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"applybot/core/logger"
	"log/slog"
)

const aliveBody = "alive"

// Server hosts GET /health on its own listener, next to the bot runtime.
type Server struct {
	srv *http.Server
}

// New builds the liveness server bound to addr, e.g. ":10000".
func New(addr string) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(aliveBody))
	})

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		err := s.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L.Error("health server failed",
				slog.String("component", "health"),
				slog.String("event", "serve"),
				slog.String("listen", s.srv.Addr),
				slog.String("err", err.Error()),
			)
		}
	}()
	logger.L.Info("health server listening",
		slog.String("component", "health"),
		slog.String("event", "listen"),
		slog.String("listen", s.srv.Addr),
	)
}

// Shutdown drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler exposes the mux, for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
