// SPDX-License-Identifier: AGPL-3.0-or-later
// Package statusserver exposes a minimal read-only HTTP surface over
// the running Scheduler: liveness and trigger introspection. It never
// mutates scheduler state.
package statusserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/btouchard/campaignd/pkg/logger"
)

// TriggerLister is implemented by *scheduler.Scheduler.
type TriggerLister interface {
	Triggers() map[string]uint64
}

// Server is the optional status HTTP server. A nil Server (returned
// when Addr is empty) means the feature is disabled.
type Server struct {
	httpServer *http.Server
}

type healthResponse struct {
	OK   bool      `json:"ok"`
	Time time.Time `json:"time"`
}

// New builds a status server bound to addr. Pass an empty addr to
// disable it (New then returns nil).
func New(addr string, triggers TriggerLister) *Server {
	if addr == "" {
		return nil
	}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthResponse{OK: true, Time: time.Now().UTC()})
	})
	r.Get("/triggers", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(triggers.Triggers())
	})

	return &Server{httpServer: &http.Server{Addr: addr, Handler: r}}
}

// Start begins serving in a background goroutine. Errors other than a
// clean shutdown are logged, not fatal -- the status server is
// observability, not load-bearing.
func (s *Server) Start() {
	go func() {
		logger.Logger.Info("status server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Error("status server error", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
