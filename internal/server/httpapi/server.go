// Package httpapi exposes the portal's HTTP/JSON API: task assignment,
// the ledger, passwordless sign-in, document handouts, and an SSE event
// stream. Authentication is an opaque session token in the X-Session-Token
// header.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/logging"
	"github.com/dmitrijs2005/printdesk/internal/server/config"
	"github.com/dmitrijs2005/printdesk/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// Server bundles the services behind the HTTP API.
type Server struct {
	addr       string
	logger     logging.Logger
	tasks      *services.TaskService
	assignment *services.AssignmentService
	ledger     *services.LedgerService
	sessions   *services.SessionService
	auth       *services.AuthService
	documents  *services.DocumentService
	fanout     *services.FanoutService
}

// NewServer constructs a Server over the given services.
func NewServer(cfg *config.Config, logger logging.Logger,
	tasks *services.TaskService, assignment *services.AssignmentService,
	ledger *services.LedgerService, sessions *services.SessionService,
	auth *services.AuthService, documents *services.DocumentService,
	fanout *services.FanoutService) *Server {
	return &Server{
		addr:       cfg.EndpointAddr,
		logger:     logger.With("component", "http"),
		tasks:      tasks,
		assignment: assignment,
		ledger:     ledger,
		sessions:   sessions,
		auth:       auth,
		documents:  documents,
		fanout:     fanout,
	}
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
