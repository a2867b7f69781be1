// Package server exposes the HTTP API: authentication, areas, employees,
// catalogs, leave requests and dashboard statistics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/metrohr/leavehub/areas"
	"github.com/metrohr/leavehub/auth"
	"github.com/metrohr/leavehub/catalogs"
	"github.com/metrohr/leavehub/employees"
	"github.com/metrohr/leavehub/requests"
	"github.com/metrohr/leavehub/schedule"
	"github.com/metrohr/leavehub/token"
	"github.com/metrohr/leavehub/users"
)

// Repos holds all repository dependencies for the Server.
type Repos struct {
	Users     users.Repo
	Areas     areas.Repo
	Employees employees.Repo
	Catalogs  catalogs.Repo
	Requests  requests.Repo
	Balances  requests.BalanceRepo
	Tokens    token.Repo
}

// Server serves the HTTP API.
type Server struct {
	router         *mux.Router
	repos          Repos
	auth           *auth.Service
	calculator     *schedule.Calculator
	folioPrefix    string
	allowedOrigins string
	httpServer     *http.Server
}

// Option modifies the Server during construction.
type Option func(*Server)

// WithFolioPrefix overrides the folio prefix for new requests.
func WithFolioPrefix(prefix string) Option {
	return func(s *Server) {
		if prefix != "" {
			s.folioPrefix = prefix
		}
	}
}

// WithAllowedOrigins sets the CORS allowed origins header value.
func WithAllowedOrigins(origins string) Option {
	return func(s *Server) {
		if origins != "" {
			s.allowedOrigins = origins
		}
	}
}

func New(repos Repos, tokens *token.Manager, options ...Option) (*Server, error) {
	authService, err := auth.NewService(repos.Users, tokens)
	if err != nil {
		return nil, errors.Wrap(err, "[New] NewService")
	}

	s := &Server{
		router:         mux.NewRouter(),
		repos:          repos,
		auth:           authService,
		calculator:     schedule.New(),
		folioPrefix:    "VAC",
		allowedOrigins: "*",
	}
	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server and blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "[ListenAndServe] ListenAndServe")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "[ListenAndServe] Shutdown")
	}
	log.Info().Msg("http server stopped")
	return nil
}
