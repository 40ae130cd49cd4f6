package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/michelangelomo/statusd/internal/config"
	"github.com/michelangelomo/statusd/internal/health"
	"github.com/michelangelomo/statusd/internal/static"
	log "github.com/sirupsen/logrus"
)

var readMethods = []string{http.MethodGet, http.MethodHead}

type Server struct {
	httpServer *http.Server
	profile    health.Profile
}

// NewServer builds the route table for profile. The table is not modified
// after this returns.
func NewServer(profile health.Profile, config config.Config) *Server {
	router := mux.NewRouter()
	router.Handle(profile.Path, health.TextHandler(profile.Message)).Methods(readMethods...)

	if profile.ServeStatic {
		log.Debugf("serving static files from %s for unmatched paths", config.ContentRoot)
		router.PathPrefix("/").Handler(static.NewHandler(config.ContentRoot, config.IndexFile)).Methods(readMethods...)
	}

	if config.AccessLog {
		router.Use(NewLogger(LogOptions{Formatter: log.StandardLogger().Formatter}).Middleware)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:    config.GetListeningAddress(),
			Handler: router,
		},
		profile: profile,
	}
}

// Listen binds the configured address.
func (server *Server) Listen() (net.Listener, error) {
	listener, err := net.Listen("tcp", server.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", server.httpServer.Addr, err)
	}
	return listener, nil
}

// Serve blocks until the server is shut down or the listener fails.
func (server *Server) Serve(listener net.Listener) error {
	return server.httpServer.Serve(listener)
}

// Run binds, announces the listening address and serves. Nothing is logged
// when binding fails.
func (server *Server) Run() error {
	listener, err := server.Listen()
	if err != nil {
		return err
	}

	log.WithField("profile", server.profile.Name).Infof("Server listening on %s", listener.Addr())
	return server.Serve(listener)
}

func (server *Server) Shutdown(ctx context.Context) error {
	if server.httpServer != nil {
		return server.httpServer.Shutdown(ctx)
	}
	return nil
}
