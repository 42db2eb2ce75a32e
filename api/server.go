// Package api exposes the vesting service over HTTP. Callers are
// pre-authenticated by the platform edge; the identity arrives in the
// X-Principal header and is matched against the principal registry by
// the service layer.
package api

import (
	"context"
	"net/http"
	"time"

	"vestlock/service"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Server wraps the HTTP server and its routes
type Server struct {
	httpServer *http.Server
	vesting    service.VestingService
	admin      service.AdminService
}

// NewServer creates a server listening on addr
func NewServer(addr string, vesting service.VestingService, admin service.AdminService) *Server {
	s := &Server{
		vesting: vesting,
		admin:   admin,
	}

	router := mux.NewRouter()
	s.registerRoutes(router)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	router.HandleFunc("/pools/{pool}/schedules", s.handleSetupVesting).Methods(http.MethodPost)

	router.HandleFunc("/accounts/{account}/locked", s.handleCheckLocked).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{account}/locked/preview", s.handlePreviewLocked).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{account}/schedules", s.handleGetSchedules).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{account}/accruals", s.handleGetAccrualHistory).Methods(http.MethodGet)

	router.HandleFunc("/admin/principals", s.handleGetPrincipals).Methods(http.MethodGet)
	router.HandleFunc("/admin/principals/{role}", s.handleSetPrincipal).Methods(http.MethodPut)
	router.HandleFunc("/admin/owner", s.handleTransferOwnership).Methods(http.MethodPut)
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
