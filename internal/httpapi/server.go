// Package httpapi exposes the engine's JSON/HTTP surface over
// net/http's stdlib ServeMux, the way the teacher's cmd/bd/serve.go
// wires plain http.HandleFunc routes rather than a routing framework.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cuemby/workflow-engine/internal/advancer"
	"github.com/cuemby/workflow-engine/internal/authz"
	"github.com/cuemby/workflow-engine/internal/casestore"
	"github.com/cuemby/workflow-engine/internal/catalog"
	"github.com/cuemby/workflow-engine/internal/stepledger"
)

// Server holds every component the handlers dispatch to.
type Server struct {
	log      *slog.Logger
	catalog  *catalog.Store
	cases    *casestore.Store
	steps    *stepledger.Store
	advancer *advancer.Advancer
	users    *authz.UserStore
	tokens   *authz.TokenIssuer
}

// New builds a Server over the given stores.
func New(log *slog.Logger, cat *catalog.Store, cases *casestore.Store, steps *stepledger.Store, adv *advancer.Advancer, users *authz.UserStore, tokens *authz.TokenIssuer) *Server {
	return &Server{log: log, catalog: cat, cases: cases, steps: steps, advancer: adv, users: users, tokens: tokens}
}

// Routes builds the full route tree, wrapping authenticated endpoints
// in withAuth and every endpoint in withRequestLogging.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/token", s.handleToken)

	authed := http.NewServeMux()
	authed.HandleFunc("POST /cases/", s.handleCreateCase)
	authed.HandleFunc("GET /cases", s.handleListCases)
	authed.HandleFunc("GET /cases/{id}", s.handleGetCase)
	authed.HandleFunc("GET /cases/{id}/current-step", s.handleCurrentStep)
	authed.HandleFunc("GET /cases/{id}/steps", s.handleStepsForCase)
	authed.HandleFunc("GET /cases/{id}/process-data", s.handleProcessDataForCase)

	authed.HandleFunc("POST /steps/{id}/close", s.handleCloseStep)
	authed.HandleFunc("GET /steps", s.handleListSteps)

	authed.HandleFunc("GET /processes", s.handleListProcesses)
	authed.HandleFunc("POST /processes/{id}/data/", s.handleCreateProcessData)
	authed.HandleFunc("GET /process-data", s.handleListAllProcessData)

	authed.HandleFunc("GET /process-types", s.handleListProcessTypes)
	authed.HandleFunc("POST /process-types", s.handleCreateProcessType)
	authed.HandleFunc("GET /process-types/{id}", s.handleGetProcessType)
	authed.HandleFunc("PUT /process-types/{id}", s.handleUpdateProcessType)

	authed.HandleFunc("GET /statuses", s.handleListStatuses)
	authed.HandleFunc("POST /statuses", s.handleCreateStatus)
	authed.HandleFunc("PUT /statuses/{id}", s.handleUpdateStatus)

	authed.HandleFunc("GET /process-definitions", s.handleListProcessDefinitions)
	authed.HandleFunc("POST /process-definitions", s.handleCreateProcessDefinition)
	authed.HandleFunc("GET /process-definitions/{id}", s.handleGetProcessDefinition)
	authed.HandleFunc("PUT /process-definitions/{id}", s.handleUpdateProcessDefinition)

	authed.HandleFunc("GET /tasks/{id}", s.handleGetTask)
	authed.HandleFunc("POST /tasks", s.handleCreateTask)
	authed.HandleFunc("PUT /tasks/{id}", s.handleUpdateTask)

	authed.HandleFunc("GET /task-rules/{id}", s.handleGetTaskRule)
	authed.HandleFunc("POST /task-rules", s.handleCreateTaskRule)
	authed.HandleFunc("PUT /task-rules/{id}", s.handleUpdateTaskRule)

	authed.HandleFunc("GET /process-data-types", s.handleListProcessDataTypes)
	authed.HandleFunc("POST /process-data-types", s.handleCreateProcessDataType)
	authed.HandleFunc("PUT /process-data-types/{id}", s.handleUpdateProcessDataType)

	mux.Handle("/", withAuth(s.tokens, authed))

	return withRequestLogging(s.log, mux)
}

// Run starts the HTTP server on addr and blocks until ctx is cancelled
// or ListenAndServe returns a fatal error.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
