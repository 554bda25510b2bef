package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/cuemby/workflow-engine/internal/authz"
	"github.com/cuemby/workflow-engine/internal/dberrors"
)

type closeStepRequest struct {
	RuleData map[string]interface{} `json:"rule_data"`
}

// handleCloseStep implements POST /steps/{id}/close, the hot path that
// drives the Step Advancer (§4.5). A caller may only close a Step
// belonging to a Process on one of their own Cases, unless admin.
func (s *Server) handleCloseStep(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	stepno, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid step id"))
		return
	}

	var req closeStepRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: decode close step request: %v", err))
			return
		}
	}

	if !caller.IsAdmin() {
		if err := s.authorizeStepOwnership(r, stepno, caller); err != nil {
			writeError(w, log, err)
			return
		}
	}

	result, err := s.advancer.CloseStep(r.Context(), stepno, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"closed_step": result.ClosedStep,
		"next_step":   result.NextStep,
		"completed":   result.Completed,
	})
}

// authorizeStepOwnership fails with ErrAuthorization (403) if the Step's
// owning Case does not belong to caller — distinct from GetCase's
// ErrNotFound leniency, since a Step-close attempt on a known step_id
// that belongs to someone else is a forbidden action on a known
// resource, not an enumeration risk (scenario 6).
func (s *Server) authorizeStepOwnership(r *http.Request, stepno int64, caller authz.Caller) error {
	step, err := s.steps.GetStep(r.Context(), stepno)
	if err != nil {
		return err
	}
	proc, err := s.cases.GetProcess(r.Context(), step.Processno, caller.Usrid, true)
	if err != nil {
		return err
	}
	c, err := s.cases.GetCase(r.Context(), proc.CaseNo, caller.Usrid, true)
	if err != nil {
		return err
	}
	return authz.RequireOwnerOrAdmin(caller, c.Usrid)
}

// handleListSteps implements GET /steps, admin-only per §6.
func (s *Server) handleListSteps(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}
	if err := authz.RequireAdmin(caller); err != nil {
		writeError(w, log, err)
		return
	}

	steps, err := s.steps.ListSteps(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, steps)
}
