package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cuemby/workflow-engine/internal/dberrors"
)

type createCaseRequest struct {
	ClientID      string `json:"client_id"`
	ClientType    string `json:"client_type"`
	ProcessTypeNo int64  `json:"process_type_no"`
}

// handleCreateCase implements POST /cases/: Create Case + initial
// Process + initial Step, per §4.2.
func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: decode create case request: %v", err))
		return
	}
	if req.ProcessTypeNo == 0 {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: process_type_no is required"))
		return
	}

	c, p, st, err := s.cases.CreateCase(r.Context(), req.ClientID, req.ClientType, req.ProcessTypeNo, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"case":    c,
		"process": p,
		"step":    st,
	})
}

// handleListCases implements GET /cases: admins see every Case,
// non-admins see only their own (§4.2).
func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	cases, err := s.cases.ListCases(r.Context(), caller.Usrid, caller.IsAdmin())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// handleGetCase implements GET /cases/{id}, returning 404 for both a
// missing Case and a Case owned by someone else (scenario 6).
func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid case id"))
		return
	}

	c, err := s.cases.GetCase(r.Context(), id, caller.Usrid, caller.IsAdmin())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleCurrentStep implements GET /cases/{case_no}/current-step: the
// latest busy Step of the Case's most recently started Process.
func (s *Server) handleCurrentStep(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	caseno, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid case id"))
		return
	}

	if _, err := s.cases.GetCase(r.Context(), caseno, caller.Usrid, caller.IsAdmin()); err != nil {
		writeError(w, log, err)
		return
	}

	procs, err := s.cases.ListProcessesForCase(r.Context(), caseno)
	if err != nil {
		writeError(w, log, err)
		return
	}
	if len(procs) == 0 {
		writeError(w, log, dberrors.ErrNotFound)
		return
	}
	latest := procs[len(procs)-1]

	busyNo, err := s.catalog.ResolveStatusNo(r.Context(), "busy")
	if err != nil {
		writeError(w, log, err)
		return
	}

	step, err := s.steps.CurrentBusyStep(r.Context(), latest.Processno, busyNo)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, step)
}

// handleStepsForCase implements GET /cases/{case_no}/steps: the full
// Step history across every Process the Case owns.
func (s *Server) handleStepsForCase(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	caseno, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid case id"))
		return
	}

	if _, err := s.cases.GetCase(r.Context(), caseno, caller.Usrid, caller.IsAdmin()); err != nil {
		writeError(w, log, err)
		return
	}

	procs, err := s.cases.ListProcessesForCase(r.Context(), caseno)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var all []interface{}
	for _, p := range procs {
		steps, err := s.steps.ListStepsForProcess(r.Context(), p.Processno)
		if err != nil {
			writeError(w, log, err)
			return
		}
		for _, st := range steps {
			all = append(all, st)
		}
	}
	writeJSON(w, http.StatusOK, all)
}

// handleProcessDataForCase implements GET /cases/{case_no}/process-data:
// ProcessData across every Process the Case owns.
func (s *Server) handleProcessDataForCase(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	caseno, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid case id"))
		return
	}

	if _, err := s.cases.GetCase(r.Context(), caseno, caller.Usrid, caller.IsAdmin()); err != nil {
		writeError(w, log, err)
		return
	}

	procs, err := s.cases.ListProcessesForCase(r.Context(), caseno)
	if err != nil {
		writeError(w, log, err)
		return
	}

	var all []interface{}
	for _, p := range procs {
		data, err := s.cases.ListProcessDataForProcess(r.Context(), p.Processno, caller.Usrid, caller.IsAdmin())
		if err != nil {
			writeError(w, log, err)
			return
		}
		for _, pd := range data {
			all = append(all, pd)
		}
	}
	writeJSON(w, http.StatusOK, all)
}
