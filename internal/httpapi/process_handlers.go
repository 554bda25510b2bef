package httpapi

import (
	"net/http"

	"github.com/cuemby/workflow-engine/internal/authz"
	"github.com/cuemby/workflow-engine/internal/dberrors"
)

// handleListProcesses implements GET /processes, admin inspection only.
func (s *Server) handleListProcesses(w http.ResponseWriter, r *http.Request) {
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
	items, err := s.cases.ListProcesses(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type createProcessDataRequest struct {
	ProcessDataTypeNo int64  `json:"process_data_type_no"`
	Fieldname         string `json:"fieldname"`
	Value             string `json:"value"`
}

// handleCreateProcessData implements POST /processes/{id}/data/: admin,
// or the user who owns the Process's Case, may append ProcessData.
func (s *Server) handleCreateProcessData(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	processno, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid process id"))
		return
	}

	if !caller.IsAdmin() {
		proc, err := s.cases.GetProcess(r.Context(), processno, caller.Usrid, true)
		if err != nil {
			writeError(w, log, err)
			return
		}
		c, err := s.cases.GetCase(r.Context(), proc.CaseNo, caller.Usrid, true)
		if err != nil {
			writeError(w, log, err)
			return
		}
		if err := authz.RequireOwnerOrAdmin(caller, c.Usrid); err != nil {
			writeError(w, log, err)
			return
		}
	}

	var req createProcessDataRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	pd, err := s.cases.CreateProcessData(r.Context(), processno, req.ProcessDataTypeNo, req.Fieldname, req.Value, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, pd)
}

// handleListAllProcessData implements GET /process-data: admins see
// ProcessData for every Process; non-admins see only ProcessData for
// Processes whose owning Case they hold.
func (s *Server) handleListAllProcessData(w http.ResponseWriter, r *http.Request) {
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

	var all []interface{}
	for _, c := range cases {
		ps, err := s.cases.ListProcessesForCase(r.Context(), c.Caseno)
		if err != nil {
			writeError(w, log, err)
			return
		}
		for _, p := range ps {
			data, err := s.cases.ListProcessDataForProcess(r.Context(), p.Processno, caller.Usrid, caller.IsAdmin())
			if err != nil {
				writeError(w, log, err)
				return
			}
			for _, pd := range data {
				all = append(all, pd)
			}
		}
	}
	writeJSON(w, http.StatusOK, all)
}
