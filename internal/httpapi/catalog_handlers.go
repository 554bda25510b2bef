package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/cuemby/workflow-engine/internal/authz"
	"github.com/cuemby/workflow-engine/internal/dberrors"
)

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dberrors.Wrapf(dberrors.ErrValidation, "httpapi: decode request body: %v", err)
	}
	return nil
}

// --- ProcessTypes: readable by any authenticated user, writes admin-only (§4.6) ---

type processTypeRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleListProcessTypes(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	if _, ok := callerFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}
	items, err := s.catalog.ListProcessTypes(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetProcessType(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())
	if _, ok := callerFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid id"))
		return
	}
	item, err := s.catalog.GetProcessType(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateProcessType(w http.ResponseWriter, r *http.Request) {
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
	var req processTypeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	item, err := s.catalog.CreateProcessType(r.Context(), req.Description, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateProcessType(w http.ResponseWriter, r *http.Request) {
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
	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid id"))
		return
	}
	var req processTypeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	item, err := s.catalog.UpdateProcessType(r.Context(), id, req.Description, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- Statuses: admin only for both reads and writes (§4.6) ---

type statusRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleListStatuses(w http.ResponseWriter, r *http.Request) {
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
	items, err := s.catalog.ListStatuses(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateStatus(w http.ResponseWriter, r *http.Request) {
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
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	item, err := s.catalog.CreateStatus(r.Context(), req.Description, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid id"))
		return
	}
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	item, err := s.catalog.UpdateStatus(r.Context(), id, req.Description, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- ProcessDefinitions: admin only ---

type createProcessDefinitionRequest struct {
	ProcessTypeNo        int64  `json:"process_type_no"`
	Version              int    `json:"version"`
	StartTaskDescription string `json:"start_task_description"`
}

func (s *Server) handleListProcessDefinitions(w http.ResponseWriter, r *http.Request) {
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
	items, err := s.catalog.ListProcessDefinitions(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetProcessDefinition(w http.ResponseWriter, r *http.Request) {
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
	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid id"))
		return
	}
	item, err := s.catalog.GetProcessDefinition(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateProcessDefinition(w http.ResponseWriter, r *http.Request) {
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
	var req createProcessDefinitionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	if req.Version == 0 {
		req.Version = 1
	}
	def, task, err := s.catalog.CreateProcessDefinition(r.Context(), req.ProcessTypeNo, req.Version, req.StartTaskDescription, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"process_definition": def,
		"start_task":         task,
	})
}

type updateProcessDefinitionRequest struct {
	StartTaskNo int64 `json:"start_task_no"`
	Version     int   `json:"version"`
	IsActive    bool  `json:"is_active"`
}

func (s *Server) handleUpdateProcessDefinition(w http.ResponseWriter, r *http.Request) {
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
	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid id"))
		return
	}
	var req updateProcessDefinitionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	def, err := s.catalog.UpdateProcessDefinition(r.Context(), id, req.StartTaskNo, req.Version, req.IsActive, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// --- Tasks: admin only ---

type taskRequest struct {
	ProcessDefinitionNo int64  `json:"process_definition_no"`
	Description         string `json:"description"`
	Reference           string `json:"reference"`
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
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
	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid id"))
		return
	}
	item, err := s.catalog.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
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
	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	item, err := s.catalog.CreateTask(r.Context(), req.ProcessDefinitionNo, req.Description, req.Reference, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
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
	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid id"))
		return
	}
	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	item, err := s.catalog.UpdateTask(r.Context(), id, req.Description, req.Reference, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- TaskRules: admin only ---

type taskRuleRequest struct {
	Taskno     int64  `json:"taskno"`
	Rule       string `json:"rule"`
	NextTaskNo *int64 `json:"next_task_no"`
}

func (s *Server) handleGetTaskRule(w http.ResponseWriter, r *http.Request) {
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
	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid id"))
		return
	}
	item, err := s.catalog.GetTaskRule(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateTaskRule(w http.ResponseWriter, r *http.Request) {
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
	var req taskRuleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	item, err := s.catalog.CreateTaskRule(r.Context(), req.Taskno, req.Rule, req.NextTaskNo, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateTaskRule(w http.ResponseWriter, r *http.Request) {
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
	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid id"))
		return
	}
	var req taskRuleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	item, err := s.catalog.UpdateTaskRule(r.Context(), id, req.Rule, req.NextTaskNo, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- ProcessDataTypes: admin only ---

type processDataTypeRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleListProcessDataTypes(w http.ResponseWriter, r *http.Request) {
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
	items, err := s.catalog.ListProcessDataTypes(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateProcessDataType(w http.ResponseWriter, r *http.Request) {
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
	var req processDataTypeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	item, err := s.catalog.CreateProcessDataType(r.Context(), req.Description, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateProcessDataType(w http.ResponseWriter, r *http.Request) {
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
	id, err := pathID(r)
	if err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: invalid id"))
		return
	}
	var req processDataTypeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, log, err)
		return
	}
	item, err := s.catalog.UpdateProcessDataType(r.Context(), id, req.Description, caller.Usrid)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
