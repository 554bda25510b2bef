package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cuemby/workflow-engine/internal/dberrors"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the dberrors sentinel taxonomy to the status codes §7
// names, and logs server-side (500) failures with the request-scoped
// logger so an operator can find the underlying cause.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case dberrors.IsNotFound(err):
		status = http.StatusNotFound
	case dberrors.IsAuthorization(err):
		status = http.StatusForbidden
	case dberrors.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case dberrors.IsConflict(err):
		status = http.StatusBadRequest
	case dberrors.IsConfiguration(err):
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeUnauthenticated(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid bearer token"})
}
