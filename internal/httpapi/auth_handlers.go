package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/cuemby/workflow-engine/internal/dberrors"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleRegister creates a User, bootstrapping the very first registrant
// as admin (§4.6). Open endpoint, no Bearer token required.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: decode register request: %v", err))
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: username and password are required"))
		return
	}

	user, err := s.users.Register(r.Context(), uuid.NewString(), req.Username, req.Password)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"usrid":    user.Usrid,
		"username": user.Username,
		"role":     user.Role,
	})
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleToken authenticates username/password form fields and issues a
// signed access token, per §6 ("POST /auth/token (form: username,
// password) → {access_token, token_type:"bearer"}").
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	log := loggerFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: parse token request: %v", err))
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, log, dberrors.Wrapf(dberrors.ErrValidation, "httpapi: username and password are required"))
		return
	}

	user, err := s.users.Authenticate(r.Context(), username, password)
	if err != nil {
		writeError(w, log, err)
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
