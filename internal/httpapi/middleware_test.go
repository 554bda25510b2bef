package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/workflow-engine/internal/authz"
	"github.com/cuemby/workflow-engine/internal/types"
)

func TestWithAuthRejectsMissingHeader(t *testing.T) {
	issuer := authz.NewTokenIssuer([]byte("k"), time.Hour)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/cases", nil)
	rec := httptest.NewRecorder()

	withAuth(issuer, next).ServeHTTP(rec, req)

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthRejectsInvalidToken(t *testing.T) {
	issuer := authz.NewTokenIssuer([]byte("k"), time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/cases", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	withAuth(issuer, next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthAcceptsValidTokenAndInjectsCaller(t *testing.T) {
	issuer := authz.NewTokenIssuer([]byte("k"), time.Hour)
	user := &types.User{Usrid: "u-1", Username: "alice", Role: types.RoleUser}
	token, err := issuer.Issue(user)
	require.NoError(t, err)

	var gotCaller authz.Caller
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCaller, _ = callerFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/cases", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	withAuth(issuer, next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u-1", gotCaller.Usrid)
}
