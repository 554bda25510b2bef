package authz

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/workflow-engine/internal/types"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-signing-key"), time.Hour)
	user := &types.User{Usrid: "u-1", Username: "alice", Role: types.RoleUser}

	token, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	caller, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", caller.Usrid)
	require.Equal(t, types.RoleUser, caller.Role)
	require.False(t, caller.IsAdmin())
}

func TestIssueSetsSubjectToUsername(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-signing-key"), time.Hour)
	user := &types.User{Usrid: "u-1", Username: "alice", Role: types.RoleUser}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &claims{})
	require.NoError(t, err)
	c, ok := parsed.Claims.(*claims)
	require.True(t, ok)
	require.Equal(t, "alice", c.Subject)
	require.Equal(t, "u-1", c.Usrid)
}

func TestVerifyRejectsWrongSigningKey(t *testing.T) {
	issuer := NewTokenIssuer([]byte("key-a"), time.Hour)
	other := NewTokenIssuer([]byte("key-b"), time.Hour)

	user := &types.User{Usrid: "u-1", Username: "alice", Role: types.RoleAdmin}
	token, err := issuer.Issue(user)
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-signing-key"), -time.Minute)
	user := &types.User{Usrid: "u-1", Username: "alice", Role: types.RoleUser}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbageToken(t *testing.T) {
	issuer := NewTokenIssuer([]byte("test-signing-key"), time.Hour)
	_, err := issuer.Verify("not-a-jwt")
	require.Error(t, err)
}

func TestAdminCallerIsAdmin(t *testing.T) {
	issuer := NewTokenIssuer([]byte("k"), time.Hour)
	user := &types.User{Usrid: "u-2", Username: "bootstrap", Role: types.RoleAdmin}
	token, err := issuer.Issue(user)
	require.NoError(t, err)

	caller, err := issuer.Verify(token)
	require.NoError(t, err)
	require.True(t, caller.IsAdmin())
}
