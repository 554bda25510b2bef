package authz

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/types"
)

// claims is the custom payload carried by access tokens: enough to
// reconstruct the caller's identity and role without a database round
// trip on every request.
type claims struct {
	Usrid string    `json:"usrid"`
	Role  types.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies Bearer access tokens with a single
// shared HMAC key, the way §1/§4.6 describe authentication: "a signed
// JWT Bearer token identifies the caller."
type TokenIssuer struct {
	signingKey []byte
	accessTTL  time.Duration
}

// NewTokenIssuer builds a TokenIssuer using signingKey to sign and
// verify tokens, each issued with a lifetime of accessTTL.
func NewTokenIssuer(signingKey []byte, accessTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{signingKey: signingKey, accessTTL: accessTTL}
}

// Issue mints a signed access token for user.
func (t *TokenIssuer) Issue(user *types.User) (string, error) {
	now := time.Now()
	c := claims{
		Usrid: user.Usrid,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", dberrors.Wrap("authz: sign token", err)
	}
	return signed, nil
}

// Caller is the authenticated identity extracted from a verified token.
type Caller struct {
	Usrid string
	Role  types.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool { return c.Role == types.RoleAdmin }

// Verify parses and validates tokenString, returning the embedded
// Caller. Any failure — malformed token, bad signature, expiry — is
// reported as ErrAuthorization, per §7 ("missing/invalid token (401)").
func (t *TokenIssuer) Verify(tokenString string) (Caller, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return Caller{}, dberrors.ErrAuthorization
	}
	c, ok := parsed.Claims.(*claims)
	if !ok {
		return Caller{}, dberrors.ErrAuthorization
	}
	return Caller{Usrid: c.Usrid, Role: c.Role}, nil
}
