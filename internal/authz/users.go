// Package authz implements the Authorization Gate: user registration and
// password verification (bcrypt), JWT issuance/verification, and the
// role/ownership checks §4.6 describes. Role and ownership decisions
// themselves are plain functions over already-loaded entities; they do
// not query the database, so httpapi handlers call them after loading
// the resource they are about to serve or mutate.
package authz

import (
	"context"
	"database/sql"

	"golang.org/x/crypto/bcrypt"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/types"
)

// UserStore is the Authorization Gate's user data-access layer.
type UserStore struct {
	db *sql.DB
}

// NewUserStore wraps db for user registration and lookup.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Register hashes password with bcrypt and inserts a new User. The very
// first user ever registered is bootstrapped as admin; every subsequent
// self-registration defaults to user, per §4.6.
func (u *UserStore) Register(ctx context.Context, usrid, username, password string) (*types.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dberrors.Wrap("authz: hash password", err)
	}

	role := types.RoleUser
	var count int
	if err := u.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return nil, dberrors.Wrap("authz: count users", err)
	}
	if count == 0 {
		role = types.RoleAdmin
	}

	const q = `INSERT INTO users (usrid, username, password_hash, role) VALUES ($1, $2, $3, $4)
	           RETURNING usrid, username, password_hash, role, date_created`
	var user types.User
	err = u.db.QueryRowContext(ctx, q, usrid, username, string(hash), role).Scan(
		&user.Usrid, &user.Username, &user.PasswordHash, &user.Role, &user.DateCreated)
	if err != nil {
		return nil, dberrors.Wrap("authz: register user", err)
	}
	return &user, nil
}

// Authenticate verifies username/password and returns the matching User,
// or ErrAuthorization if the username is unknown or the password does
// not match the stored bcrypt hash.
func (u *UserStore) Authenticate(ctx context.Context, username, password string) (*types.User, error) {
	const q = `SELECT usrid, username, password_hash, role, date_created FROM users WHERE username = $1`
	var user types.User
	err := u.db.QueryRowContext(ctx, q, username).Scan(
		&user.Usrid, &user.Username, &user.PasswordHash, &user.Role, &user.DateCreated)
	if err != nil {
		wrapped := dberrors.Wrap("authz: lookup user", err)
		if dberrors.IsNotFound(wrapped) {
			return nil, dberrors.ErrAuthorization
		}
		return nil, wrapped
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, dberrors.ErrAuthorization
	}
	return &user, nil
}

// GetUser returns a User by usrid. The request middleware does not call
// it: withAuth takes the caller's usrid and role from the verified token
// claims.
func (u *UserStore) GetUser(ctx context.Context, usrid string) (*types.User, error) {
	const q = `SELECT usrid, username, password_hash, role, date_created FROM users WHERE usrid = $1`
	var user types.User
	err := u.db.QueryRowContext(ctx, q, usrid).Scan(
		&user.Usrid, &user.Username, &user.PasswordHash, &user.Role, &user.DateCreated)
	if err != nil {
		return nil, dberrors.Wrap("authz: get user", err)
	}
	return &user, nil
}
