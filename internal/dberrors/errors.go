// Package dberrors defines the sentinel error taxonomy shared by every
// storage-backed component, and the helpers used to attach operation
// context as errors propagate out of the DAO layer.
package dberrors

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Sentinel errors matching the component taxonomy. The HTTP boundary maps
// these (via errors.Is) to status codes; nothing below this layer knows
// about HTTP.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates an illegal state transition or a uniqueness
	// violation the caller could have avoided (e.g. closing a non-busy step).
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates a malformed request body or missing field.
	ErrValidation = errors.New("validation failed")

	// ErrAuthorization indicates a missing/invalid token or an
	// insufficient role/ownership for the requested operation.
	ErrAuthorization = errors.New("not authorized")

	// ErrConfiguration indicates required seed rows (busy/complete status)
	// are absent, or the database is unreachable.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap attaches operation context to err, converting sql.ErrNoRows (the
// database/sql stdlib layer every DAO queries through) and pgx.ErrNoRows
// (which the pgx stdlib driver can also surface) to ErrNotFound, so
// callers can test with errors.Is regardless of which form the driver
// raised it in.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Wrapf is Wrap with a formatted operation description.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(fmt.Sprintf(format, args...), err)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is or wraps ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsValidation reports whether err is or wraps ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsAuthorization reports whether err is or wraps ErrAuthorization.
func IsAuthorization(err error) bool { return errors.Is(err, ErrAuthorization) }

// IsConfiguration reports whether err is or wraps ErrConfiguration.
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }
