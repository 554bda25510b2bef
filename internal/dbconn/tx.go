package dbconn

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx opens a transaction on db, runs fn, and commits on success or
// rolls back on any error — including the error returned by fn itself.
// This follows the teacher's CreateIssue idiom in
// internal/storage/sqlite/queries.go: track a committed flag and defer an
// unconditional rollback attempt that is a no-op once committed.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dbconn: begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dbconn: commit transaction: %w", err)
	}
	committed = true
	return nil
}
