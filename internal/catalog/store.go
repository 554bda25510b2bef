// Package catalog implements the Definition Catalog: ProcessTypes,
// ProcessDefinitions, Tasks, TaskRules, ProcessDataTypes and Statuses. It
// is read-mostly and is mutated only by administrators (enforced by the
// authz package, not here) — this package is pure data access.
package catalog

import (
	"context"
	"database/sql"

	"github.com/cuemby/workflow-engine/internal/dberrors"
)

// Store is the Definition Catalog's data access layer, following the
// teacher's convention of a single storage struct per component wrapping
// a *sql.DB and exposing one method per operation (see
// internal/storage/sqlite.SQLiteStorage in the teacher).
type Store struct {
	db *sql.DB
}

// NewStore wraps db for catalog access.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// taskExists reports whether taskno identifies a live Task, used to
// enforce "start_task_no, once referenced, must still resolve to an
// existing Task" on ProcessDefinition updates.
func (s *Store) taskExists(ctx context.Context, tx *sql.Tx, taskno int64) (bool, error) {
	var exists bool
	q := `SELECT EXISTS(SELECT 1 FROM tasks WHERE taskno = $1)`
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, q, taskno).Scan(&exists)
	} else {
		err = s.db.QueryRowContext(ctx, q, taskno).Scan(&exists)
	}
	if err != nil {
		return false, dberrors.Wrap("catalog: check task existence", err)
	}
	return exists, nil
}
