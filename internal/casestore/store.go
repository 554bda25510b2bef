// Package casestore implements the Case Store: Cases, Processes and
// ProcessData — the live state of each business interaction. Creating a
// Case additionally creates its first Process and Step, so this package
// depends on catalog (to resolve the active ProcessDefinition and the
// "busy" status) the same way the teacher's higher-level DAOs compose
// lower-level ones; the initial Step row is inserted directly inside
// CreateCase's transaction rather than through stepledger.
package casestore

import (
	"database/sql"

	"github.com/cuemby/workflow-engine/internal/catalog"
)

// Store is the Case Store's data access layer.
type Store struct {
	db      *sql.DB
	catalog *catalog.Store
}

// NewStore wraps db for case/process/process-data access, using cat to
// resolve ProcessDefinitions and Statuses when creating a Case.
func NewStore(db *sql.DB, cat *catalog.Store) *Store {
	return &Store{db: db, catalog: cat}
}
