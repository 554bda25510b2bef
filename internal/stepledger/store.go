// Package stepledger implements the Step Ledger: the append-only record
// of every Task a Process has entered and, once closed, completed. Steps
// are never updated after their date_ended is set (invariant 2); the
// Step Advancer is the only writer that closes a Step or opens the next
// one, and it does so through this package's transactional helpers.
package stepledger

import "database/sql"

// Store is the Step Ledger's data access layer.
type Store struct {
	db *sql.DB
}

// NewStore wraps db for Step read/write access.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}
