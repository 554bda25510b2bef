// Package dbconn opens the PostgreSQL connection and provides the single
// WithTx helper every mutating component uses to run its transaction.
// It mirrors the teacher's database/sql usage in
// internal/storage/sqlite/queries.go (acquire a connection, BEGIN, defer
// a rollback-if-not-committed, COMMIT on success) but targets Postgres
// through pgx's database/sql driver so schema pinning and SELECT ... FOR
// UPDATE row locks are available.
package dbconn

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/cuemby/workflow-engine/internal/config"
)

// DB wraps the database/sql handle every store and the Step Advancer
// share. Every query — transactional or not — goes through SQL; there
// is no separate pool, since every read and write in this repo is
// already a *sql.DB/*sql.Tx call and nothing needs pgx's native
// connection interface directly.
type DB struct {
	SQL *sql.DB
}

// Open establishes the connection against cfg.DatabaseURL, pinning the
// search_path to cfg.DatabaseSchema on every new physical connection via
// an AfterConnect hook, matching "the search path / schema is pinned at
// connection acquisition."
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	connCfg, err := pgx.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("dbconn: parsing database url: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connCfg, stdlib.OptionAfterConnect(func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path = %s", quoteIdent(cfg.DatabaseSchema)))
		return err
	}))
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("dbconn: ping: %w", err)
	}

	return &DB{SQL: sqlDB}, nil
}

// Close releases the connection. Safe to call once during shutdown.
func (d *DB) Close() {
	_ = d.SQL.Close()
}

func quoteIdent(ident string) string {
	return `"` + ident + `"`
}
