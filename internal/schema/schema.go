// Package schema embeds the bootstrap SQL for the engine's tables. This
// is intentionally not a migration framework (out of scope per spec) —
// just the one-shot DDL a fresh database needs, the way the teacher
// embeds its web UI templates with go:embed in cmd/bd/serve.go.
package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var bootstrapSQL string

// Bootstrap applies the embedded schema. It is idempotent (every
// statement is IF NOT EXISTS / ON CONFLICT DO NOTHING) so it is safe to
// run against an already-initialized database.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, bootstrapSQL); err != nil {
		return fmt.Errorf("schema: bootstrap: %w", err)
	}
	return nil
}
