package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/types"
)

// CreateStatus adds a new Status row. Description uniqueness is enforced
// by the schema's UNIQUE constraint; a violation surfaces as ErrConflict.
func (s *Store) CreateStatus(ctx context.Context, description, usrid string) (*types.Status, error) {
	const q = `INSERT INTO statuses (description, usrid) VALUES ($1, $2)
	           RETURNING statusno, description, tmstamp, usrid`
	row := s.db.QueryRowContext(ctx, q, description, usrid)
	var st types.Status
	if err := row.Scan(&st.StatusNo, &st.Description, &st.Tmstamp, &st.Usrid); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, dberrors.Wrapf(dberrors.ErrConflict, "catalog: status %q already exists", description)
		}
		return nil, dberrors.Wrap("catalog: create status", err)
	}
	return &st, nil
}

// ListStatuses returns every Status, ordered by statusno.
func (s *Store) ListStatuses(ctx context.Context) ([]*types.Status, error) {
	const q = `SELECT statusno, description, tmstamp, usrid FROM statuses ORDER BY statusno`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, dberrors.Wrap("catalog: list statuses", err)
	}
	defer rows.Close()

	var out []*types.Status
	for rows.Next() {
		var st types.Status
		if err := rows.Scan(&st.StatusNo, &st.Description, &st.Tmstamp, &st.Usrid); err != nil {
			return nil, dberrors.Wrap("catalog: scan status", err)
		}
		out = append(out, &st)
	}
	return out, rows.Err()
}

// GetStatus returns a single Status by primary key.
func (s *Store) GetStatus(ctx context.Context, statusNo int64) (*types.Status, error) {
	const q = `SELECT statusno, description, tmstamp, usrid FROM statuses WHERE statusno = $1`
	var st types.Status
	err := s.db.QueryRowContext(ctx, q, statusNo).Scan(&st.StatusNo, &st.Description, &st.Tmstamp, &st.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: get status", err)
	}
	return &st, nil
}

// UpdateStatus renames a Status without altering its primary key.
func (s *Store) UpdateStatus(ctx context.Context, statusNo int64, description, usrid string) (*types.Status, error) {
	const q = `UPDATE statuses SET description = $2, usrid = $3, tmstamp = now()
	           WHERE statusno = $1
	           RETURNING statusno, description, tmstamp, usrid`
	var st types.Status
	err := s.db.QueryRowContext(ctx, q, statusNo, description, usrid).
		Scan(&st.StatusNo, &st.Description, &st.Tmstamp, &st.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: update status", err)
	}
	return &st, nil
}

// ResolveStatusNo looks up a Status by description, case-insensitively,
// as §3 invariant 7 requires for "busy"/"complete" resolution. Missing
// required statuses are a Configuration error, not NotFound, because the
// caller cannot fix this by retrying with different input.
func (s *Store) ResolveStatusNo(ctx context.Context, description string) (int64, error) {
	const q = `SELECT statusno FROM statuses WHERE lower(description) = lower($1) LIMIT 1`
	var no int64
	err := s.db.QueryRowContext(ctx, q, description).Scan(&no)
	if err != nil {
		return 0, dberrors.Wrapf(dberrors.ErrConfiguration, "catalog: resolve status %q", strings.ToLower(description))
	}
	return no, nil
}
