package catalog

import (
	"context"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/types"
)

func (s *Store) CreateProcessType(ctx context.Context, description, usrid string) (*types.ProcessType, error) {
	const q = `INSERT INTO process_types (description, usrid) VALUES ($1, $2)
	           RETURNING process_type_no, description, tmstamp, usrid`
	var pt types.ProcessType
	err := s.db.QueryRowContext(ctx, q, description, usrid).
		Scan(&pt.ProcessTypeNo, &pt.Description, &pt.Tmstamp, &pt.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: create process type", err)
	}
	return &pt, nil
}

func (s *Store) GetProcessType(ctx context.Context, no int64) (*types.ProcessType, error) {
	const q = `SELECT process_type_no, description, tmstamp, usrid FROM process_types WHERE process_type_no = $1`
	var pt types.ProcessType
	err := s.db.QueryRowContext(ctx, q, no).Scan(&pt.ProcessTypeNo, &pt.Description, &pt.Tmstamp, &pt.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: get process type", err)
	}
	return &pt, nil
}

func (s *Store) ListProcessTypes(ctx context.Context) ([]*types.ProcessType, error) {
	const q = `SELECT process_type_no, description, tmstamp, usrid FROM process_types ORDER BY process_type_no`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, dberrors.Wrap("catalog: list process types", err)
	}
	defer rows.Close()

	var out []*types.ProcessType
	for rows.Next() {
		var pt types.ProcessType
		if err := rows.Scan(&pt.ProcessTypeNo, &pt.Description, &pt.Tmstamp, &pt.Usrid); err != nil {
			return nil, dberrors.Wrap("catalog: scan process type", err)
		}
		out = append(out, &pt)
	}
	return out, rows.Err()
}

func (s *Store) UpdateProcessType(ctx context.Context, no int64, description, usrid string) (*types.ProcessType, error) {
	const q = `UPDATE process_types SET description = $2, usrid = $3, tmstamp = now()
	           WHERE process_type_no = $1
	           RETURNING process_type_no, description, tmstamp, usrid`
	var pt types.ProcessType
	err := s.db.QueryRowContext(ctx, q, no, description, usrid).
		Scan(&pt.ProcessTypeNo, &pt.Description, &pt.Tmstamp, &pt.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: update process type", err)
	}
	return &pt, nil
}
