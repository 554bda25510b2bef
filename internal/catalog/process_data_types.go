package catalog

import (
	"context"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/types"
)

func (s *Store) CreateProcessDataType(ctx context.Context, description, usrid string) (*types.ProcessDataType, error) {
	const q = `INSERT INTO process_data_types (description, usrid) VALUES ($1, $2)
	           RETURNING process_data_type_no, description, tmstamp, usrid`
	var pdt types.ProcessDataType
	err := s.db.QueryRowContext(ctx, q, description, usrid).
		Scan(&pdt.ProcessDataTypeNo, &pdt.Description, &pdt.Tmstamp, &pdt.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: create process data type", err)
	}
	return &pdt, nil
}

func (s *Store) GetProcessDataType(ctx context.Context, no int64) (*types.ProcessDataType, error) {
	const q = `SELECT process_data_type_no, description, tmstamp, usrid FROM process_data_types WHERE process_data_type_no = $1`
	var pdt types.ProcessDataType
	err := s.db.QueryRowContext(ctx, q, no).Scan(&pdt.ProcessDataTypeNo, &pdt.Description, &pdt.Tmstamp, &pdt.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: get process data type", err)
	}
	return &pdt, nil
}

func (s *Store) ListProcessDataTypes(ctx context.Context) ([]*types.ProcessDataType, error) {
	const q = `SELECT process_data_type_no, description, tmstamp, usrid FROM process_data_types ORDER BY process_data_type_no`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, dberrors.Wrap("catalog: list process data types", err)
	}
	defer rows.Close()

	var out []*types.ProcessDataType
	for rows.Next() {
		var pdt types.ProcessDataType
		if err := rows.Scan(&pdt.ProcessDataTypeNo, &pdt.Description, &pdt.Tmstamp, &pdt.Usrid); err != nil {
			return nil, dberrors.Wrap("catalog: scan process data type", err)
		}
		out = append(out, &pdt)
	}
	return out, rows.Err()
}

func (s *Store) UpdateProcessDataType(ctx context.Context, no int64, description, usrid string) (*types.ProcessDataType, error) {
	const q = `UPDATE process_data_types SET description = $2, usrid = $3, tmstamp = now()
	           WHERE process_data_type_no = $1
	           RETURNING process_data_type_no, description, tmstamp, usrid`
	var pdt types.ProcessDataType
	err := s.db.QueryRowContext(ctx, q, no, description, usrid).
		Scan(&pdt.ProcessDataTypeNo, &pdt.Description, &pdt.Tmstamp, &pdt.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: update process data type", err)
	}
	return &pdt, nil
}
