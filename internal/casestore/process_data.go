package casestore

import (
	"context"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/types"
)

// CreateProcessData appends a new ProcessData row for processno. Values
// are append-only (no operation updates an existing row), so a
// repeated Fieldname simply produces a new row with a higher
// ProcessDataNo; the Rule Evaluator's Snapshot resolves ties by taking
// the highest ProcessDataNo per (type, field).
func (s *Store) CreateProcessData(ctx context.Context, processno, processDataTypeNo int64, fieldname, value, usrid string) (*types.ProcessData, error) {
	const q = `INSERT INTO process_data (processno, process_data_type_no, fieldname, value, usrid)
	           VALUES ($1, $2, $3, $4, $5)
	           RETURNING process_data_no, processno, process_data_type_no, fieldname, value, tmstamp, usrid`
	var pd types.ProcessData
	err := s.db.QueryRowContext(ctx, q, processno, processDataTypeNo, fieldname, value, usrid).Scan(
		&pd.ProcessDataNo, &pd.Processno, &pd.ProcessDataTypeNo, &pd.Fieldname, &pd.Value, &pd.Tmstamp, &pd.Usrid,
	)
	if err != nil {
		return nil, dberrors.Wrap("casestore: create process data", err)
	}
	return &pd, nil
}

// ListProcessDataForProcess returns every ProcessData row recorded
// against processno, in insertion order, enforcing the same case
// ownership rule as GetProcess for non-admin callers.
func (s *Store) ListProcessDataForProcess(ctx context.Context, processno int64, callerUsrid string, isAdmin bool) ([]*types.ProcessData, error) {
	if !isAdmin {
		if _, err := s.GetProcess(ctx, processno, callerUsrid, isAdmin); err != nil {
			return nil, err
		}
	}

	const q = `SELECT process_data_no, processno, process_data_type_no, fieldname, value, tmstamp, usrid
	           FROM process_data WHERE processno = $1 ORDER BY process_data_no`
	rows, err := s.db.QueryContext(ctx, q, processno)
	if err != nil {
		return nil, dberrors.Wrap("casestore: list process data", err)
	}
	defer rows.Close()

	var out []*types.ProcessData
	for rows.Next() {
		var pd types.ProcessData
		if err := rows.Scan(&pd.ProcessDataNo, &pd.Processno, &pd.ProcessDataTypeNo, &pd.Fieldname, &pd.Value, &pd.Tmstamp, &pd.Usrid); err != nil {
			return nil, dberrors.Wrap("casestore: scan process data", err)
		}
		out = append(out, &pd)
	}
	return out, rows.Err()
}

// SnapshotPoints loads all ProcessData for processno in the shape the
// Rule Evaluator's Snapshot constructor expects, joining in each
// ProcessDataType's description since TaskRules reference data by type
// description, not numeric key.
func (s *Store) SnapshotPoints(ctx context.Context, processno int64) ([]SnapshotPoint, error) {
	const q = `SELECT pd.process_data_no, pdt.description, pd.fieldname, pd.value
	           FROM process_data pd
	           JOIN process_data_types pdt ON pdt.process_data_type_no = pd.process_data_type_no
	           WHERE pd.processno = $1`
	rows, err := s.db.QueryContext(ctx, q, processno)
	if err != nil {
		return nil, dberrors.Wrap("casestore: snapshot points", err)
	}
	defer rows.Close()

	var out []SnapshotPoint
	for rows.Next() {
		var sp SnapshotPoint
		if err := rows.Scan(&sp.ProcessDataNo, &sp.TypeDesc, &sp.Field, &sp.Value); err != nil {
			return nil, dberrors.Wrap("casestore: scan snapshot point", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// SnapshotPoint mirrors ruleeval.DataPoint without importing ruleeval,
// keeping casestore a pure data-access layer; the advancer package
// converts these into ruleeval.DataPoint values.
type SnapshotPoint struct {
	ProcessDataNo int64
	TypeDesc      string
	Field         string
	Value         string
}
