package stepledger

import (
	"context"
	"database/sql"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/types"
)

const selectStep = `SELECT stepno, processno, taskno, status_no, date_started, date_ended, tmstamp, usrid FROM steps`

func scanStep(row interface{ Scan(...interface{}) error }, st *types.Step) error {
	return row.Scan(&st.Stepno, &st.Processno, &st.Taskno, &st.StatusNo, &st.DateStarted, &st.DateEnded, &st.Tmstamp, &st.Usrid)
}

// GetStep returns a Step by primary key.
func (s *Store) GetStep(ctx context.Context, stepno int64) (*types.Step, error) {
	var st types.Step
	if err := scanStep(s.db.QueryRowContext(ctx, selectStep+` WHERE stepno = $1`, stepno), &st); err != nil {
		return nil, dberrors.Wrap("stepledger: get step", err)
	}
	return &st, nil
}

// ListStepsForProcess returns every Step recorded against processno, in
// the order they were opened, for admin and owner inspection per §6.
func (s *Store) ListStepsForProcess(ctx context.Context, processno int64) ([]*types.Step, error) {
	rows, err := s.db.QueryContext(ctx, selectStep+` WHERE processno = $1 ORDER BY date_started ASC`, processno)
	if err != nil {
		return nil, dberrors.Wrap("stepledger: list steps for process", err)
	}
	defer rows.Close()
	return scanSteps(rows)
}

// ListSteps returns every Step in the system, restricted to admin
// callers per §6.
func (s *Store) ListSteps(ctx context.Context) ([]*types.Step, error) {
	rows, err := s.db.QueryContext(ctx, selectStep+` ORDER BY date_started ASC`)
	if err != nil {
		return nil, dberrors.Wrap("stepledger: list steps", err)
	}
	defer rows.Close()
	return scanSteps(rows)
}

func scanSteps(rows *sql.Rows) ([]*types.Step, error) {
	var out []*types.Step
	for rows.Next() {
		var st types.Step
		if err := scanStep(rows, &st); err != nil {
			return nil, dberrors.Wrap("stepledger: scan step", err)
		}
		out = append(out, &st)
	}
	return out, rows.Err()
}

// CurrentBusyStep returns the single busy Step open on processno, or
// ErrNotFound if the Process has already completed (no busy Step
// remains). A Process has at most one busy Step at a time (invariant 1).
func (s *Store) CurrentBusyStep(ctx context.Context, processno, busyStatusNo int64) (*types.Step, error) {
	const q = `SELECT stepno, processno, taskno, status_no, date_started, date_ended, tmstamp, usrid
	           FROM steps WHERE processno = $1 AND status_no = $2
	           ORDER BY date_started DESC LIMIT 1`
	var st types.Step
	err := s.db.QueryRowContext(ctx, q, processno, busyStatusNo).Scan(
		&st.Stepno, &st.Processno, &st.Taskno, &st.StatusNo, &st.DateStarted, &st.DateEnded, &st.Tmstamp, &st.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("stepledger: current busy step", err)
	}
	return &st, nil
}

// CloseStep marks stepno complete (status_no = completeStatusNo,
// date_ended = now) within tx. Once closed, a Step is never reopened or
// otherwise mutated (invariant 2).
func (s *Store) CloseStep(ctx context.Context, tx *sql.Tx, stepno, completeStatusNo int64, usrid string) error {
	const q = `UPDATE steps SET status_no = $2, date_ended = now(), usrid = $3, tmstamp = now()
	           WHERE stepno = $1 AND date_ended IS NULL`
	res, err := tx.ExecContext(ctx, q, stepno, completeStatusNo, usrid)
	if err != nil {
		return dberrors.Wrap("stepledger: close step", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dberrors.Wrap("stepledger: close step rows affected", err)
	}
	if n == 0 {
		return dberrors.Wrapf(dberrors.ErrConflict, "stepledger: step %d already closed", stepno)
	}
	return nil
}

// OpenStep inserts the next busy Step for processno within tx, advancing
// the Process onto taskno.
func (s *Store) OpenStep(ctx context.Context, tx *sql.Tx, processno, taskno, busyStatusNo int64, usrid string) (*types.Step, error) {
	const q = `INSERT INTO steps (processno, taskno, status_no, usrid) VALUES ($1, $2, $3, $4)
	           RETURNING stepno, processno, taskno, status_no, date_started, date_ended, tmstamp, usrid`
	var st types.Step
	err := tx.QueryRowContext(ctx, q, processno, taskno, busyStatusNo, usrid).Scan(
		&st.Stepno, &st.Processno, &st.Taskno, &st.StatusNo, &st.DateStarted, &st.DateEnded, &st.Tmstamp, &st.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("stepledger: open step", err)
	}
	return &st, nil
}
