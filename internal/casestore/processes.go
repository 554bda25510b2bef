package casestore

import (
	"context"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/types"
)

const selectProcess = `SELECT processno, case_no, process_type_no, status_no, date_started, date_ended, tmstamp, usrid FROM processes`

func scanProcess(row interface{ Scan(...interface{}) error }, p *types.Process) error {
	return row.Scan(&p.Processno, &p.CaseNo, &p.ProcessTypeNo, &p.StatusNo, &p.DateStarted, &p.DateEnded, &p.Tmstamp, &p.Usrid)
}

// GetProcess returns a Process by primary key, enforcing the same
// ownership rule as GetCase: a non-admin caller may only read Processes
// belonging to one of their own Cases.
func (s *Store) GetProcess(ctx context.Context, processno int64, callerUsrid string, isAdmin bool) (*types.Process, error) {
	var p types.Process
	err := scanProcess(s.db.QueryRowContext(ctx, selectProcess+` WHERE processno = $1`, processno), &p)
	if err != nil {
		return nil, dberrors.Wrap("casestore: get process", err)
	}
	if !isAdmin {
		owned, err := s.callerOwnsCase(ctx, p.CaseNo, callerUsrid)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, dberrors.ErrNotFound
		}
	}
	return &p, nil
}

// ListProcessesForCase returns every Process belonging to caseno, for the
// case-scoped routes (current step, step history, process data). Ownership
// is enforced by the caller resolving caseno via GetCase first; this method
// itself performs no filtering beyond the case_no predicate.
func (s *Store) ListProcessesForCase(ctx context.Context, caseno int64) ([]*types.Process, error) {
	rows, err := s.db.QueryContext(ctx, selectProcess+` WHERE case_no = $1 ORDER BY processno`, caseno)
	if err != nil {
		return nil, dberrors.Wrap("casestore: list processes for case", err)
	}
	defer rows.Close()

	var out []*types.Process
	for rows.Next() {
		var p types.Process
		if err := scanProcess(rows, &p); err != nil {
			return nil, dberrors.Wrap("casestore: scan process", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ListProcesses returns every Process in the system, restricted to
// admin callers per §6.
func (s *Store) ListProcesses(ctx context.Context) ([]*types.Process, error) {
	rows, err := s.db.QueryContext(ctx, selectProcess+` ORDER BY processno`)
	if err != nil {
		return nil, dberrors.Wrap("casestore: list processes", err)
	}
	defer rows.Close()

	var out []*types.Process
	for rows.Next() {
		var p types.Process
		if err := scanProcess(rows, &p); err != nil {
			return nil, dberrors.Wrap("casestore: scan process", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (s *Store) callerOwnsCase(ctx context.Context, caseno int64, callerUsrid string) (bool, error) {
	const q = `SELECT usrid FROM cases WHERE caseno = $1`
	var owner string
	if err := s.db.QueryRowContext(ctx, q, caseno).Scan(&owner); err != nil {
		return false, dberrors.Wrap("casestore: resolve case owner", err)
	}
	return owner == callerUsrid, nil
}
