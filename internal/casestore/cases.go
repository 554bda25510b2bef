package casestore

import (
	"context"
	"database/sql"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/dbconn"
	"github.com/cuemby/workflow-engine/internal/types"
)

// CreateCase implements §4.2's Create Case: it resolves the active
// ProcessDefinition for processTypeNo and the "busy" status before
// opening a transaction, then inserts the Case, its initial Process and
// its initial Step atomically. A missing active ProcessDefinition is
// ErrNotFound; a missing "busy" status is ErrConflict, matching the
// spec's explicit "Fails with Conflict if busy status is not configured."
func (s *Store) CreateCase(ctx context.Context, clientID, clientType string, processTypeNo int64, usrid string) (*types.Case, *types.Process, *types.Step, error) {
	def, err := s.catalog.ActiveProcessDefinitionForType(ctx, processTypeNo)
	if err != nil {
		return nil, nil, nil, dberrors.Wrapf(dberrors.ErrNotFound, "casestore: no active process definition for process_type_no %d", processTypeNo)
	}

	busyNo, err := s.catalog.ResolveStatusNo(ctx, "busy")
	if err != nil {
		return nil, nil, nil, dberrors.Wrapf(dberrors.ErrConflict, "casestore: %v", err)
	}

	var theCase types.Case
	var proc types.Process
	var step types.Step

	err = dbconn.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		const insertCase = `INSERT INTO cases (client_id, client_type, usrid) VALUES ($1, $2, $3)
		                     RETURNING caseno, client_id, client_type, date_created, usrid, tmstamp`
		if err := tx.QueryRowContext(ctx, insertCase, clientID, clientType, usrid).Scan(
			&theCase.Caseno, &theCase.ClientID, &theCase.ClientType, &theCase.DateCreated, &theCase.Usrid, &theCase.Tmstamp,
		); err != nil {
			return dberrors.Wrap("casestore: insert case", err)
		}

		const insertProcess = `INSERT INTO processes (case_no, process_type_no, status_no, usrid) VALUES ($1, $2, $3, $4)
		                        RETURNING processno, case_no, process_type_no, status_no, date_started, date_ended, tmstamp, usrid`
		if err := tx.QueryRowContext(ctx, insertProcess, theCase.Caseno, processTypeNo, busyNo, usrid).Scan(
			&proc.Processno, &proc.CaseNo, &proc.ProcessTypeNo, &proc.StatusNo, &proc.DateStarted, &proc.DateEnded, &proc.Tmstamp, &proc.Usrid,
		); err != nil {
			return dberrors.Wrap("casestore: insert process", err)
		}

		const insertStep = `INSERT INTO steps (processno, taskno, status_no, usrid) VALUES ($1, $2, $3, $4)
		                     RETURNING stepno, processno, taskno, status_no, date_started, date_ended, tmstamp, usrid`
		if err := tx.QueryRowContext(ctx, insertStep, proc.Processno, def.StartTaskNo, busyNo, usrid).Scan(
			&step.Stepno, &step.Processno, &step.Taskno, &step.StatusNo, &step.DateStarted, &step.DateEnded, &step.Tmstamp, &step.Usrid,
		); err != nil {
			return dberrors.Wrap("casestore: insert initial step", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return &theCase, &proc, &step, nil
}

func (s *Store) getCaseRow(ctx context.Context, caseno int64) (*types.Case, error) {
	const q = `SELECT caseno, client_id, client_type, date_created, usrid, tmstamp FROM cases WHERE caseno = $1`
	var c types.Case
	err := s.db.QueryRowContext(ctx, q, caseno).Scan(&c.Caseno, &c.ClientID, &c.ClientType, &c.DateCreated, &c.Usrid, &c.Tmstamp)
	if err != nil {
		return nil, dberrors.Wrap("casestore: get case", err)
	}
	return &c, nil
}

// GetCase returns a Case by primary key, enforcing ownership per §4.2
// ("Read Case: unrestricted to admins; non-admins authorized only for
// their own cases"). A non-owner's request surfaces as ErrNotFound
// (not ErrAuthorization) so existence of another user's case is not
// leaked, matching scenario 6 ("returns empty or 404").
func (s *Store) GetCase(ctx context.Context, caseno int64, callerUsrid string, isAdmin bool) (*types.Case, error) {
	c, err := s.getCaseRow(ctx, caseno)
	if err != nil {
		return nil, err
	}
	if !isAdmin && c.Usrid != callerUsrid {
		return nil, dberrors.ErrNotFound
	}
	return c, nil
}

// ListCases returns every Case for admins, or only the caller's own
// Cases for non-admins, per §4.2.
func (s *Store) ListCases(ctx context.Context, callerUsrid string, isAdmin bool) ([]*types.Case, error) {
	var rows *sql.Rows
	var err error
	if isAdmin {
		rows, err = s.db.QueryContext(ctx, `SELECT caseno, client_id, client_type, date_created, usrid, tmstamp FROM cases ORDER BY caseno`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT caseno, client_id, client_type, date_created, usrid, tmstamp FROM cases WHERE usrid = $1 ORDER BY caseno`, callerUsrid)
	}
	if err != nil {
		return nil, dberrors.Wrap("casestore: list cases", err)
	}
	defer rows.Close()

	var out []*types.Case
	for rows.Next() {
		var c types.Case
		if err := rows.Scan(&c.Caseno, &c.ClientID, &c.ClientType, &c.DateCreated, &c.Usrid, &c.Tmstamp); err != nil {
			return nil, dberrors.Wrap("casestore: scan case", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
