package catalog

import (
	"context"
	"database/sql"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/dbconn"
	"github.com/cuemby/workflow-engine/internal/types"
)

// CreateProcessDefinition inserts a ProcessDefinition together with its
// materialized start Task and the self-loop `default` TaskRule the spec
// requires administrators to later overwrite (§4.1). All three rows are
// inserted in one transaction: the ProcessDefinition's start_task_no is
// not knowable until the Task exists, so it is inserted once with a
// zero-value start_task_no and updated after the Task is created.
func (s *Store) CreateProcessDefinition(ctx context.Context, processTypeNo int64, version int, startTaskDescription, usrid string) (*types.ProcessDefinition, *types.Task, error) {
	var def types.ProcessDefinition
	var startTask *types.Task

	err := dbconn.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		const insertDef = `INSERT INTO process_definitions (process_type_no, start_task_no, version, is_active, usrid)
		                    VALUES ($1, 0, $2, true, $3)
		                    RETURNING process_definition_no, process_type_no, start_task_no, version, is_active, tmstamp, usrid`
		if err := tx.QueryRowContext(ctx, insertDef, processTypeNo, version, usrid).Scan(
			&def.ProcessDefinitionNo, &def.ProcessTypeNo, &def.StartTaskNo, &def.Version, &def.IsActive, &def.Tmstamp, &def.Usrid); err != nil {
			return dberrors.Wrap("catalog: insert process definition", err)
		}

		var err error
		startTask, err = s.createTask(ctx, tx, def.ProcessDefinitionNo, startTaskDescription, "", usrid)
		if err != nil {
			return err
		}

		const updateDef = `UPDATE process_definitions SET start_task_no = $2 WHERE process_definition_no = $1`
		if _, err := tx.ExecContext(ctx, updateDef, def.ProcessDefinitionNo, startTask.Taskno); err != nil {
			return dberrors.Wrap("catalog: set start task", err)
		}
		def.StartTaskNo = startTask.Taskno

		const insertRule = `INSERT INTO task_rules (taskno, rule, next_task_no, usrid) VALUES ($1, 'default', $1, $2)`
		if _, err := tx.ExecContext(ctx, insertRule, startTask.Taskno, usrid); err != nil {
			return dberrors.Wrap("catalog: insert default self-loop task rule", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &def, startTask, nil
}

func (s *Store) GetProcessDefinition(ctx context.Context, no int64) (*types.ProcessDefinition, error) {
	const q = `SELECT process_definition_no, process_type_no, start_task_no, version, is_active, tmstamp, usrid
	           FROM process_definitions WHERE process_definition_no = $1`
	var def types.ProcessDefinition
	err := s.db.QueryRowContext(ctx, q, no).Scan(
		&def.ProcessDefinitionNo, &def.ProcessTypeNo, &def.StartTaskNo, &def.Version, &def.IsActive, &def.Tmstamp, &def.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: get process definition", err)
	}
	return &def, nil
}

func (s *Store) ListProcessDefinitions(ctx context.Context) ([]*types.ProcessDefinition, error) {
	const q = `SELECT process_definition_no, process_type_no, start_task_no, version, is_active, tmstamp, usrid
	           FROM process_definitions ORDER BY process_definition_no`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, dberrors.Wrap("catalog: list process definitions", err)
	}
	defer rows.Close()

	var out []*types.ProcessDefinition
	for rows.Next() {
		var def types.ProcessDefinition
		if err := rows.Scan(&def.ProcessDefinitionNo, &def.ProcessTypeNo, &def.StartTaskNo, &def.Version, &def.IsActive, &def.Tmstamp, &def.Usrid); err != nil {
			return nil, dberrors.Wrap("catalog: scan process definition", err)
		}
		out = append(out, &def)
	}
	return out, rows.Err()
}

// ActiveProcessDefinitionForType returns the active ProcessDefinition for
// a ProcessType, or ErrNotFound if none is active — the failure Case
// Store's Create Case surfaces when no definition exists.
func (s *Store) ActiveProcessDefinitionForType(ctx context.Context, processTypeNo int64) (*types.ProcessDefinition, error) {
	const q = `SELECT process_definition_no, process_type_no, start_task_no, version, is_active, tmstamp, usrid
	           FROM process_definitions WHERE process_type_no = $1 AND is_active = true
	           ORDER BY version DESC LIMIT 1`
	var def types.ProcessDefinition
	err := s.db.QueryRowContext(ctx, q, processTypeNo).Scan(
		&def.ProcessDefinitionNo, &def.ProcessTypeNo, &def.StartTaskNo, &def.Version, &def.IsActive, &def.Tmstamp, &def.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: active process definition", err)
	}
	return &def, nil
}

// UpdateProcessDefinition changes the mutable fields of a
// ProcessDefinition. startTaskNo is always checked and must resolve to an
// existing Task (§4.1 contract), so an omitted (zero) value also fails
// with ErrValidation.
func (s *Store) UpdateProcessDefinition(ctx context.Context, no int64, startTaskNo int64, version int, isActive bool, usrid string) (*types.ProcessDefinition, error) {
	exists, err := s.taskExists(ctx, nil, startTaskNo)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, dberrors.Wrapf(dberrors.ErrValidation, "catalog: start_task_no %d does not resolve to an existing task", startTaskNo)
	}

	const q = `UPDATE process_definitions SET start_task_no = $2, version = $3, is_active = $4, usrid = $5, tmstamp = now()
	           WHERE process_definition_no = $1
	           RETURNING process_definition_no, process_type_no, start_task_no, version, is_active, tmstamp, usrid`
	var def types.ProcessDefinition
	err = s.db.QueryRowContext(ctx, q, no, startTaskNo, version, isActive, usrid).Scan(
		&def.ProcessDefinitionNo, &def.ProcessTypeNo, &def.StartTaskNo, &def.Version, &def.IsActive, &def.Tmstamp, &def.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: update process definition", err)
	}
	return &def, nil
}
