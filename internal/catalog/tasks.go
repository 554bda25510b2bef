package catalog

import (
	"context"
	"database/sql"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/types"
)

func (s *Store) createTask(ctx context.Context, tx *sql.Tx, processDefinitionNo int64, description, reference, usrid string) (*types.Task, error) {
	const q = `INSERT INTO tasks (process_definition_no, description, reference, usrid)
	           VALUES ($1, $2, $3, $4)
	           RETURNING taskno, process_definition_no, description, reference, tmstamp, usrid`
	var t types.Task
	err := tx.QueryRowContext(ctx, q, processDefinitionNo, description, reference, usrid).
		Scan(&t.Taskno, &t.ProcessDefinitionNo, &t.Description, &t.Reference, &t.Tmstamp, &t.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: create task", err)
	}
	return &t, nil
}

// CreateTask adds a Task to an existing ProcessDefinition. Unlike the
// start Task materialized by CreateProcessDefinition, this does not
// create any TaskRule — administrators wire rules separately.
func (s *Store) CreateTask(ctx context.Context, processDefinitionNo int64, description, reference, usrid string) (*types.Task, error) {
	const q = `INSERT INTO tasks (process_definition_no, description, reference, usrid)
	           VALUES ($1, $2, $3, $4)
	           RETURNING taskno, process_definition_no, description, reference, tmstamp, usrid`
	var t types.Task
	err := s.db.QueryRowContext(ctx, q, processDefinitionNo, description, reference, usrid).
		Scan(&t.Taskno, &t.ProcessDefinitionNo, &t.Description, &t.Reference, &t.Tmstamp, &t.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: create task", err)
	}
	return &t, nil
}

func (s *Store) GetTask(ctx context.Context, taskno int64) (*types.Task, error) {
	const q = `SELECT taskno, process_definition_no, description, reference, tmstamp, usrid
	           FROM tasks WHERE taskno = $1`
	var t types.Task
	err := s.db.QueryRowContext(ctx, q, taskno).
		Scan(&t.Taskno, &t.ProcessDefinitionNo, &t.Description, &t.Reference, &t.Tmstamp, &t.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: get task", err)
	}
	return &t, nil
}

func (s *Store) ListTasksByDefinition(ctx context.Context, processDefinitionNo int64) ([]*types.Task, error) {
	const q = `SELECT taskno, process_definition_no, description, reference, tmstamp, usrid
	           FROM tasks WHERE process_definition_no = $1 ORDER BY taskno`
	rows, err := s.db.QueryContext(ctx, q, processDefinitionNo)
	if err != nil {
		return nil, dberrors.Wrap("catalog: list tasks", err)
	}
	defer rows.Close()

	var out []*types.Task
	for rows.Next() {
		var t types.Task
		if err := rows.Scan(&t.Taskno, &t.ProcessDefinitionNo, &t.Description, &t.Reference, &t.Tmstamp, &t.Usrid); err != nil {
			return nil, dberrors.Wrap("catalog: scan task", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, taskno int64, description, reference, usrid string) (*types.Task, error) {
	const q = `UPDATE tasks SET description = $2, reference = $3, usrid = $4, tmstamp = now()
	           WHERE taskno = $1
	           RETURNING taskno, process_definition_no, description, reference, tmstamp, usrid`
	var t types.Task
	err := s.db.QueryRowContext(ctx, q, taskno, description, reference, usrid).
		Scan(&t.Taskno, &t.ProcessDefinitionNo, &t.Description, &t.Reference, &t.Tmstamp, &t.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: update task", err)
	}
	return &t, nil
}
