package catalog

import (
	"context"

	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/types"
)

func (s *Store) CreateTaskRule(ctx context.Context, taskno int64, rule string, nextTaskNo *int64, usrid string) (*types.TaskRule, error) {
	const q = `INSERT INTO task_rules (taskno, rule, next_task_no, usrid) VALUES ($1, $2, $3, $4)
	           RETURNING taskruleno, taskno, rule, next_task_no, tmstamp, usrid`
	var r types.TaskRule
	err := s.db.QueryRowContext(ctx, q, taskno, rule, nextTaskNo, usrid).
		Scan(&r.Taskruleno, &r.Taskno, &r.Rule, &r.NextTaskNo, &r.Tmstamp, &r.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: create task rule", err)
	}
	return &r, nil
}

func (s *Store) GetTaskRule(ctx context.Context, taskruleno int64) (*types.TaskRule, error) {
	const q = `SELECT taskruleno, taskno, rule, next_task_no, tmstamp, usrid
	           FROM task_rules WHERE taskruleno = $1`
	var r types.TaskRule
	err := s.db.QueryRowContext(ctx, q, taskruleno).
		Scan(&r.Taskruleno, &r.Taskno, &r.Rule, &r.NextTaskNo, &r.Tmstamp, &r.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: get task rule", err)
	}
	return &r, nil
}

// ListTaskRulesForTask returns every TaskRule on taskno in storage order
// (taskruleno ascending), the order the Step Advancer's rule selection
// (§4.5 step 7) iterates in.
func (s *Store) ListTaskRulesForTask(ctx context.Context, taskno int64) ([]*types.TaskRule, error) {
	const q = `SELECT taskruleno, taskno, rule, next_task_no, tmstamp, usrid
	           FROM task_rules WHERE taskno = $1 ORDER BY taskruleno`
	rows, err := s.db.QueryContext(ctx, q, taskno)
	if err != nil {
		return nil, dberrors.Wrap("catalog: list task rules", err)
	}
	defer rows.Close()

	var out []*types.TaskRule
	for rows.Next() {
		var r types.TaskRule
		if err := rows.Scan(&r.Taskruleno, &r.Taskno, &r.Rule, &r.NextTaskNo, &r.Tmstamp, &r.Usrid); err != nil {
			return nil, dberrors.Wrap("catalog: scan task rule", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTaskRule(ctx context.Context, taskruleno int64, rule string, nextTaskNo *int64, usrid string) (*types.TaskRule, error) {
	const q = `UPDATE task_rules SET rule = $2, next_task_no = $3, usrid = $4, tmstamp = now()
	           WHERE taskruleno = $1
	           RETURNING taskruleno, taskno, rule, next_task_no, tmstamp, usrid`
	var r types.TaskRule
	err := s.db.QueryRowContext(ctx, q, taskruleno, rule, nextTaskNo, usrid).
		Scan(&r.Taskruleno, &r.Taskno, &r.Rule, &r.NextTaskNo, &r.Tmstamp, &r.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("catalog: update task rule", err)
	}
	return &r, nil
}
