// Package advancer implements the Step Advancer: the transactional
// procedure that closes a busy Step, selects the next Task via the Rule
// Evaluator, and either opens the next busy Step or completes the
// Process. It is the only writer of Step/Process status transitions.
package advancer

import (
	"context"
	"database/sql"

	"github.com/cuemby/workflow-engine/internal/catalog"
	"github.com/cuemby/workflow-engine/internal/casestore"
	"github.com/cuemby/workflow-engine/internal/dberrors"
	"github.com/cuemby/workflow-engine/internal/dbconn"
	"github.com/cuemby/workflow-engine/internal/ruleeval"
	"github.com/cuemby/workflow-engine/internal/stepledger"
	"github.com/cuemby/workflow-engine/internal/types"
)

// Advancer wires the Step Ledger, Catalog and Case Store data-access
// layers together to run the §4.5 algorithm inside a single database
// transaction.
type Advancer struct {
	db      *sql.DB
	steps   *stepledger.Store
	catalog *catalog.Store
	cases   *casestore.Store
}

// New builds an Advancer over the given stores, all sharing db.
func New(db *sql.DB, steps *stepledger.Store, cat *catalog.Store, cases *casestore.Store) *Advancer {
	return &Advancer{db: db, steps: steps, catalog: cat, cases: cases}
}

// Result is what CloseStep returns on success: the Step that was just
// closed, and either the newly opened Step or nothing (if the Process
// completed instead).
type Result struct {
	ClosedStep  *types.Step
	NextStep    *types.Step // nil when the Process completed
	Completed   bool
}

// CloseStep runs the §4.5 algorithm against stepno on behalf of usrid.
// It takes no rule_data: the Rule Evaluator reads only the ProcessData
// persisted against the Step's Process, and the HTTP handler decodes a
// request's rule_data without passing it on.
func (a *Advancer) CloseStep(ctx context.Context, stepno int64, usrid string) (*Result, error) {
	busyNo, err := a.catalog.ResolveStatusNo(ctx, "busy")
	if err != nil {
		return nil, dberrors.Wrapf(dberrors.ErrConfiguration, "advancer: %v", err)
	}
	completeNo, err := a.catalog.ResolveStatusNo(ctx, "complete")
	if err != nil {
		return nil, dberrors.Wrapf(dberrors.ErrConfiguration, "advancer: %v", err)
	}

	var result *Result

	err = dbconn.WithTx(ctx, a.db, func(tx *sql.Tx) error {
		step, err := a.lockStep(ctx, tx, stepno)
		if err != nil {
			return err
		}

		if step.StatusNo != busyNo {
			return dberrors.Wrapf(dberrors.ErrConflict, "advancer: step %d is not busy", stepno)
		}

		rules, err := a.catalog.ListTaskRulesForTask(ctx, step.Taskno)
		if err != nil {
			return err
		}

		var nonDefault []*types.TaskRule
		var defaultRule *types.TaskRule
		for _, r := range rules {
			if r.IsDefault() {
				rr := r
				defaultRule = rr
				continue
			}
			nonDefault = append(nonDefault, r)
		}

		points, err := a.cases.SnapshotPoints(ctx, step.Processno)
		if err != nil {
			return err
		}
		snap := ruleeval.NewSnapshot(toDataPoints(points))

		var nextTaskNo *int64
		matched := false
		for _, r := range nonDefault {
			if ruleeval.Evaluate(r.Rule, snap) {
				nextTaskNo = r.NextTaskNo
				matched = true
				break
			}
		}
		if !matched {
			if defaultRule == nil {
				return dberrors.Wrapf(dberrors.ErrConflict, "advancer: no matching rule and no default task found for task %d", step.Taskno)
			}
			nextTaskNo = defaultRule.NextTaskNo
		}

		if err := a.steps.CloseStep(ctx, tx, step.Stepno, completeNo, usrid); err != nil {
			return err
		}
		step.StatusNo = completeNo

		result = &Result{ClosedStep: step}

		if nextTaskNo == nil {
			if err := a.completeProcess(ctx, tx, step.Processno, completeNo); err != nil {
				return err
			}
			result.Completed = true
		} else {
			next, err := a.steps.OpenStep(ctx, tx, step.Processno, *nextTaskNo, busyNo, usrid)
			if err != nil {
				return err
			}
			result.NextStep = next
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (a *Advancer) lockStep(ctx context.Context, tx *sql.Tx, stepno int64) (*types.Step, error) {
	const q = `SELECT stepno, processno, taskno, status_no, date_started, date_ended, tmstamp, usrid
	           FROM steps WHERE stepno = $1 FOR UPDATE`
	var st types.Step
	err := tx.QueryRowContext(ctx, q, stepno).Scan(
		&st.Stepno, &st.Processno, &st.Taskno, &st.StatusNo, &st.DateStarted, &st.DateEnded, &st.Tmstamp, &st.Usrid)
	if err != nil {
		return nil, dberrors.Wrap("advancer: lock step", err)
	}
	return &st, nil
}

func (a *Advancer) completeProcess(ctx context.Context, tx *sql.Tx, processno, completeNo int64) error {
	const q = `UPDATE processes SET status_no = $2, date_ended = now(), tmstamp = now() WHERE processno = $1`
	if _, err := tx.ExecContext(ctx, q, processno, completeNo); err != nil {
		return dberrors.Wrap("advancer: complete process", err)
	}
	return nil
}

func toDataPoints(points []casestore.SnapshotPoint) []ruleeval.DataPoint {
	out := make([]ruleeval.DataPoint, len(points))
	for i, p := range points {
		out[i] = ruleeval.DataPoint{
			TypeDesc:      p.TypeDesc,
			Field:         p.Field,
			Value:         p.Value,
			ProcessDataNo: p.ProcessDataNo,
		}
	}
	return out
}
