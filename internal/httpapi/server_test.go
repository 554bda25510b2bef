package httpapi

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/workflow-engine/internal/advancer"
	"github.com/cuemby/workflow-engine/internal/authz"
	"github.com/cuemby/workflow-engine/internal/casestore"
	"github.com/cuemby/workflow-engine/internal/catalog"
	"github.com/cuemby/workflow-engine/internal/stepledger"
	"github.com/cuemby/workflow-engine/internal/types"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cat := catalog.NewStore(db)
	cases := casestore.NewStore(db, cat)
	steps := stepledger.NewStore(db)
	adv := advancer.New(db, steps, cat, cases)
	users := authz.NewUserStore(db)
	tokens := authz.NewTokenIssuer([]byte("test-key"), time.Hour)

	log := slog.New(slog.NewTextHandler(discard{}, nil))
	srv := New(log, cat, cases, steps, adv, users, tokens)
	return srv, mock, func() { db.Close() }
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func withTestCaller(ctx context.Context, usrid string, role types.Role) context.Context {
	return context.WithValue(ctx, ctxKeyCaller, authz.Caller{Usrid: usrid, Role: role})
}

func TestGetCaseNonOwnerReturns404(t *testing.T) {
	srv, mock, cleanup := newTestServer(t)
	defer cleanup()
	now := time.Now()

	mock.ExpectQuery(`FROM cases WHERE caseno`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"caseno", "client_id", "client_type", "date_created", "usrid", "tmstamp"}).
			AddRow(int64(10), "client-1", "acme", now, "alice", now))

	req := httptest.NewRequest("GET", "/cases/10", nil)
	req.SetPathValue("id", "10")
	ctx := withTestCaller(req.Context(), "bob", types.RoleUser)
	rec := httptest.NewRecorder()

	srv.handleGetCase(rec, req.WithContext(ctx))
	require.Equal(t, 404, rec.Code)
}

func TestGetCaseOwnerReturns200(t *testing.T) {
	srv, mock, cleanup := newTestServer(t)
	defer cleanup()
	now := time.Now()

	mock.ExpectQuery(`FROM cases WHERE caseno`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"caseno", "client_id", "client_type", "date_created", "usrid", "tmstamp"}).
			AddRow(int64(10), "client-1", "acme", now, "alice", now))

	req := httptest.NewRequest("GET", "/cases/10", nil)
	req.SetPathValue("id", "10")
	ctx := withTestCaller(req.Context(), "alice", types.RoleUser)
	rec := httptest.NewRecorder()

	srv.handleGetCase(rec, req.WithContext(ctx))
	require.Equal(t, 200, rec.Code)
}

func TestCloseStepNonOwnerReturns403(t *testing.T) {
	srv, mock, cleanup := newTestServer(t)
	defer cleanup()
	now := time.Now()

	mock.ExpectQuery(`FROM steps WHERE stepno`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"stepno", "processno", "taskno", "status_no", "date_started", "date_ended", "tmstamp", "usrid"}).
			AddRow(int64(5), int64(20), int64(100), int64(1), now, nil, now, "alice"))

	mock.ExpectQuery(`FROM processes WHERE processno`).
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"processno", "case_no", "process_type_no", "status_no", "date_started", "date_ended", "tmstamp", "usrid"}).
			AddRow(int64(20), int64(10), int64(7), int64(1), now, nil, now, "alice"))

	mock.ExpectQuery(`FROM cases WHERE caseno`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"caseno", "client_id", "client_type", "date_created", "usrid", "tmstamp"}).
			AddRow(int64(10), "client-1", "acme", now, "alice", now))

	req := httptest.NewRequest("POST", "/steps/5/close", nil)
	req.SetPathValue("id", "5")
	ctx := withTestCaller(req.Context(), "bob", types.RoleUser)
	rec := httptest.NewRecorder()

	srv.handleCloseStep(rec, req.WithContext(ctx))
	require.Equal(t, 403, rec.Code)
}

func TestListStepsRequiresAdmin(t *testing.T) {
	srv, _, cleanup := newTestServer(t)
	defer cleanup()

	req := httptest.NewRequest("GET", "/steps", nil)
	ctx := withTestCaller(req.Context(), "bob", types.RoleUser)
	rec := httptest.NewRecorder()

	srv.handleListSteps(rec, req.WithContext(ctx))
	require.Equal(t, 403, rec.Code)
}
