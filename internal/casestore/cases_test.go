package casestore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/workflow-engine/internal/catalog"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	cat := catalog.NewStore(db)
	return NewStore(db, cat), mock, func() { db.Close() }
}

func TestCreateCaseHappyPath(t *testing.T) {
	s, mock, cleanup := newTestStore(t)
	defer cleanup()

	now := time.Now()

	mock.ExpectQuery(`FROM process_definitions WHERE process_type_no`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"process_definition_no", "process_type_no", "start_task_no", "version", "is_active", "tmstamp", "usrid"}).
			AddRow(int64(1), int64(7), int64(100), 1, true, now, "admin"))

	mock.ExpectQuery(`FROM statuses WHERE lower`).
		WithArgs("busy").
		WillReturnRows(sqlmock.NewRows([]string{"statusno"}).AddRow(int64(1)))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cases`)).
		WithArgs("client-1", "acme", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"caseno", "client_id", "client_type", "date_created", "usrid", "tmstamp"}).
			AddRow(int64(10), "client-1", "acme", now, "alice", now))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO processes`)).
		WithArgs(int64(10), int64(7), int64(1), "alice").
		WillReturnRows(sqlmock.NewRows([]string{"processno", "case_no", "process_type_no", "status_no", "date_started", "date_ended", "tmstamp", "usrid"}).
			AddRow(int64(20), int64(10), int64(7), int64(1), now, nil, now, "alice"))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO steps`)).
		WithArgs(int64(20), int64(100), int64(1), "alice").
		WillReturnRows(sqlmock.NewRows([]string{"stepno", "processno", "taskno", "status_no", "date_started", "date_ended", "tmstamp", "usrid"}).
			AddRow(int64(30), int64(20), int64(100), int64(1), now, nil, now, "alice"))
	mock.ExpectCommit()

	c, p, st, err := s.CreateCase(context.Background(), "client-1", "acme", 7, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(10), c.Caseno)
	require.Equal(t, int64(20), p.Processno)
	require.Equal(t, int64(100), st.Taskno)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCaseNoActiveDefinitionIsNotFound(t *testing.T) {
	s, mock, cleanup := newTestStore(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM process_definitions WHERE process_type_no = $1 AND is_active = true`)).
		WithArgs(int64(99)).
		WillReturnError(sqlmock.ErrCancelled)

	_, _, _, err := s.CreateCase(context.Background(), "client-1", "acme", 99, "alice")
	require.Error(t, err)
}

func TestGetCaseNonOwnerIsNotFound(t *testing.T) {
	s, mock, cleanup := newTestStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT caseno, client_id, client_type, date_created, usrid, tmstamp FROM cases WHERE caseno = $1`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"caseno", "client_id", "client_type", "date_created", "usrid", "tmstamp"}).
			AddRow(int64(10), "client-1", "acme", now, "alice", now))

	_, err := s.GetCase(context.Background(), 10, "bob", false)
	require.Error(t, err)

	require.Contains(t, err.Error(), "not found")
}

func TestGetCaseOwnerSucceeds(t *testing.T) {
	s, mock, cleanup := newTestStore(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT caseno, client_id, client_type, date_created, usrid, tmstamp FROM cases WHERE caseno = $1`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"caseno", "client_id", "client_type", "date_created", "usrid", "tmstamp"}).
			AddRow(int64(10), "client-1", "acme", now, "alice", now))

	c, err := s.GetCase(context.Background(), 10, "alice", false)
	require.NoError(t, err)
	require.Equal(t, "alice", c.Usrid)
}
