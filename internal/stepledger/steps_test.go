package stepledger

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/workflow-engine/internal/dberrors"
)

func TestCloseStepAlreadyClosedIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewStore(db)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE steps SET status_no`).
		WithArgs(int64(1), int64(2), "alice").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = s.CloseStep(context.Background(), tx, 1, 2, "alice")
	require.Error(t, err)
}

func TestCloseStepSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewStore(db)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE steps SET status_no`).
		WithArgs(int64(1), int64(2), "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = s.CloseStep(context.Background(), tx, 1, 2, "alice")
	require.NoError(t, err)
}

func TestCurrentBusyStepNoneIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewStore(db)

	mock.ExpectQuery(`FROM steps WHERE processno = \$1 AND status_no = \$2`).
		WithArgs(int64(20), int64(1)).
		WillReturnError(sql.ErrNoRows)

	_, err = s.CurrentBusyStep(context.Background(), 20, 1)
	require.Error(t, err)
	require.True(t, dberrors.IsNotFound(err))
}

func TestOpenStepReturnsNewBusyStep(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewStore(db)
	now := time.Now()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO steps`).
		WithArgs(int64(20), int64(101), int64(1), "alice").
		WillReturnRows(sqlmock.NewRows([]string{"stepno", "processno", "taskno", "status_no", "date_started", "date_ended", "tmstamp", "usrid"}).
			AddRow(int64(31), int64(20), int64(101), int64(1), now, nil, now, "alice"))

	st, err := s.OpenStep(context.Background(), tx, 20, 101, 1, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(31), st.Stepno)
	require.Equal(t, int64(101), st.Taskno)
}
