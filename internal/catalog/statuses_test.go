package catalog

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/workflow-engine/internal/dberrors"
)

func TestResolveStatusNoCaseInsensitive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT statusno FROM statuses WHERE lower(description) = lower($1) LIMIT 1`)).
		WithArgs("Busy").
		WillReturnRows(sqlmock.NewRows([]string{"statusno"}).AddRow(int64(1)))

	no, err := s.ResolveStatusNo(context.Background(), "Busy")
	require.NoError(t, err)
	require.Equal(t, int64(1), no)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveStatusNoMissingIsConfiguration(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT statusno FROM statuses WHERE lower(description) = lower($1) LIMIT 1`)).
		WithArgs("nonexistent").
		WillReturnError(sqlmock.ErrCancelled)

	_, err = s.ResolveStatusNo(context.Background(), "nonexistent")
	require.Error(t, err)
	require.True(t, dberrors.IsConfiguration(err))
}

func TestListStatusesOrdersByStatusNo(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewStore(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT statusno, description, tmstamp, usrid FROM statuses ORDER BY statusno`)).
		WillReturnRows(sqlmock.NewRows([]string{"statusno", "description", "tmstamp", "usrid"}).
			AddRow(int64(1), "busy", now, "system").
			AddRow(int64(2), "complete", now, "system"))

	statuses, err := s.ListStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	require.Equal(t, "busy", statuses[0].Description)
	require.Equal(t, "complete", statuses[1].Description)
}
