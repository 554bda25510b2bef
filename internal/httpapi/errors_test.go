package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/workflow-engine/internal/dberrors"
)

func TestWriteErrorMapsSentinelsToStatusCodes(t *testing.T) {
	log := slog.Default()

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("wrap: %w", dberrors.ErrNotFound), 404},
		{"authorization", fmt.Errorf("wrap: %w", dberrors.ErrAuthorization), 403},
		{"validation", fmt.Errorf("wrap: %w", dberrors.ErrValidation), 422},
		{"conflict", fmt.Errorf("wrap: %w", dberrors.ErrConflict), 400},
		{"configuration", fmt.Errorf("wrap: %w", dberrors.ErrConfiguration), 500},
		{"unknown", fmt.Errorf("boom"), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, log, tc.err)
			require.Equal(t, tc.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotEmpty(t, body.Error)
		})
	}
}

func TestWriteUnauthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	writeUnauthenticated(rec)
	require.Equal(t, 401, rec.Code)
}
