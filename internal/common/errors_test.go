package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	err := NewAppError("CODE", "message", http.StatusBadRequest, sentinel)
	require.ErrorIs(t, err, sentinel)
	wrapped := fmt.Errorf("create check: %w", err)
	got, ok := AsAppError(wrapped)
	require.True(t, ok)
	require.Equal(t, "CODE", got.Code)
	_, ok = AsAppError(sentinel)
	require.False(t, ok)
	require.Equal(t, "message: boom", err.Error())

	withDetails := err.WithDetails(map[string]any{"index": 1})
	require.Nil(t, err.Details)
	require.NotNil(t, withDetails.Details)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewAppError("NOT_FOUND", "check not found", http.StatusNotFound, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)

	rec = httptest.NewRecorder()
	WriteError(rec, errors.New("pq: secret table name"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "secret")
}
