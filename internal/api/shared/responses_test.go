package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)

	RespondWithJSON(w, r, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRespondWithErrorCarriesTraceID(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	r = r.WithContext(SetTraceID(r.Context()))

	RespondWithError(w, r, http.StatusNotFound, "not found")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not found", body.Error)
	assert.Equal(t, GetTraceID(r.Context()), body.TraceID)
	assert.Len(t, body.TraceID, 32)
}

func TestRespondWithErrorAndLogSanitizes(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)

	internal := errors.New("pq: connection to postgres://user:secret@db:5432 failed")
	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Something went wrong", internal)

	assert.NotContains(t, w.Body.String(), "secret")
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

func TestTraceIDRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := SetTraceID(context.Background())
	assert.Len(t, GetTraceID(ctx), 32)
	assert.Empty(t, GetTraceID(context.Background()))
}
