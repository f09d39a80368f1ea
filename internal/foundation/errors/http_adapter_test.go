package errors

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation", ValidationError("bad index").Build(), http.StatusBadRequest},
		{"auth", AuthError("unknown identity").Build(), http.StatusUnauthorized},
		{"not found", NotFoundError("sitemap unavailable").Build(), http.StatusNotFound},
		{"store", StoreError("commit failed").Build(), http.StatusServiceUnavailable},
		{"extraction", ExtractionError("no extractor").Build(), http.StatusUnprocessableEntity},
		{"internal", InternalError("boom").Build(), http.StatusInternalServerError},
		{"unclassified", stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.StatusCodeFor(tt.err))
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	req := httptest.NewRequest(http.MethodGet, "/content/site.sitemap.3.xml", nil)
	rec := httptest.NewRecorder()

	err := NotFoundError("sitemap unavailable").WithContext("part", 3).Build()
	adapter.WriteErrorResponse(rec, req, err)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "sitemap unavailable", body.Error)
	assert.Equal(t, "not_found", body.Code)
	assert.EqualValues(t, 3, body.Details["part"])
	assert.False(t, body.Retryable)
}

func TestHTTPErrorAdapter_RetryableFlag(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	resp := adapter.FormatErrorResponse(StoreError("connect failed").Build())
	assert.True(t, resp.Retryable)
	assert.Equal(t, "store", resp.Code)
}
