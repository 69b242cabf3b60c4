// file: internal/middleware/request_id_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestIDGeneratesAndEchoesID(t *testing.T) {
	var seenID string
	var seenLogger *zap.Logger
	var startSet bool
	handler := RequestID(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		seenLogger = GetRequestLogger(r.Context())
		startSet = !GetRequestStart(r.Context()).IsZero()
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/badges", nil))

	require.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rec.Header().Get(HeaderXRequestID),
		"the generated ID is echoed to the client")
	assert.NotNil(t, seenLogger)
	assert.True(t, startSet)
}

func TestRequestIDReusesClientSuppliedID(t *testing.T) {
	handler := RequestID(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client-id-123", GetRequestID(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/badges", nil)
	req.Header.Set(HeaderXRequestID, "client-id-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "client-id-123", rec.Header().Get(HeaderXRequestID))
}
