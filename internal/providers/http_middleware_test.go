package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_GeneratesUUID(t *testing.T) {
	h := RequestID(dummyHandler())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rr.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	h := RequestID(dummyHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestRecovery_ReturnsJSON500(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := Recovery(&cacheTestLogger{})(panicky)
	rr := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/saveEntry", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	rr := httptest.NewRecorder()
	CORS(next).ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/getEntries", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func TestCORS_PassesThrough(t *testing.T) {
	rr := httptest.NewRecorder()
	CORS(dummyHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestAccessLog_PassesStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	rr := httptest.NewRecorder()
	AccessLog(&cacheTestLogger{})(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/register", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
}
