package internal

import (
	"journald/internal/providers"
	"journald/internal/structures"
	"journald/internal/testutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	inits, stops, restores, persists int
}

func (f *fakeScheduler) Init() error    { f.inits++; return nil }
func (f *fakeScheduler) Stop()          { f.stops++ }
func (f *fakeScheduler) Restore() error { f.restores++; return nil }
func (f *fakeScheduler) Persist() error { f.persists++; return nil }

func newTestApp(t *testing.T, conf *structures.Config) http.Handler {
	t.Helper()
	f := newRouteFixture(conf)
	app := NewApp(f.router, f.health, &fakeScheduler{}, conf, &testutil.MockLogger{}, providers.NewMetricsProvider(&structures.Config{}))
	require.Equal(t, "127.0.0.1:8090", app.WebServer.Addr)
	return app.WebServer.Handler
}

func baseConf() *structures.Config {
	return &structures.Config{WebServer: structures.Server{Host: "127.0.0.1", Port: 8090}}
}

func TestApp_MiddlewareChain(t *testing.T) {
	h := newTestApp(t, baseConf())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(providers.RequestIDHeader))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestApp_Preflight(t *testing.T) {
	h := newTestApp(t, baseConf())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/saveEntry", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestApp_RootWithoutStaticDir(t *testing.T) {
	h := newTestApp(t, baseConf())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "running on port 8090")
}

func TestApp_MetricsEndpoint(t *testing.T) {
	conf := baseConf()
	conf.Metrics.Enabled = true
	h := newTestApp(t, conf)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestApp_StaticFrontendFallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>journal</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0644))
	conf := baseConf()
	conf.WebServer.StaticDir = dir
	h := newTestApp(t, conf)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "console.log(1)", rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/journal/2025-06-03", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "journal")

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
