package controllers

import (
	"encoding/json"
	"journald/internal/models"
	"journald/internal/services"
	"journald/internal/structures"
	"journald/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthController(mailer *testutil.MockMailer) (*HealthController, *services.LocalUserStore) {
	conf := &structures.Config{
		WebServer: structures.Server{Port: 8090},
		Schedule:  structures.ScheduleConfig{Enabled: true},
	}
	users := services.NewLocalUserStore()
	return NewHealthController(conf, users, services.NewMailService(conf, mailer)), users
}

func TestHealth_ReturnsOK(t *testing.T) {
	hc, users := newHealthController(&testutil.MockMailer{})
	require.NoError(t, users.Add(models.RegisteredUser{Username: "dave", Timezone: "UTC"}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "uptime")
	assert.Contains(t, resp, "uptime_seconds")
	assert.Equal(t, float64(1), resp["local_users"])
	assert.Equal(t, true, resp["mail_enabled"])
	assert.Equal(t, true, resp["schedule_enabled"])
}

func TestHealth_ReportsDisabledMail(t *testing.T) {
	hc, _ := newHealthController(&testutil.MockMailer{Disabled: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["mail_enabled"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc, _ := newHealthController(&testutil.MockMailer{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRoot_PlainText(t *testing.T) {
	hc, _ := newHealthController(&testutil.MockMailer{})

	rr := httptest.NewRecorder()
	hc.Root(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "8090")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h0m0s"},
		{90 * time.Second, "0h1m30s"},
		{26*time.Hour + 3*time.Minute + 4*time.Second, "26h3m4s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
