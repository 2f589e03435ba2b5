package controllers

import (
	"fmt"
	"journald/internal/services"
	"journald/internal/structures"
	"net/http"
	"time"
)

type HealthController struct {
	conf      *structures.Config
	users     *services.LocalUserStore
	mail      services.MailServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status          string  `json:"status"`
	Uptime          string  `json:"uptime"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	LocalUsers      int     `json:"local_users"`
	MailEnabled     bool    `json:"mail_enabled"`
	ScheduleEnabled bool    `json:"schedule_enabled"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:          "ok",
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		LocalUsers:      hc.users.Len(),
		MailEnabled:     hc.mail.Enabled(),
		ScheduleEnabled: hc.conf.Schedule.Enabled,
	})
}

// Root answers "/" when no frontend is being served.
func (hc *HealthController) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "journald is running on port %d\n", hc.conf.WebServer.Port)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(conf *structures.Config, users *services.LocalUserStore, mail services.MailServiceInterface) *HealthController {
	return &HealthController{
		conf:      conf,
		users:     users,
		mail:      mail,
		startTime: time.Now(),
	}
}
