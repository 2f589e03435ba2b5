package controllers

import (
	"journald/internal/providers"
	"journald/internal/schedule"
	"journald/internal/services"
	"net/http"
)

// DigestController triggers digest runs by hand. Runs are synchronous and
// end when the client disconnects.
type DigestController struct {
	logger providers.Logger
	runner schedule.DigestRunnerInterface
}

func NewDigestController(logger providers.Logger, runner schedule.DigestRunnerInterface) *DigestController {
	return &DigestController{logger: logger, runner: runner}
}

type timezoneRequest struct {
	Timezone string `json:"timezone" validate:"required"`
}

type digestRunResponse struct {
	Success bool                    `json:"success"`
	Results []schedule.DigestResult `json:"results"`
	Error   string                  `json:"error,omitempty"`
}

func (dc *DigestController) TestDailySummaries(w http.ResponseWriter, r *http.Request) {
	dc.logger.Infof(providers.TypeScheduler, "Manual digest run for all timezones")
	results, err := dc.runner.ProcessAll(r.Context())
	if err != nil {
		dc.logger.Errorf(providers.TypeScheduler, "Manual digest run: %v", err)
		writeJSON(w, http.StatusInternalServerError, digestRunResponse{Results: results, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, digestRunResponse{Success: true, Results: results})
}

func (dc *DigestController) TestTimezoneSummaries(w http.ResponseWriter, r *http.Request) {
	var req timezoneRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err, "")
		return
	}
	if err := services.ValidateTimezone(req.Timezone); err != nil {
		writeFailure(w, err, "")
		return
	}

	dc.logger.Infof(providers.TypeScheduler, "Manual digest run for %s", req.Timezone)
	res, err := dc.runner.ProcessTimezone(r.Context(), req.Timezone)
	if err != nil {
		dc.logger.Errorf(providers.TypeScheduler, "Manual digest run for %s: %v", req.Timezone, err)
		writeFailure(w, err, "Failed to process timezone summaries")
		return
	}
	writeJSON(w, http.StatusOK, digestRunResponse{Success: true, Results: []schedule.DigestResult{res}})
}
