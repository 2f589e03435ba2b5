package controllers

import (
	"errors"
	"io"
	"journald/internal/models"
	"journald/internal/schedule"
	"journald/internal/store"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// errValidation wraps request decoding and rule failures so they map to 400.
var errValidation = errors.New("invalid request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a size-limited JSON body into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	raw, err := readBody(w, r)
	if err != nil {
		return err
	}
	return bind(raw, dst)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &validationError{msg: "request body too large or unreadable"}
	}
	return raw, nil
}

func bind(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return &validationError{msg: "invalid JSON body"}
	}
	v := validate.Struct(dst)
	if !v.Validate() {
		return &validationError{msg: v.Errors.One()}
	}
	return nil
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == errValidation }

func parseDate(s string) (models.DateKey, error) {
	date, err := models.ParseDateKey(strings.TrimSpace(s))
	if err != nil {
		return "", &validationError{msg: err.Error()}
	}
	return date, nil
}

// statusFor maps domain errors onto HTTP status codes. The message of
// unexpected errors is replaced by fallback.
func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, errValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrEmptyEntry),
		errors.Is(err, models.ErrInvalidTimezone),
		errors.Is(err, models.ErrUserExists),
		errors.Is(err, store.ErrRejected):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, models.ErrNoEntries):
		return http.StatusNotFound, "No journal entries found for this date"
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, schedule.ErrZoneBusy):
		return http.StatusConflict, err.Error()
	case errors.Is(err, models.ErrMailerDisabled):
		return http.StatusInternalServerError, "Email service not configured"
	}
	return http.StatusInternalServerError, fallback
}

func writeFailure(w http.ResponseWriter, err error, fallback string) {
	status, msg := statusFor(err, fallback)
	writeError(w, status, msg)
}
