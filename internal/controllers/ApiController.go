package controllers

import (
	"journald/internal/models"
	"journald/internal/providers"
	"journald/internal/services"
	"journald/internal/store"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const maxAudioSize = 25 << 20 // 25 MB

type ApiController struct {
	logger      providers.Logger
	store       store.EntryStoreInterface
	summary     services.SummaryServiceInterface
	digest      services.DigestServiceInterface
	transcriber providers.TranscriberInterface
	now         func() time.Time
}

func NewApiController(logger providers.Logger, entryStore store.EntryStoreInterface, summary services.SummaryServiceInterface, digest services.DigestServiceInterface, transcriber providers.TranscriberInterface) *ApiController {
	return &ApiController{
		logger:      logger,
		store:       entryStore,
		summary:     summary,
		digest:      digest,
		transcriber: transcriber,
		now:         time.Now,
	}
}

type saveEntryRequest struct {
	Date  string `json:"date" validate:"required"`
	Time  string `json:"time" validate:"required"`
	Entry string `json:"entry" validate:"required"`
	User  string `json:"user" validate:"required"`
}

type userDateRequest struct {
	User string `json:"user" validate:"required"`
	Date string `json:"date" validate:"required"`
}

type userSummaryRequest struct {
	Username string `json:"username" validate:"required"`
	Date     string `json:"date"`
}

type entryView struct {
	Time  string `json:"time"`
	Entry string `json:"entry"`
}

type entriesResponse struct {
	Entries []entryView `json:"entries"`
}

type userSummaryResponse struct {
	Username string         `json:"username"`
	Date     models.DateKey `json:"date"`
	*services.SummaryResult
}

type messageResponse struct {
	Message string `json:"message"`
}

type transcriptionResponse struct {
	Transcription string `json:"transcription"`
}

// SaveEntry validates the entry and passes the body to the store unchanged.
// Non-JSON upstream replies are wrapped as {message}.
func (ac *ApiController) SaveEntry(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeFailure(w, err, "")
		return
	}
	var req saveEntryRequest
	if err = bind(raw, &req); err != nil {
		writeFailure(w, err, "")
		return
	}
	if strings.TrimSpace(req.Entry) == "" {
		writeFailure(w, models.ErrEmptyEntry, "")
		return
	}
	if _, err = parseDate(req.Date); err != nil {
		writeFailure(w, err, "")
		return
	}

	reply, err := ac.store.Forward(r.Context(), raw)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "saveEntry for %s failed: %v", req.User, err)
		writeError(w, http.StatusInternalServerError, "Failed to save entry via proxy")
		return
	}
	if !json.Valid(reply) {
		writeJSON(w, http.StatusOK, messageResponse{Message: string(reply)})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(reply)
}

func (ac *ApiController) GetEntries(w http.ResponseWriter, r *http.Request) {
	var req userDateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err, "")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeFailure(w, err, "")
		return
	}

	entries, err := ac.store.GetEntries(r.Context(), req.User, date)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "getEntries %s/%s: %v", req.User, date, err)
		writeFailure(w, err, "Failed to fetch entries")
		return
	}
	resp := entriesResponse{Entries: make([]entryView, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, entryView{Time: e.Time, Entry: e.Text})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (ac *ApiController) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req userDateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err, "")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeFailure(w, err, "")
		return
	}

	res, err := ac.summary.Generate(r.Context(), req.User, date)
	if err != nil {
		ac.logger.Warnf(providers.TypePost, "generateSummary %s/%s: %v", req.User, date, err)
		writeFailure(w, err, "Failed to generate summary")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetUserSummary defaults the date to yesterday in the user's registered zone.
func (ac *ApiController) GetUserSummary(w http.ResponseWriter, r *http.Request) {
	var req userSummaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err, "")
		return
	}
	var date models.DateKey
	if strings.TrimSpace(req.Date) != "" {
		var err error
		if date, err = parseDate(req.Date); err != nil {
			writeFailure(w, err, "")
			return
		}
	}

	res, date, err := ac.digest.SummaryFor(r.Context(), req.Username, date, ac.now())
	if err != nil {
		ac.logger.Warnf(providers.TypePost, "get-user-summary %s: %v", req.Username, err)
		writeFailure(w, err, "Failed to generate summary")
		return
	}
	writeJSON(w, http.StatusOK, userSummaryResponse{Username: req.Username, Date: date, SummaryResult: res})
}

func (ac *ApiController) TranscribeAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioSize)
	if err := r.ParseMultipartForm(maxAudioSize); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with an audio file of at most 25 MB")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	text, err := ac.transcriber.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "transcription for %q failed: %v", r.FormValue("user"), err)
		writeError(w, http.StatusInternalServerError, "Transcription failed")
		return
	}
	writeJSON(w, http.StatusOK, transcriptionResponse{Transcription: text})
}
