package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"journald/internal/models"
	"journald/internal/structures"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// EntryStoreInterface is the client for the spreadsheet backend. Every call
// is a JSON POST against the same script URL; the action field selects the
// operation.
type EntryStoreInterface interface {
	SaveEntry(ctx context.Context, entry models.JournalEntry) error
	GetEntries(ctx context.Context, user string, date models.DateKey) ([]models.JournalEntry, error)
	GetSummary(ctx context.Context, user string, date models.DateKey) (*models.DailySummary, error)
	SaveSummary(ctx context.Context, summary models.DailySummary) error
	Register(ctx context.Context, user models.RegisteredUser) error
	CheckUser(ctx context.Context, username, passcode string) (*models.RosterUser, error)
	GetAllUsers(ctx context.Context) ([]models.RosterUser, error)
	UpdateTimezone(ctx context.Context, username, timezone string, lastLogin time.Time) error
	Forward(ctx context.Context, body []byte) ([]byte, error)
}

type SheetsClient struct {
	url    string
	client *http.Client
}

func NewSheetsClient(conf *structures.Config) EntryStoreInterface {
	timeout := conf.Store.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SheetsClient{
		url:    conf.Store.URL,
		client: &http.Client{Timeout: timeout},
	}
}

type entriesRequest struct {
	User   string `json:"user"`
	Date   string `json:"date"`
	Action string `json:"action"`
}

type saveSummaryRequest struct {
	User        string `json:"user"`
	Date        string `json:"date"`
	Action      string `json:"action"`
	Summary     string `json:"summary"`
	GeneratedAt string `json:"generatedAt"`
}

type registerData struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	Email            string `json:"email"`
	Timezone         string `json:"timezone"`
	RegistrationDate string `json:"registrationDate"`
}

type registerRequest struct {
	Action string       `json:"action"`
	Data   registerData `json:"data"`
}

type checkUserRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Passcode string `json:"passcode"`
}

type updateTimezoneRequest struct {
	Action    string `json:"action"`
	Username  string `json:"username"`
	Timezone  string `json:"timezone"`
	LastLogin string `json:"lastLogin"`
}

type actionRequest struct {
	Action string `json:"action"`
}

// sheetRow keeps cell values as the sheet typed them: an entry of "42" comes
// back as a number.
type sheetRow struct {
	Time  interface{} `json:"time"`
	Entry interface{} `json:"entry"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SaveEntry treats any JSON reply as confirmation. A reply that is not JSON,
// such as the HTML error page the script host serves with a 200, is a failure.
func (c *SheetsClient) SaveEntry(ctx context.Context, entry models.JournalEntry) error {
	raw, err := c.post(ctx, entry)
	if err != nil {
		return err
	}
	if !json.Valid(raw) {
		return malformed(raw, errors.New("malformed response"))
	}
	return nil
}

func (c *SheetsClient) GetEntries(ctx context.Context, user string, date models.DateKey) ([]models.JournalEntry, error) {
	raw, err := c.post(ctx, entriesRequest{User: user, Date: date.String(), Action: "getEntries"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Entries []sheetRow `json:"entries"`
	}
	if err = decode(raw, &resp); err != nil {
		return nil, err
	}

	entries := make([]models.JournalEntry, 0, len(resp.Entries))
	for _, row := range resp.Entries {
		entries = append(entries, models.JournalEntry{
			Date: date,
			Time: cast.ToString(row.Time),
			Text: cast.ToString(row.Entry),
			User: user,
		})
	}
	return entries, nil
}

// GetSummary returns nil without error when no summary is stored for the date.
func (c *SheetsClient) GetSummary(ctx context.Context, user string, date models.DateKey) (*models.DailySummary, error) {
	raw, err := c.post(ctx, entriesRequest{User: user, Date: date.String(), Action: "getSummary"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Summary     string `json:"summary"`
		GeneratedAt string `json:"generatedAt"`
	}
	if err = decode(raw, &resp); err != nil {
		return nil, err
	}
	if resp.Summary == "" {
		return nil, nil
	}

	summary := &models.DailySummary{
		User:        user,
		Date:        date,
		SummaryText: resp.Summary,
	}
	if ts, perr := time.Parse(time.RFC3339Nano, resp.GeneratedAt); perr == nil {
		summary.GeneratedAt = ts
	}
	return summary, nil
}

func (c *SheetsClient) SaveSummary(ctx context.Context, summary models.DailySummary) error {
	_, err := c.post(ctx, saveSummaryRequest{
		User:        summary.User,
		Date:        summary.Date.String(),
		Action:      "saveSummary",
		Summary:     summary.SummaryText,
		GeneratedAt: summary.GeneratedAt.UTC().Format(time.RFC3339Nano),
	})
	return err
}

func (c *SheetsClient) Register(ctx context.Context, user models.RegisteredUser) error {
	raw, err := c.post(ctx, registerRequest{
		Action: "register",
		Data: registerData{
			Username:         user.Username,
			Password:         user.Passcode,
			Email:            user.Email,
			Timezone:         user.Timezone,
			RegistrationDate: user.RegistrationDate.UTC().Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return err
	}

	var resp statusResponse
	if err = decode(raw, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return rejected(resp.Error)
	}
	return nil
}

func (c *SheetsClient) CheckUser(ctx context.Context, username, passcode string) (*models.RosterUser, error) {
	raw, err := c.post(ctx, checkUserRequest{Action: "checkUser", Username: username, Passcode: passcode})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool               `json:"success"`
		User    *models.RosterUser `json:"user"`
	}
	if err = decode(raw, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, models.ErrInvalidCredentials
	}
	if resp.User == nil {
		return &models.RosterUser{Username: username}, nil
	}
	return resp.User, nil
}

func (c *SheetsClient) GetAllUsers(ctx context.Context) ([]models.RosterUser, error) {
	raw, err := c.post(ctx, actionRequest{Action: "getAllUsers"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool                `json:"success"`
		Error   string              `json:"error"`
		Users   []models.RosterUser `json:"users"`
	}
	if err = decode(raw, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, rejected(resp.Error)
	}
	return resp.Users, nil
}

func (c *SheetsClient) UpdateTimezone(ctx context.Context, username, timezone string, lastLogin time.Time) error {
	_, err := c.post(ctx, updateTimezoneRequest{
		Action:    "updateTimezone",
		Username:  username,
		Timezone:  timezone,
		LastLogin: lastLogin.UTC().Format(time.RFC3339Nano),
	})
	return err
}

// Forward posts an already encoded body and returns the raw reply.
func (c *SheetsClient) Forward(ctx context.Context, body []byte) ([]byte, error) {
	return c.do(ctx, body)
}

func (c *SheetsClient) post(ctx context.Context, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return c.do(ctx, body)
}

func (c *SheetsClient) do(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return raw, nil
}

func decode(raw []byte, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return malformed(raw, fmt.Errorf("malformed response: %w", err))
	}
	return nil
}

func malformed(raw []byte, err error) error {
	return &UpstreamError{Status: http.StatusOK, Body: truncate(string(raw), 200), Err: err}
}

func rejected(msg string) error {
	if msg == "" {
		return ErrRejected
	}
	return fmt.Errorf("%w: %s", ErrRejected, msg)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
