package services

import (
	"bytes"
	"context"
	"html/template"
	"journald/internal/models"
	"journald/internal/providers"
	"journald/internal/structures"
	"strings"
	"time"
)

type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Passcode string `json:"passcode"`
}

type CredentialResult struct {
	Username string `json:"username"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

type BulkResult struct {
	Sent    int                `json:"sent"`
	Failed  int                `json:"failed"`
	Results []CredentialResult `json:"results"`
}

type MailServiceInterface interface {
	Enabled() bool
	SendSummary(ctx context.Context, user models.RosterUser, date models.DateKey, summary *SummaryResult) error
	SendNoEntries(ctx context.Context, user models.RosterUser, date models.DateKey) error
	SendCredentials(ctx context.Context, creds Credentials) error
	SendBulkCredentials(ctx context.Context, creds []Credentials) BulkResult
	SendTest(ctx context.Context, to string) error
}

type MailService struct {
	mailer providers.MailerInterface
	sender string
	now    func() time.Time
}

func (m *MailService) Enabled() bool {
	return m.mailer.Enabled()
}

func (m *MailService) SendSummary(ctx context.Context, user models.RosterUser, date models.DateKey, summary *SummaryResult) error {
	html, err := render(summaryTemplate, map[string]interface{}{
		"Username":     user.Username,
		"PrettyDate":   prettyDate(date),
		"EntriesCount": summary.EntriesCount,
		"Paragraphs":   paragraphs(summary.SummaryText),
		"GeneratedAt":  summary.GeneratedAt.UTC().Format(time.RFC1123),
	})
	if err != nil {
		return err
	}
	return m.mailer.Send(ctx, providers.Message{
		To:      user.Email,
		ToName:  user.Username,
		Subject: "Your Journal Summary for " + prettyDate(date),
		HTML:    html,
	})
}

func (m *MailService) SendNoEntries(ctx context.Context, user models.RosterUser, date models.DateKey) error {
	html, err := render(noEntriesTemplate, map[string]interface{}{
		"Username":   user.Username,
		"PrettyDate": prettyDate(date),
	})
	if err != nil {
		return err
	}
	return m.mailer.Send(ctx, providers.Message{
		To:      user.Email,
		ToName:  user.Username,
		Subject: "We missed you yesterday!",
		HTML:    html,
	})
}

func (m *MailService) SendCredentials(ctx context.Context, creds Credentials) error {
	html, err := render(credentialsTemplate, creds)
	if err != nil {
		return err
	}
	return m.mailer.Send(ctx, providers.Message{
		To:      creds.Email,
		ToName:  creds.Username,
		Subject: "Your Journal App Login Credentials",
		HTML:    html,
	})
}

// SendBulkCredentials sends one message per user and keeps going past failures.
func (m *MailService) SendBulkCredentials(ctx context.Context, creds []Credentials) BulkResult {
	res := BulkResult{Results: make([]CredentialResult, 0, len(creds))}
	for _, c := range creds {
		if err := m.SendCredentials(ctx, c); err != nil {
			res.Failed++
			res.Results = append(res.Results, CredentialResult{Username: c.Username, Error: err.Error()})
			continue
		}
		res.Sent++
		res.Results = append(res.Results, CredentialResult{Username: c.Username, Success: true})
	}
	return res
}

// SendTest mails the sender account itself when to is empty.
func (m *MailService) SendTest(ctx context.Context, to string) error {
	if to == "" {
		to = m.sender
	}
	html, err := render(testTemplate, map[string]interface{}{
		"Sender":    m.sender,
		"Timestamp": m.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return m.mailer.Send(ctx, providers.Message{
		To:      to,
		Subject: "Test Email from Journal App",
		HTML:    html,
	})
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func prettyDate(date models.DateKey) string {
	t, err := date.In(time.UTC)
	if err != nil {
		return date.String()
	}
	return t.Format("Monday, January 2, 2006")
}

func NewMailService(conf *structures.Config, mailer providers.MailerInterface) MailServiceInterface {
	return &MailService{
		mailer: mailer,
		sender: conf.Mail.User,
		now:    time.Now,
	}
}
