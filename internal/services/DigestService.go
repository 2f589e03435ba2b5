package services

import (
	"context"
	"fmt"
	"journald/internal/models"
	"journald/internal/providers"
	"journald/internal/store"
	"time"
)

type DigestKind string

const (
	DigestSummary   DigestKind = "summary"
	DigestNoEntries DigestKind = "no_entries"
)

type DigestServiceInterface interface {
	// ProcessUser mails user the digest for their yesterday as of now.
	ProcessUser(ctx context.Context, user models.RosterUser, now time.Time) (DigestKind, error)
	// SummaryFor summarizes username's date, defaulting to yesterday in their zone.
	SummaryFor(ctx context.Context, username string, date models.DateKey, now time.Time) (*SummaryResult, models.DateKey, error)
}

type DigestService struct {
	store   store.EntryStoreInterface
	summary SummaryServiceInterface
	mail    MailServiceInterface
	metrics providers.MetricsProviderInterface
}

func (d *DigestService) ProcessUser(ctx context.Context, user models.RosterUser, now time.Time) (DigestKind, error) {
	date, err := Yesterday(user.Timezone, now)
	if err != nil {
		return "", err
	}

	entries, err := d.store.GetEntries(ctx, user.Username, date)
	if err != nil {
		return "", fmt.Errorf("fetching entries for %s: %w", user.Username, err)
	}

	if len(entries) == 0 {
		if err = d.mail.SendNoEntries(ctx, user, date); err != nil {
			return "", err
		}
		d.metrics.IncDigestsSent(string(DigestNoEntries))
		return DigestNoEntries, nil
	}

	summary, err := d.summary.GenerateFromEntries(ctx, user.Username, date, entries)
	if err != nil {
		return "", fmt.Errorf("summarizing %s for %s: %w", date, user.Username, err)
	}
	if err = d.mail.SendSummary(ctx, user, date, summary); err != nil {
		return "", err
	}
	d.metrics.IncDigestsSent(string(DigestSummary))
	return DigestSummary, nil
}

func (d *DigestService) SummaryFor(ctx context.Context, username string, date models.DateKey, now time.Time) (*SummaryResult, models.DateKey, error) {
	if date == "" {
		users, err := d.store.GetAllUsers(ctx)
		if err != nil {
			return nil, "", err
		}
		user, ok := findUser(users, username)
		if !ok {
			return nil, "", models.ErrUserNotFound
		}
		if date, err = Yesterday(user.Timezone, now); err != nil {
			return nil, "", err
		}
	}

	res, err := d.summary.Generate(ctx, username, date)
	return res, date, err
}

func findUser(users []models.RosterUser, username string) (models.RosterUser, bool) {
	for _, u := range users {
		if u.Username == username {
			return u, true
		}
	}
	return models.RosterUser{}, false
}

// Yesterday is the calendar day before now in the named zone.
func Yesterday(timezone string, now time.Time) (models.DateKey, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidTimezone, timezone)
	}
	local := now.In(loc)
	return models.DateKeyOf(time.Date(local.Year(), local.Month(), local.Day()-1, 12, 0, 0, 0, loc)), nil
}

func NewDigestService(entryStore store.EntryStoreInterface, summary SummaryServiceInterface, mail MailServiceInterface, metrics providers.MetricsProviderInterface) DigestServiceInterface {
	return &DigestService{
		store:   entryStore,
		summary: summary,
		mail:    mail,
		metrics: metrics,
	}
}
