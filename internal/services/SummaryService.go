package services

import (
	"context"
	"fmt"
	"journald/internal/models"
	"journald/internal/providers"
	"journald/internal/store"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const summarySystemPrompt = `You are a warm, thoughtful journaling assistant. You will be given one person's journal entries for a single day, each prefixed with the time it was written.
Write a reflective summary of their day in 2-3 short paragraphs, addressed to them in the second person. Cover:
- the main themes and key events of the day
- their overall mood and how it shifted
- any reflections, insights or intentions worth carrying forward
Be supportive and specific to what they wrote. Do not invent events, and do not use headings or bullet points.`

type SummaryResult struct {
	SummaryText  string    `json:"summary"`
	GeneratedAt  time.Time `json:"generatedAt"`
	IsExisting   bool      `json:"isExisting"`
	EntriesCount int       `json:"entriesCount"`
}

type SummaryServiceInterface interface {
	Generate(ctx context.Context, user string, date models.DateKey) (*SummaryResult, error)
	GenerateFromEntries(ctx context.Context, user string, date models.DateKey, entries []models.JournalEntry) (*SummaryResult, error)
}

type SummaryService struct {
	store   store.EntryStoreInterface
	llm     providers.LLMProviderInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
	now     func() time.Time
}

// Generate returns the stored summary for user and date if there is one,
// otherwise summarizes the day's entries and stores the result.
func (s *SummaryService) Generate(ctx context.Context, user string, date models.DateKey) (*SummaryResult, error) {
	existing, err := s.existing(ctx, user, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &SummaryResult{
			SummaryText: existing.SummaryText,
			GeneratedAt: existing.GeneratedAt,
			IsExisting:  true,
		}, nil
	}

	entries, err := s.store.GetEntries(ctx, user, date)
	if err != nil {
		return nil, fmt.Errorf("fetching entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, models.ErrNoEntries
	}
	return s.create(ctx, user, date, entries)
}

// GenerateFromEntries is Generate for a caller that has already fetched the
// day's entries.
func (s *SummaryService) GenerateFromEntries(ctx context.Context, user string, date models.DateKey, entries []models.JournalEntry) (*SummaryResult, error) {
	if len(entries) == 0 {
		return nil, models.ErrNoEntries
	}

	existing, err := s.existing(ctx, user, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &SummaryResult{
			SummaryText:  existing.SummaryText,
			GeneratedAt:  existing.GeneratedAt,
			IsExisting:   true,
			EntriesCount: len(entries),
		}, nil
	}
	return s.create(ctx, user, date, entries)
}

func (s *SummaryService) create(ctx context.Context, user string, date models.DateKey, entries []models.JournalEntry) (*SummaryResult, error) {
	start := time.Now()
	text, err := s.llm.Summarize(ctx, summarySystemPrompt, BuildSummaryPrompt(date, entries))
	s.metrics.ObserveSummaryDuration(time.Since(start))
	if err != nil {
		return nil, err
	}

	summary := models.DailySummary{
		User:        user,
		Date:        date,
		SummaryText: text,
		GeneratedAt: s.now().UTC(),
	}
	if err = s.store.SaveSummary(ctx, summary); err != nil {
		s.logger.Warnf(providers.TypeApp, "Summary for %s on %s generated but not saved: %s", user, date, err)
	}
	s.remember(summary)

	return &SummaryResult{
		SummaryText:  summary.SummaryText,
		GeneratedAt:  summary.GeneratedAt,
		IsExisting:   false,
		EntriesCount: len(entries),
	}, nil
}

func (s *SummaryService) existing(ctx context.Context, user string, date models.DateKey) (*models.DailySummary, error) {
	key := summaryCacheKey(user, date)
	if raw, ok := s.cache.Get(key); ok {
		var cached models.DailySummary
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	summary, err := s.store.GetSummary(ctx, user, date)
	if err != nil {
		return nil, fmt.Errorf("looking up existing summary: %w", err)
	}
	if summary != nil {
		s.remember(*summary)
	}
	return summary, nil
}

func (s *SummaryService) remember(summary models.DailySummary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	s.cache.Set(summaryCacheKey(summary.User, summary.Date), raw)
}

func summaryCacheKey(user string, date models.DateKey) string {
	return "summary:" + user + "|" + date.String()
}

// BuildSummaryPrompt lists the entries oldest first, one "<time>: <text>" per line.
func BuildSummaryPrompt(date models.DateKey, entries []models.JournalEntry) string {
	ordered := make([]models.JournalEntry, len(entries))
	copy(ordered, entries)
	models.SortByTimeAsc(ordered)

	var b strings.Builder
	fmt.Fprintf(&b, "Journal entries for %s:\n\n", date)
	for _, e := range ordered {
		fmt.Fprintf(&b, "%s: %s\n", e.Time, strings.TrimSpace(e.Text))
	}
	return b.String()
}

func NewSummaryService(entryStore store.EntryStoreInterface, llm providers.LLMProviderInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) SummaryServiceInterface {
	return &SummaryService{
		store:   entryStore,
		llm:     llm,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}
