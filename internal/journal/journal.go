package journal

import (
	"context"
	"fmt"
	"journald/internal/models"
	"strings"
	"sync"
)

const timeOfDayLayout = "3:04:05 PM"

// Journal is one user's view of their journal: a selected date backed by the
// per-date cache, with saves applied locally as soon as the store confirms them.
type Journal struct {
	mu       sync.Mutex
	user     string
	cache    *Cache
	clock    Clock
	selected models.DateKey
}

func NewJournal(user string, cache *Cache, clock Clock) *Journal {
	return &Journal{
		user:     user,
		cache:    cache,
		clock:    clock,
		selected: models.DateKeyOf(clock.Now()),
	}
}

// Now returns today's date key and the current wall clock time as the UI shows it.
func (j *Journal) Now() (models.DateKey, string) {
	now := j.clock.Now()
	return models.DateKeyOf(now), now.Format(timeOfDayLayout)
}

func (j *Journal) Select(ctx context.Context, date models.DateKey) View {
	j.mu.Lock()
	j.selected = date
	j.mu.Unlock()
	return j.cache.Get(ctx, date)
}

// Refresh refetches the selected date. It is the only way a failed load is retried.
func (j *Journal) Refresh(ctx context.Context) ([]models.JournalEntry, error) {
	return j.cache.Refresh(ctx, j.Selected())
}

func (j *Journal) Selected() models.DateKey {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.selected
}

// Entries returns what is cached for the selected date.
func (j *Journal) Entries() []models.JournalEntry {
	v, _ := j.cache.Peek(j.Selected())
	if v.Entries == nil {
		return []models.JournalEntry{}
	}
	return v.Entries
}

// Banner is the non-fatal message for the selected date, empty when the last
// load succeeded.
func (j *Journal) Banner() string {
	v, ok := j.cache.Peek(j.Selected())
	if !ok || v.Err == nil {
		return ""
	}
	if len(v.Entries) > 0 {
		return fmt.Sprintf("Could not refresh entries, showing cached data: %v", v.Err)
	}
	return fmt.Sprintf("Could not load entries: %v", v.Err)
}

// Save sends the entry to the store and, once it is confirmed, puts the
// locally built entry at the top of the date's list. The store's reply is only
// a confirmation. Saving to a date other than the selected one selects it.
func (j *Journal) Save(ctx context.Context, date models.DateKey, timeOfDay, text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, models.ErrEmptyEntry
	}
	if timeOfDay == "" {
		timeOfDay = j.clock.Now().Format(timeOfDayLayout)
	}

	entry := models.JournalEntry{
		Date: date,
		Time: timeOfDay,
		Text: text,
		User: j.user,
	}
	if err := j.cache.fetcher.SaveEntry(ctx, entry); err != nil {
		return false, err
	}

	j.cache.Prepend(date, entry)

	j.mu.Lock()
	if j.selected != date {
		j.selected = date
	}
	j.mu.Unlock()
	return true, nil
}
