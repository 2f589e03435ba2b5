package journal

import (
	"context"
	"errors"
	"journald/internal/models"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = models.DateKey("2025-06-03")

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 6, 3, 21, 0, 0, 0, time.Local)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	get     func(call int, date models.DateKey) ([]models.JournalEntry, error)
	saved   []models.JournalEntry
	saveErr error
}

func (f *fakeFetcher) GetEntries(_ context.Context, _ string, date models.DateKey) ([]models.JournalEntry, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	get := f.get
	f.mu.Unlock()
	if get == nil {
		return []models.JournalEntry{}, nil
	}
	return get(call, date)
}

func (f *fakeFetcher) SaveEntry(_ context.Context, entry models.JournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, entry)
	return nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func returning(entries ...models.JournalEntry) func(int, models.DateKey) ([]models.JournalEntry, error) {
	return func(int, models.DateKey) ([]models.JournalEntry, error) {
		out := make([]models.JournalEntry, len(entries))
		copy(out, entries)
		return out, nil
	}
}

func entry(tod, text string) models.JournalEntry {
	return models.JournalEntry{Time: tod, Text: text}
}

func texts(entries []models.JournalEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Text)
	}
	return out
}

func TestCache_MissFetchesAndSortsDescending(t *testing.T) {
	f := &fakeFetcher{get: returning(entry("9:00:00 AM", "coffee"), entry("9:05:12 PM", "night"), entry("1:30:00 PM", "lunch"))}
	c := NewCache("alice", f, newManualClock())

	v := c.Get(context.Background(), day)

	require.NoError(t, v.Err)
	assert.True(t, v.Fresh)
	assert.False(t, v.Refreshing)
	assert.Equal(t, []string{"night", "lunch", "coffee"}, texts(v.Entries))
	assert.Equal(t, 1, f.Calls())
}

func TestCache_FreshHitMakesNoRequest(t *testing.T) {
	clock := newManualClock()
	f := &fakeFetcher{get: returning(entry("9:00 AM", "coffee"))}
	c := NewCache("alice", f, clock)

	c.Get(context.Background(), day)
	clock.Advance(FilledTTL - time.Second)
	v := c.Get(context.Background(), day)

	assert.True(t, v.Fresh)
	assert.Equal(t, []string{"coffee"}, texts(v.Entries))
	assert.Equal(t, 1, f.Calls())
}

func TestCache_EmptyResultIsCachedWithShortTTL(t *testing.T) {
	clock := newManualClock()
	f := &fakeFetcher{}
	c := NewCache("alice", f, clock)

	v := c.Get(context.Background(), day)
	assert.Empty(t, v.Entries)
	assert.NotNil(t, v.Entries)

	clock.Advance(EmptyTTL - time.Second)
	c.Get(context.Background(), day)
	assert.Equal(t, 1, f.Calls())

	clock.Advance(time.Second)
	v = c.Get(context.Background(), day)
	c.Wait()
	assert.False(t, v.Fresh)
	assert.Equal(t, 2, f.Calls())
}

func TestCache_StaleServesOldDataAndRefreshesInBackground(t *testing.T) {
	clock := newManualClock()
	release := make(chan struct{})
	f := &fakeFetcher{get: func(call int, _ models.DateKey) ([]models.JournalEntry, error) {
		if call == 1 {
			return []models.JournalEntry{entry("9:00 AM", "old")}, nil
		}
		<-release
		return []models.JournalEntry{entry("9:00 AM", "old"), entry("10:00 AM", "new")}, nil
	}}
	c := NewCache("alice", f, clock)
	c.Get(context.Background(), day)

	clock.Advance(FilledTTL)
	v := c.Get(context.Background(), day)
	assert.False(t, v.Fresh)
	assert.True(t, v.Refreshing)
	assert.Equal(t, []string{"old"}, texts(v.Entries))

	close(release)
	c.Wait()

	v, ok := c.Peek(day)
	require.True(t, ok)
	assert.True(t, v.Fresh)
	assert.False(t, v.Refreshing)
	assert.Equal(t, []string{"new", "old"}, texts(v.Entries))
}

func TestCache_StaleDoesNotStackBackgroundRefreshes(t *testing.T) {
	clock := newManualClock()
	release := make(chan struct{})
	f := &fakeFetcher{get: func(call int, _ models.DateKey) ([]models.JournalEntry, error) {
		if call > 1 {
			<-release
		}
		return []models.JournalEntry{entry("9:00 AM", "a")}, nil
	}}
	c := NewCache("alice", f, clock)
	c.Get(context.Background(), day)
	clock.Advance(FilledTTL)

	c.Get(context.Background(), day)
	c.Get(context.Background(), day)
	close(release)
	c.Wait()

	assert.Equal(t, 2, f.Calls())
}

func TestCache_FailureWithoutEntryCachesEmpty(t *testing.T) {
	clock := newManualClock()
	boom := errors.New("store down")
	f := &fakeFetcher{get: func(int, models.DateKey) ([]models.JournalEntry, error) { return nil, boom }}
	c := NewCache("alice", f, clock)

	v := c.Get(context.Background(), day)
	assert.ErrorIs(t, v.Err, boom)
	assert.Empty(t, v.Entries)

	v = c.Get(context.Background(), day)
	assert.Equal(t, 1, f.Calls())
	assert.ErrorIs(t, v.Err, boom)
}

func TestCache_FailureKeepsExistingEntries(t *testing.T) {
	clock := newManualClock()
	boom := errors.New("timeout")
	f := &fakeFetcher{get: func(call int, _ models.DateKey) ([]models.JournalEntry, error) {
		if call == 1 {
			return []models.JournalEntry{entry("9:00 AM", "kept")}, nil
		}
		return nil, boom
	}}
	c := NewCache("alice", f, clock)
	c.Get(context.Background(), day)

	entries, err := c.Refresh(context.Background(), day)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"kept"}, texts(entries))

	v, _ := c.Peek(day)
	assert.ErrorIs(t, v.Err, boom)
	assert.Equal(t, []string{"kept"}, texts(v.Entries))
}

func TestCache_FailureIsNotRetriedAutomatically(t *testing.T) {
	clock := newManualClock()
	f := &fakeFetcher{get: func(int, models.DateKey) ([]models.JournalEntry, error) { return nil, errors.New("x") }}
	c := NewCache("alice", f, clock)

	c.Get(context.Background(), day)
	clock.Advance(10 * time.Second)
	c.Get(context.Background(), day)
	c.Wait()

	assert.Equal(t, 1, f.Calls())
}

func TestCache_FailedBackgroundRefreshWaitsForExplicitRefresh(t *testing.T) {
	clock := newManualClock()
	f := &fakeFetcher{get: func(call int, _ models.DateKey) ([]models.JournalEntry, error) {
		if call == 2 {
			return nil, errors.New("store down")
		}
		return []models.JournalEntry{entry("9:00 AM", "coffee")}, nil
	}}
	c := NewCache("alice", f, clock)
	c.Get(context.Background(), day)
	clock.Advance(FilledTTL)

	c.Get(context.Background(), day)
	c.Wait()
	for i := 0; i < 3; i++ {
		v := c.Get(context.Background(), day)
		assert.Error(t, v.Err)
		assert.Equal(t, []string{"coffee"}, texts(v.Entries))
	}
	c.Wait()
	assert.Equal(t, 2, f.Calls())

	_, err := c.Refresh(context.Background(), day)
	require.NoError(t, err)
	v, _ := c.Peek(day)
	assert.NoError(t, v.Err)

	clock.Advance(FilledTTL)
	c.Get(context.Background(), day)
	c.Wait()
	assert.Equal(t, 4, f.Calls())
}

func TestCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	clock := newManualClock()
	started := make(chan struct{})
	release := make(chan struct{})
	f := &fakeFetcher{get: func(call int, _ models.DateKey) ([]models.JournalEntry, error) {
		if call == 1 {
			close(started)
			<-release
		}
		return []models.JournalEntry{entry("9:00 AM", "coffee")}, nil
	}}
	c := NewCache("alice", f, clock)

	views := make([]View, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		views[0] = c.Get(context.Background(), day)
	}()
	<-started
	go func() {
		defer wg.Done()
		views[1] = c.Get(context.Background(), day)
	}()
	close(release)
	wg.Wait()

	for _, v := range views {
		assert.NoError(t, v.Err)
		assert.Equal(t, []string{"coffee"}, texts(v.Entries))
	}
	assert.Equal(t, 1, f.Calls())
}

func TestCache_WaitingMissHonoursContext(t *testing.T) {
	clock := newManualClock()
	started := make(chan struct{})
	release := make(chan struct{})
	f := &fakeFetcher{get: func(call int, _ models.DateKey) ([]models.JournalEntry, error) {
		close(started)
		<-release
		return []models.JournalEntry{entry("9:00 AM", "coffee")}, nil
	}}
	c := NewCache("alice", f, clock)

	first := make(chan View, 1)
	go func() { first <- c.Get(context.Background(), day) }()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := c.Get(ctx, day)
	assert.ErrorIs(t, v.Err, context.Canceled)

	close(release)
	assert.Equal(t, []string{"coffee"}, texts((<-first).Entries))
	assert.Equal(t, 1, f.Calls())
}

func TestCache_SupersededFirstLoadReturnsItsOwnResult(t *testing.T) {
	clock := newManualClock()
	loadStarted, refreshStarted := make(chan struct{}), make(chan struct{})
	releaseLoad, releaseRefresh := make(chan struct{}), make(chan struct{})
	f := &fakeFetcher{get: func(call int, _ models.DateKey) ([]models.JournalEntry, error) {
		if call == 1 {
			close(loadStarted)
			<-releaseLoad
			return []models.JournalEntry{entry("9:00 AM", "first")}, nil
		}
		close(refreshStarted)
		<-releaseRefresh
		return []models.JournalEntry{entry("9:00 AM", "first"), entry("10:00 AM", "second")}, nil
	}}
	c := NewCache("alice", f, clock)

	got := make(chan View, 1)
	go func() { got <- c.Get(context.Background(), day) }()
	<-loadStarted
	refreshed := make(chan []models.JournalEntry, 1)
	go func() {
		entries, _ := c.Refresh(context.Background(), day)
		refreshed <- entries
	}()
	<-refreshStarted

	close(releaseLoad)
	v := <-got
	assert.NoError(t, v.Err)
	assert.Equal(t, []string{"first"}, texts(v.Entries))
	assert.True(t, v.Refreshing)

	close(releaseRefresh)
	assert.Equal(t, []string{"second", "first"}, texts(<-refreshed))
	cached, ok := c.Peek(day)
	require.True(t, ok)
	assert.Equal(t, []string{"second", "first"}, texts(cached.Entries))
}

func TestCache_OutOfOrderBackgroundResponseIsDiscarded(t *testing.T) {
	clock := newManualClock()
	started := make(chan struct{})
	release := make(chan struct{})
	f := &fakeFetcher{get: func(call int, _ models.DateKey) ([]models.JournalEntry, error) {
		switch call {
		case 1:
			return []models.JournalEntry{entry("9:00 AM", "v1")}, nil
		case 2:
			close(started)
			<-release
			return []models.JournalEntry{entry("9:00 AM", "v2-stale")}, nil
		default:
			return []models.JournalEntry{entry("9:00 AM", "v3")}, nil
		}
	}}
	c := NewCache("alice", f, clock)
	c.Get(context.Background(), day)
	clock.Advance(FilledTTL)

	c.Get(context.Background(), day)
	<-started

	entries, err := c.Refresh(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, []string{"v3"}, texts(entries))

	close(release)
	c.Wait()

	v, _ := c.Peek(day)
	assert.Equal(t, []string{"v3"}, texts(v.Entries))
	assert.False(t, v.Refreshing)
}

func TestCache_PrependSupersedesInFlightRefresh(t *testing.T) {
	clock := newManualClock()
	started := make(chan struct{})
	release := make(chan struct{})
	f := &fakeFetcher{get: func(call int, _ models.DateKey) ([]models.JournalEntry, error) {
		if call == 1 {
			return []models.JournalEntry{entry("9:00 AM", "morning")}, nil
		}
		close(started)
		<-release
		return []models.JournalEntry{entry("9:00 AM", "morning")}, nil
	}}
	c := NewCache("alice", f, clock)
	c.Get(context.Background(), day)
	clock.Advance(FilledTTL)

	c.Get(context.Background(), day)
	<-started
	c.Prepend(day, entry("9:00 PM", "evening"))
	close(release)
	c.Wait()

	v, _ := c.Peek(day)
	assert.Equal(t, []string{"evening", "morning"}, texts(v.Entries))
	assert.True(t, v.Fresh)
}

func TestCache_PutOverwritesAndResetsFreshness(t *testing.T) {
	clock := newManualClock()
	f := &fakeFetcher{get: returning(entry("9:00 AM", "a"))}
	c := NewCache("alice", f, clock)
	c.Get(context.Background(), day)

	clock.Advance(FilledTTL + time.Minute)
	c.Put(day, []models.JournalEntry{entry("8:00 AM", "x"), entry("11:00 AM", "y")})

	v := c.Get(context.Background(), day)
	assert.True(t, v.Fresh)
	assert.Equal(t, []string{"y", "x"}, texts(v.Entries))
	assert.Equal(t, 1, f.Calls())
}

func TestCache_PeekUnknownDate(t *testing.T) {
	c := NewCache("alice", &fakeFetcher{}, newManualClock())

	_, ok := c.Peek(day)
	assert.False(t, ok)
}

func TestCache_UnboundedByDefault(t *testing.T) {
	c := NewCache("alice", &fakeFetcher{}, newManualClock())
	for i := 1; i <= 40; i++ {
		c.Put(models.DateKeyOf(time.Date(2025, 1, i, 0, 0, 0, 0, time.UTC)), nil)
	}
	assert.Equal(t, 40, c.Len())
}

func TestCache_MaxDatesEvictsLeastRecentlyUsed(t *testing.T) {
	f := &fakeFetcher{}
	c := NewCache("alice", f, newManualClock(), WithMaxDates(2))

	c.Put("2025-06-01", nil)
	c.Put("2025-06-02", nil)
	c.Get(context.Background(), "2025-06-01")
	c.Put("2025-06-03", nil)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Peek("2025-06-02")
	assert.False(t, ok)
	_, ok = c.Peek("2025-06-01")
	assert.True(t, ok)
	assert.Equal(t, 0, f.Calls())
}

func TestTTL(t *testing.T) {
	assert.Equal(t, 60*time.Second, TTL(nil))
	assert.Equal(t, 300*time.Second, TTL([]models.JournalEntry{entry("1:00 PM", "x")}))
}
