package journal

import (
	"container/list"
	"context"
	"journald/internal/models"
	"sync"
	"time"
)

const (
	EmptyTTL  = 60 * time.Second
	FilledTTL = 300 * time.Second
)

// TTL is shorter for empty days so a day that is just being started is re-polled sooner.
func TTL(entries []models.JournalEntry) time.Duration {
	if len(entries) == 0 {
		return EmptyTTL
	}
	return FilledTTL
}

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type Fetcher interface {
	GetEntries(ctx context.Context, user string, date models.DateKey) ([]models.JournalEntry, error)
	SaveEntry(ctx context.Context, entry models.JournalEntry) error
}

// View is what a read of one date returns.
type View struct {
	Entries    []models.JournalEntry
	Fresh      bool
	Refreshing bool
	// Err is the last refresh failure; Entries are then whatever was cached before it.
	Err error
}

type cacheEntry struct {
	entries   []models.JournalEntry
	fetchedAt time.Time
	err       error
	elem      *list.Element
}

// pendingLoad is a first load of a date that later misses wait on.
type pendingLoad struct {
	done chan struct{}
	view View
}

type Option func(*Cache)

// WithMaxDates bounds the number of cached dates, evicting the least recently
// used one. Zero keeps every date for the life of the cache.
func WithMaxDates(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxDates = n
		}
	}
}

// Cache is a per-date stale-while-revalidate cache of one user's entries.
//
// Every fetch is tagged with a per-date sequence number. A response is applied
// only if its number is still the latest issued for that date, so a slow
// background refresh can never overwrite data from a newer refresh or a local
// save.
type Cache struct {
	mu       sync.Mutex
	user     string
	fetcher  Fetcher
	clock    Clock
	maxDates int

	entries  map[models.DateKey]*cacheEntry
	seq      map[models.DateKey]uint64
	inflight map[models.DateKey]int
	loading  map[models.DateKey]*pendingLoad
	lru      *list.List
	wg       sync.WaitGroup
}

func NewCache(user string, fetcher Fetcher, clock Clock, opts ...Option) *Cache {
	c := &Cache{
		user:     user,
		fetcher:  fetcher,
		clock:    clock,
		entries:  make(map[models.DateKey]*cacheEntry),
		seq:      make(map[models.DateKey]uint64),
		inflight: make(map[models.DateKey]int),
		loading:  make(map[models.DateKey]*pendingLoad),
		lru:      list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get serves a fresh entry without a network call, a stale entry while
// refreshing it in the background, and blocks on a fetch when the date has
// never been loaded. Concurrent first loads of a date share one fetch.
// A date whose last fetch failed is not refetched until Refresh is called.
func (c *Cache) Get(ctx context.Context, date models.DateKey) View {
	c.mu.Lock()
	e, ok := c.entries[date]
	if ok {
		c.touch(e)
		if c.fresh(e) {
			v := c.view(date, e)
			c.mu.Unlock()
			return v
		}
		if c.inflight[date] == 0 && e.err == nil {
			seq := c.begin(date)
			c.wg.Add(1)
			go c.background(context.WithoutCancel(ctx), date, seq)
		}
		v := c.view(date, e)
		c.mu.Unlock()
		return v
	}
	if p, ok := c.loading[date]; ok {
		c.mu.Unlock()
		return c.await(ctx, date, p)
	}

	p := &pendingLoad{done: make(chan struct{})}
	c.loading[date] = p
	seq := c.begin(date)
	c.mu.Unlock()

	entries, err := c.fetcher.GetEntries(ctx, c.user, date)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(date, seq, entries, err)
	p.view = c.loaded(date, entries, err)
	delete(c.loading, date)
	close(p.done)
	v := p.view
	v.Entries = append([]models.JournalEntry{}, p.view.Entries...)
	return v
}

func (c *Cache) await(ctx context.Context, date models.DateKey, p *pendingLoad) View {
	select {
	case <-p.done:
	case <-ctx.Done():
		return View{Entries: []models.JournalEntry{}, Err: ctx.Err()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[date]; ok {
		return c.view(date, e)
	}
	v := p.view
	v.Entries = append([]models.JournalEntry{}, p.view.Entries...)
	return v
}

// loaded is the view a foreground fetch returns to its caller. When a newer
// fetch superseded it before anything was cached, the fetch's own result is
// returned. Callers hold mu.
func (c *Cache) loaded(date models.DateKey, entries []models.JournalEntry, err error) View {
	if e, ok := c.entries[date]; ok {
		return c.view(date, e)
	}
	if err != nil {
		return View{Entries: []models.JournalEntry{}, Refreshing: c.inflight[date] > 0, Err: err}
	}
	return View{Entries: sortedCopy(entries), Fresh: true, Refreshing: c.inflight[date] > 0}
}

// Refresh fetches date now regardless of freshness. On failure the previously
// cached entries are returned together with the error. A successful refresh
// clears an earlier failure.
func (c *Cache) Refresh(ctx context.Context, date models.DateKey) ([]models.JournalEntry, error) {
	c.mu.Lock()
	seq := c.begin(date)
	c.mu.Unlock()

	entries, err := c.fetcher.GetEntries(ctx, c.user, date)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(date, seq, entries, err)
	return c.loaded(date, entries, err).Entries, err
}

// Put replaces the entries of date wholesale and marks them fetched now.
func (c *Cache) Put(date models.DateKey, entries []models.JournalEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issue(date)
	c.store(date, &cacheEntry{entries: sortedCopy(entries), fetchedAt: c.clock.Now()})
}

// Prepend adds a locally saved entry in front of date's list and marks the
// date fetched now. Any refresh already in flight for date is discarded.
func (c *Cache) Prepend(date models.DateKey, entry models.JournalEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issue(date)

	var prev []models.JournalEntry
	if e, ok := c.entries[date]; ok {
		prev = e.entries
	}
	entries := make([]models.JournalEntry, 0, len(prev)+1)
	entries = append(entries, entry)
	entries = append(entries, prev...)
	c.store(date, &cacheEntry{entries: entries, fetchedAt: c.clock.Now()})
}

// Peek reports the cached state of date without fetching.
func (c *Cache) Peek(date models.DateKey) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[date]
	if !ok {
		return View{Refreshing: c.inflight[date] > 0}, false
	}
	return c.view(date, e), true
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Wait blocks until every background refresh has finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

func (c *Cache) background(ctx context.Context, date models.DateKey, seq uint64) {
	defer c.wg.Done()
	entries, err := c.fetcher.GetEntries(ctx, c.user, date)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(date, seq, entries, err)
}

// issue hands out the next sequence number for date, invalidating every
// fetch issued before it. Callers hold mu.
func (c *Cache) issue(date models.DateKey) uint64 {
	c.seq[date]++
	return c.seq[date]
}

// begin issues a sequence number for a fetch about to start. Callers hold mu.
func (c *Cache) begin(date models.DateKey) uint64 {
	c.inflight[date]++
	return c.issue(date)
}

// apply records a fetch outcome if seq is still the latest for date. Callers hold mu.
func (c *Cache) apply(date models.DateKey, seq uint64, entries []models.JournalEntry, err error) {
	if c.inflight[date] > 0 {
		c.inflight[date]--
	}
	if c.inflight[date] == 0 {
		delete(c.inflight, date)
	}
	if c.seq[date] != seq {
		return
	}

	if err == nil {
		c.store(date, &cacheEntry{entries: sortedCopy(entries), fetchedAt: c.clock.Now()})
		return
	}
	if e, ok := c.entries[date]; ok {
		e.err = err
		return
	}
	c.store(date, &cacheEntry{entries: []models.JournalEntry{}, fetchedAt: c.clock.Now(), err: err})
}

func (c *Cache) store(date models.DateKey, e *cacheEntry) {
	if old, ok := c.entries[date]; ok {
		e.elem = old.elem
	}
	c.entries[date] = e
	c.touch(e)
	if e.elem == nil {
		e.elem = c.lru.PushFront(date)
	}
	c.evict()
}

func (c *Cache) touch(e *cacheEntry) {
	if e.elem != nil {
		c.lru.MoveToFront(e.elem)
	}
}

func (c *Cache) evict() {
	if c.maxDates == 0 {
		return
	}
	for c.lru.Len() > c.maxDates {
		oldest := c.lru.Back()
		date := oldest.Value.(models.DateKey)
		c.lru.Remove(oldest)
		delete(c.entries, date)
		if c.inflight[date] == 0 {
			delete(c.seq, date)
		}
	}
}

func (c *Cache) fresh(e *cacheEntry) bool {
	return c.clock.Now().Sub(e.fetchedAt) < TTL(e.entries)
}

func (c *Cache) view(date models.DateKey, e *cacheEntry) View {
	out := make([]models.JournalEntry, len(e.entries))
	copy(out, e.entries)
	return View{
		Entries:    out,
		Fresh:      c.fresh(e),
		Refreshing: c.inflight[date] > 0,
		Err:        e.err,
	}
}

func sortedCopy(entries []models.JournalEntry) []models.JournalEntry {
	out := make([]models.JournalEntry, len(entries))
	copy(out, entries)
	models.SortByTimeDesc(out)
	return out
}
