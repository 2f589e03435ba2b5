package testutil

import (
	"context"
	"io"
	"journald/internal/models"
	"journald/internal/providers"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

type GetEntriesCall struct {
	User string
	Date models.DateKey
}

type TimezoneUpdate struct {
	Username  string
	Timezone  string
	LastLogin time.Time
}

// MockStore implements store.EntryStoreInterface over in-memory maps keyed by "user|date".
type MockStore struct {
	mu sync.Mutex

	Entries   map[string][]models.JournalEntry
	Summaries map[string]*models.DailySummary
	Users     []models.RosterUser

	CheckUserFn func(username, passcode string) (*models.RosterUser, error)
	ForwardFn   func(body []byte) ([]byte, error)

	SaveEntryErr      error
	GetEntriesErr     error
	GetSummaryErr     error
	SaveSummaryErr    error
	RegisterErr       error
	GetAllUsersErr    error
	UpdateTimezoneErr error

	GetEntriesCalls []GetEntriesCall
	SavedEntries    []models.JournalEntry
	SavedSummaries  []models.DailySummary
	Registered      []models.RegisteredUser
	TimezoneUpdates []TimezoneUpdate
	Forwarded       [][]byte
}

func NewMockStore() *MockStore {
	return &MockStore{
		Entries:   make(map[string][]models.JournalEntry),
		Summaries: make(map[string]*models.DailySummary),
	}
}

func Key(user string, date models.DateKey) string {
	return user + "|" + date.String()
}

func (m *MockStore) SaveEntry(_ context.Context, entry models.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveEntryErr != nil {
		return m.SaveEntryErr
	}
	m.SavedEntries = append(m.SavedEntries, entry)
	return nil
}

func (m *MockStore) GetEntries(_ context.Context, user string, date models.DateKey) ([]models.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetEntriesCalls = append(m.GetEntriesCalls, GetEntriesCall{User: user, Date: date})
	if m.GetEntriesErr != nil {
		return nil, m.GetEntriesErr
	}
	src := m.Entries[Key(user, date)]
	out := make([]models.JournalEntry, len(src))
	copy(out, src)
	return out, nil
}

func (m *MockStore) GetSummary(_ context.Context, user string, date models.DateKey) (*models.DailySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSummaryErr != nil {
		return nil, m.GetSummaryErr
	}
	s, ok := m.Summaries[Key(user, date)]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MockStore) SaveSummary(_ context.Context, summary models.DailySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavedSummaries = append(m.SavedSummaries, summary)
	if m.SaveSummaryErr != nil {
		return m.SaveSummaryErr
	}
	cp := summary
	m.Summaries[Key(summary.User, summary.Date)] = &cp
	return nil
}

func (m *MockStore) Register(_ context.Context, user models.RegisteredUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RegisterErr != nil {
		return m.RegisterErr
	}
	m.Registered = append(m.Registered, user)
	m.Users = append(m.Users, user.Roster())
	return nil
}

func (m *MockStore) CheckUser(_ context.Context, username, passcode string) (*models.RosterUser, error) {
	m.mu.Lock()
	fn := m.CheckUserFn
	m.mu.Unlock()
	if fn != nil {
		return fn(username, passcode)
	}
	return nil, models.ErrInvalidCredentials
}

func (m *MockStore) GetAllUsers(_ context.Context) ([]models.RosterUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllUsersErr != nil {
		return nil, m.GetAllUsersErr
	}
	out := make([]models.RosterUser, len(m.Users))
	copy(out, m.Users)
	return out, nil
}

func (m *MockStore) UpdateTimezone(_ context.Context, username, timezone string, lastLogin time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateTimezoneErr != nil {
		return m.UpdateTimezoneErr
	}
	m.TimezoneUpdates = append(m.TimezoneUpdates, TimezoneUpdate{Username: username, Timezone: timezone, LastLogin: lastLogin})
	return nil
}

func (m *MockStore) Forward(_ context.Context, body []byte) ([]byte, error) {
	m.mu.Lock()
	m.Forwarded = append(m.Forwarded, body)
	fn := m.ForwardFn
	m.mu.Unlock()
	if fn != nil {
		return fn(body)
	}
	return []byte(`{"success":true}`), nil
}

func (m *MockStore) EntryFetches() []GetEntriesCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GetEntriesCall, len(m.GetEntriesCalls))
	copy(out, m.GetEntriesCalls)
	return out
}

type LLMCall struct {
	System string
	Prompt string
}

// MockLLM implements providers.LLMProviderInterface.
type MockLLM struct {
	mu       sync.Mutex
	Response string
	Err      error
	Calls    []LLMCall
}

func (m *MockLLM) Summarize(_ context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, LLMCall{System: system, Prompt: prompt})
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockMailer implements providers.MailerInterface.
type MockMailer struct {
	mu       sync.Mutex
	Disabled bool
	Err      error
	ErrFor   map[string]error
	Sent     []providers.Message
}

func (m *MockMailer) Enabled() bool { return !m.Disabled }

func (m *MockMailer) Send(_ context.Context, msg providers.Message) error {
	if m.Disabled {
		return models.ErrMailerDisabled
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.ErrFor[msg.To]; ok {
		return err
	}
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *MockMailer) Messages() []providers.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]providers.Message, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// MockTranscriber implements providers.TranscriberInterface.
type MockTranscriber struct {
	Text     string
	Err      error
	Filename string
	Audio    []byte
}

func (m *MockTranscriber) Transcribe(_ context.Context, filename string, audio io.Reader) (string, error) {
	m.Filename = filename
	m.Audio, _ = io.ReadAll(audio)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts digest outcomes.
type MockMetrics struct {
	mu             sync.Mutex
	DigestsSent    map[string]int
	DigestFailures map[string]int
	Summaries      int
	Persists       int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{DigestsSent: make(map[string]int), DigestFailures: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) ObserveSummaryDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Summaries++
}

func (m *MockMetrics) IncDigestsSent(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestsSent[kind]++
}

func (m *MockMetrics) IncDigestFailures(timezone string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DigestFailures[timezone]++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}
