package services

import (
	"journald/internal/models"
	"sync"
)

// LocalUserStore keeps self-registered users in memory so logins keep
// working when the spreadsheet backend is unreachable. It is persisted to disk
// by the scheduler.
type LocalUserStore struct {
	mu    sync.RWMutex
	users map[string]models.RegisteredUser
	order []string
	dirty bool
}

func NewLocalUserStore() *LocalUserStore {
	return &LocalUserStore{users: make(map[string]models.RegisteredUser)}
}

func (s *LocalUserStore) Add(user models.RegisteredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return models.ErrUserExists
	}
	s.users[user.Username] = user
	s.order = append(s.order, user.Username)
	s.dirty = true
	return nil
}

func (s *LocalUserStore) Get(username string) (models.RegisteredUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	return u, ok
}

func (s *LocalUserStore) SetTimezone(username, timezone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return false
	}
	u.Timezone = timezone
	s.users[username] = u
	s.dirty = true
	return true
}

// All returns users in registration order.
func (s *LocalUserStore) All() []models.RegisteredUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RegisteredUser, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.users[name])
	}
	return out
}

// Snapshot returns the users and clears the dirty flag.
func (s *LocalUserStore) Snapshot() models.UserSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.RegisteredUser, 0, len(s.order))
	for _, name := range s.order {
		users = append(users, s.users[name])
	}
	s.dirty = false
	return models.UserSnapshot{Version: models.UserSnapshotVersion, Users: users}
}

// Load replaces the store's contents. Later duplicates of a username are ignored.
func (s *LocalUserStore) Load(snapshot models.UserSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]models.RegisteredUser, len(snapshot.Users))
	s.order = s.order[:0]
	for _, u := range snapshot.Users {
		if _, ok := s.users[u.Username]; ok {
			continue
		}
		s.users[u.Username] = u
		s.order = append(s.order, u.Username)
	}
	s.dirty = false
}

// Dirty reports whether the store changed since the last Snapshot or Load.
func (s *LocalUserStore) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

func (s *LocalUserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
