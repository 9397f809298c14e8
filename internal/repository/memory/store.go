// Package memory implements the repository contracts on process memory.
// It backs the use-case tests and local runs without PostgreSQL.
package memory

import (
	"sync"
	"time"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"github.com/google/uuid"
)

var (
	_ repository.UserRepository          = (*UserRepository)(nil)
	_ repository.LifeEventRepository     = (*LifeEventRepository)(nil)
	_ repository.MatchRepository         = (*MatchRepository)(nil)
	_ repository.SharedChapterRepository = (*SharedChapterRepository)(nil)
)

// Store holds every table behind one mutex, so multi-table writes such as a
// reveal are atomic the same way a transaction is.
type Store struct {
	mu sync.Mutex

	users        map[int]*domain.User
	templates    map[uuid.UUID]*domain.LifeEvent
	events       map[uuid.UUID]*domain.UserLifeEvent
	matches      map[uuid.UUID]*domain.Match
	sharedEvents []*domain.SharedEvent
	starters     []*domain.ConversationStarter

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:     make(map[int]*domain.User),
		templates: make(map[uuid.UUID]*domain.LifeEvent),
		events:    make(map[uuid.UUID]*domain.UserLifeEvent),
		matches:   make(map[uuid.UUID]*domain.Match),
		now:       time.Now,
	}
}

// PutUser inserts or replaces a user.
func (s *Store) PutUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now()
	}
	cp.UpdatedAt = cp.CreatedAt
	s.users[u.ID] = &cp
}

// PutTemplate inserts or replaces a catalog entry.
func (s *Store) PutTemplate(t *domain.LifeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	s.templates[t.ID] = &cp
}

// DeleteUser removes a user and cascades to their events and matches.
func (s *Store) DeleteUser(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	for eid, e := range s.events {
		if e.UserID == id {
			delete(s.events, eid)
		}
	}
	for mid, m := range s.matches {
		if m.HasUser(id) {
			s.deleteMatchLocked(mid)
		}
	}
}

func (s *Store) deleteMatchLocked(id uuid.UUID) {
	delete(s.matches, id)

	shared := s.sharedEvents[:0]
	for _, se := range s.sharedEvents {
		if se.MatchID != id {
			shared = append(shared, se)
		}
	}
	s.sharedEvents = shared

	starters := s.starters[:0]
	for _, cs := range s.starters {
		if cs.MatchID != id {
			starters = append(starters, cs)
		}
	}
	s.starters = starters
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) LifeEvents() *LifeEventRepository {
	return &LifeEventRepository{s: s}
}

func (s *Store) Matches() *MatchRepository {
	return &MatchRepository{s: s}
}

func (s *Store) SharedChapters() *SharedChapterRepository {
	return &SharedChapterRepository{s: s}
}
