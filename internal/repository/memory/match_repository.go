package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"github.com/google/uuid"
)

type MatchRepository struct {
	s *Store
}

func copyMatch(m *domain.Match) *domain.Match {
	cp := *m
	if m.User1Action != nil {
		a := *m.User1Action
		cp.User1Action = &a
	}
	if m.User2Action != nil {
		a := *m.User2Action
		cp.User2Action = &a
	}
	return &cp
}

func (r *MatchRepository) Create(_ context.Context, match *domain.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.createLocked(match)
}

func (r *MatchRepository) CreateRevealed(_ context.Context, match *domain.Match, bundle repository.RevealBundle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	match.IsRevealed = true
	if err := r.createLocked(match); err != nil {
		match.IsRevealed = false
		return err
	}
	r.storeBundleLocked(match.ID, bundle)
	return nil
}

func (r *MatchRepository) createLocked(match *domain.Match) error {
	match.Normalize()
	for _, m := range r.s.matches {
		if m.User1ID == match.User1ID && m.User2ID == match.User2ID {
			return domain.ErrMatchConflict
		}
	}
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	match.Version = 1
	match.CreatedAt = r.s.now()
	match.UpdatedAt = match.CreatedAt
	r.s.matches[match.ID] = copyMatch(match)
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (r *MatchRepository) GetByUsers(_ context.Context, userAID, userBID int) (*domain.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user1ID, user2ID := domain.OrderUsers(userAID, userBID)
	for _, m := range r.s.matches {
		if m.User1ID == user1ID && m.User2ID == user2ID {
			return copyMatch(m), nil
		}
	}
	return nil, domain.ErrMatchNotFound
}

func (r *MatchRepository) GetUserMatches(_ context.Context, userID int) ([]*domain.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matches []*domain.Match
	for _, m := range r.s.matches {
		if m.HasUser(userID) && m.HasRelate() {
			matches = append(matches, copyMatch(m))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (r *MatchRepository) UpdateAction(_ context.Context, matchID uuid.UUID, userID int, action domain.Action, expectedVersion int) (*domain.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[matchID]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	if !m.HasUser(userID) {
		return nil, domain.ErrNotMatchParticipant
	}
	if m.Version != expectedVersion {
		return nil, domain.ErrMatchConflict
	}
	m.SetAction(userID, action)
	m.Version++
	m.UpdatedAt = r.s.now()
	return copyMatch(m), nil
}

func (r *MatchRepository) Reveal(_ context.Context, matchID uuid.UUID, bundle repository.RevealBundle) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[matchID]
	if !ok {
		return false, domain.ErrMatchNotFound
	}
	if m.IsRevealed {
		return false, nil
	}
	m.IsRevealed = true
	m.UpdatedAt = r.s.now()
	r.storeBundleLocked(matchID, bundle)
	return true, nil
}

func (r *MatchRepository) storeBundleLocked(matchID uuid.UUID, bundle repository.RevealBundle) {
	for _, se := range bundle.SharedEvents {
		se.MatchID = matchID
		if se.ID == uuid.Nil {
			se.ID = uuid.New()
		}
		se.CreatedAt = r.s.now()
		cp := *se
		r.s.sharedEvents = append(r.s.sharedEvents, &cp)
	}
	for _, cs := range bundle.Starters {
		cs.MatchID = matchID
		if cs.ID == uuid.Nil {
			cs.ID = uuid.New()
		}
		cs.CreatedAt = r.s.now()
		cp := *cs
		r.s.starters = append(r.s.starters, &cp)
	}
}

func (r *MatchRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.matches[id]; !ok {
		return domain.ErrMatchNotFound
	}
	r.s.deleteMatchLocked(id)
	return nil
}
