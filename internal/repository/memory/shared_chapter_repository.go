package memory

import (
	"context"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/google/uuid"
)

type SharedChapterRepository struct {
	s *Store
}

func (r *SharedChapterRepository) CreateSharedEvent(_ context.Context, event *domain.SharedEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.matches[event.MatchID]; !ok {
		return domain.ErrMatchNotFound
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = r.s.now()
	cp := *event
	r.s.sharedEvents = append(r.s.sharedEvents, &cp)
	return nil
}

func (r *SharedChapterRepository) CreateConversationStarter(_ context.Context, starter *domain.ConversationStarter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.matches[starter.MatchID]; !ok {
		return domain.ErrMatchNotFound
	}
	if starter.ID == uuid.Nil {
		starter.ID = uuid.New()
	}
	starter.CreatedAt = r.s.now()
	cp := *starter
	r.s.starters = append(r.s.starters, &cp)
	return nil
}

func (r *SharedChapterRepository) GetSharedEventsForMatch(_ context.Context, matchID uuid.UUID) ([]*domain.SharedEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var events []*domain.SharedEvent
	for _, se := range r.s.sharedEvents {
		if se.MatchID == matchID {
			cp := *se
			events = append(events, &cp)
		}
	}
	return events, nil
}

func (r *SharedChapterRepository) CountSharedEvents(_ context.Context, matchID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, se := range r.s.sharedEvents {
		if se.MatchID == matchID {
			count++
		}
	}
	return count, nil
}

func (r *SharedChapterRepository) GetConversationStarters(_ context.Context, matchID uuid.UUID) ([]*domain.ConversationStarter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var starters []*domain.ConversationStarter
	for _, cs := range r.s.starters {
		if cs.MatchID == matchID {
			cp := *cs
			starters = append(starters, &cp)
		}
	}
	return starters, nil
}

func (r *SharedChapterRepository) MarkStarterUsed(_ context.Context, matchID, starterID uuid.UUID) (*domain.ConversationStarter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cs := range r.s.starters {
		if cs.ID == starterID && cs.MatchID == matchID {
			cs.IsUsed = true
			cp := *cs
			return &cp, nil
		}
	}
	return nil, domain.ErrStarterNotFound
}
