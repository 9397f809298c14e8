package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/google/uuid"
)

type LifeEventRepository struct {
	s *Store
}

func (r *LifeEventRepository) ListTemplates(_ context.Context) ([]*domain.LifeEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var templates []*domain.LifeEvent
	for _, t := range r.s.templates {
		if !t.IsTemplate {
			continue
		}
		cp := *t
		templates = append(templates, &cp)
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].Category != templates[j].Category {
			return templates[i].Category < templates[j].Category
		}
		return templates[i].Title < templates[j].Title
	})
	return templates, nil
}

func (r *LifeEventRepository) GetTemplate(_ context.Context, id uuid.UUID) (*domain.LifeEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.templates[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *LifeEventRepository) GetUserLifeEvents(_ context.Context, userID int) ([]*domain.UserLifeEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var events []*domain.UserLifeEvent
	for _, e := range r.s.events {
		if e.UserID == userID {
			events = append(events, r.withTemplateTitle(e))
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i].AgeWhenHappened, events[j].AgeWhenHappened
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (r *LifeEventRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.UserLifeEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrLifeEventNotFound
	}
	return r.withTemplateTitle(e), nil
}

func (r *LifeEventRepository) Create(_ context.Context, event *domain.UserLifeEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = r.s.now()
	cp := *event
	cp.TemplateTitle = nil
	r.s.events[event.ID] = &cp
	event.TemplateTitle = r.withTemplateTitle(&cp).TemplateTitle
	return nil
}

func (r *LifeEventRepository) Update(_ context.Context, event *domain.UserLifeEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.events[event.ID]
	if !ok {
		return domain.ErrLifeEventNotFound
	}
	cp := *existing
	cp.CustomTitle = event.CustomTitle
	cp.CustomDescription = event.CustomDescription
	cp.PersonalStory = event.PersonalStory
	cp.AgeWhenHappened = event.AgeWhenHappened
	cp.Category = event.Category
	cp.IsSensitive = event.IsSensitive
	cp.IsVisible = event.IsVisible
	r.s.events[event.ID] = &cp
	return nil
}

func (r *LifeEventRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return domain.ErrLifeEventNotFound
	}
	delete(r.s.events, id)
	return nil
}

// withTemplateTitle copies e and joins the catalog title. Callers hold the lock.
func (r *LifeEventRepository) withTemplateTitle(e *domain.UserLifeEvent) *domain.UserLifeEvent {
	cp := *e
	cp.TemplateTitle = nil
	if e.LifeEventID != nil {
		if t, ok := r.s.templates[*e.LifeEventID]; ok {
			title := t.Title
			cp.TemplateTitle = &title
		}
	}
	return &cp
}
