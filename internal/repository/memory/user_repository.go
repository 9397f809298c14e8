package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) GetByID(_ context.Context, id int) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.s.now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *UserRepository) FindCandidates(_ context.Context, userID int, filter domain.CandidateFilter, limit int) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	matched := make(map[int]bool)
	for _, m := range r.s.matches {
		if other, ok := m.GetOtherUserID(userID); ok {
			matched[other] = true
		}
	}

	var users []*domain.User
	for _, u := range r.s.users {
		if !u.OnboardingCompleted || u.ID == userID || matched[u.ID] {
			continue
		}
		if filter.Gender != nil && (u.Gender == nil || *u.Gender != *filter.Gender) {
			continue
		}
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	if limit >= 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}
