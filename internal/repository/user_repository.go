package repository

import (
	"context"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// FindCandidates returns onboarded users other than userID that have no
	// match row with userID in either direction.
	FindCandidates(ctx context.Context, userID int, filter domain.CandidateFilter, limit int) ([]*domain.User, error)
}
