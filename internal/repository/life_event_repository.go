package repository

import (
	"context"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/google/uuid"
)

type LifeEventRepository interface {
	ListTemplates(ctx context.Context) ([]*domain.LifeEvent, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*domain.LifeEvent, error)

	// GetUserLifeEvents returns the user's timeline ordered by age, then creation time.
	GetUserLifeEvents(ctx context.Context, userID int) ([]*domain.UserLifeEvent, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserLifeEvent, error)
	Create(ctx context.Context, event *domain.UserLifeEvent) error
	Update(ctx context.Context, event *domain.UserLifeEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
}
