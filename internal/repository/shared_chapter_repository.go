package repository

import (
	"context"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/google/uuid"
)

type SharedChapterRepository interface {
	CreateSharedEvent(ctx context.Context, event *domain.SharedEvent) error
	CreateConversationStarter(ctx context.Context, starter *domain.ConversationStarter) error
	GetSharedEventsForMatch(ctx context.Context, matchID uuid.UUID) ([]*domain.SharedEvent, error)
	CountSharedEvents(ctx context.Context, matchID uuid.UUID) (int, error)
	GetConversationStarters(ctx context.Context, matchID uuid.UUID) ([]*domain.ConversationStarter, error)
	MarkStarterUsed(ctx context.Context, matchID, starterID uuid.UUID) (*domain.ConversationStarter, error)
}
