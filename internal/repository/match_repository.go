package repository

import (
	"context"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/google/uuid"
)

// RevealBundle is everything persisted when a match's shared chapters unlock.
type RevealBundle struct {
	SharedEvents []*domain.SharedEvent
	Starters     []*domain.ConversationStarter
}

type MatchRepository interface {
	// Create inserts a new match. It returns domain.ErrMatchConflict if the
	// pair already has a row.
	Create(ctx context.Context, match *domain.Match) error
	// CreateRevealed inserts a match that is revealed from the start together
	// with its bundle, all or nothing. Conflicts are reported as in Create.
	CreateRevealed(ctx context.Context, match *domain.Match, bundle RevealBundle) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	// GetByUsers looks the pair up in either order.
	GetByUsers(ctx context.Context, userAID, userBID int) (*domain.Match, error)
	// GetUserMatches returns matches involving userID where at least one side chose relate.
	GetUserMatches(ctx context.Context, userID int) ([]*domain.Match, error)
	// UpdateAction sets the user's action if the row is still at expectedVersion.
	// A stale version yields domain.ErrMatchConflict.
	UpdateAction(ctx context.Context, matchID uuid.UUID, userID int, action domain.Action, expectedVersion int) (*domain.Match, error)
	// Reveal flips is_revealed from false to true and stores the bundle in the
	// same transaction. It reports false, storing nothing, when the match was
	// already revealed.
	Reveal(ctx context.Context, matchID uuid.UUID, bundle RevealBundle) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
