package domain

import (
	"time"

	"github.com/google/uuid"
)

// SharedEvent pairs one life event from each side of a revealed match.
type SharedEvent struct {
	ID              uuid.UUID `json:"id" db:"id"`
	MatchID         uuid.UUID `json:"match_id" db:"match_id"`
	User1EventID    uuid.UUID `json:"user1_event_id" db:"user1_event_id"`
	User2EventID    uuid.UUID `json:"user2_event_id" db:"user2_event_id"`
	SimilarityScore int       `json:"similarity_score" db:"similarity_score"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type ConversationStarter struct {
	ID           uuid.UUID `json:"id" db:"id"`
	MatchID      uuid.UUID `json:"match_id" db:"match_id"`
	Question     string    `json:"question" db:"question"`
	BasedOnEvent *string   `json:"based_on_event" db:"based_on_event"`
	IsUsed       bool      `json:"is_used" db:"is_used"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
