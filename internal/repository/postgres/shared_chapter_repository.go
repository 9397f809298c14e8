package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type sharedChapterRepository struct {
	db *sqlx.DB
}

func NewSharedChapterRepository(db *sqlx.DB) repository.SharedChapterRepository {
	return &sharedChapterRepository{db: db}
}

func insertSharedEvent(ctx context.Context, q sqlx.QueryerContext, se *domain.SharedEvent) error {
	if se.ID == uuid.Nil {
		se.ID = uuid.New()
	}
	query := `
		INSERT INTO shared_events (id, match_id, user1_event_id, user2_event_id, similarity_score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return q.QueryRowxContext(ctx, query, se.ID, se.MatchID, se.User1EventID, se.User2EventID, se.SimilarityScore).
		Scan(&se.CreatedAt)
}

func insertConversationStarter(ctx context.Context, q sqlx.QueryerContext, cs *domain.ConversationStarter) error {
	if cs.ID == uuid.Nil {
		cs.ID = uuid.New()
	}
	query := `
		INSERT INTO conversation_starters (id, match_id, question, based_on_event, is_used)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return q.QueryRowxContext(ctx, query, cs.ID, cs.MatchID, cs.Question, cs.BasedOnEvent, cs.IsUsed).
		Scan(&cs.CreatedAt)
}

func (r *sharedChapterRepository) CreateSharedEvent(ctx context.Context, event *domain.SharedEvent) error {
	return insertSharedEvent(ctx, r.db, event)
}

func (r *sharedChapterRepository) CreateConversationStarter(ctx context.Context, starter *domain.ConversationStarter) error {
	return insertConversationStarter(ctx, r.db, starter)
}

func (r *sharedChapterRepository) GetSharedEventsForMatch(ctx context.Context, matchID uuid.UUID) ([]*domain.SharedEvent, error) {
	var events []*domain.SharedEvent
	query := `SELECT * FROM shared_events WHERE match_id = $1 ORDER BY created_at ASC, id ASC`
	err := r.db.SelectContext(ctx, &events, query, matchID)
	return events, err
}

func (r *sharedChapterRepository) CountSharedEvents(ctx context.Context, matchID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM shared_events WHERE match_id = $1`, matchID)
	return count, err
}

func (r *sharedChapterRepository) GetConversationStarters(ctx context.Context, matchID uuid.UUID) ([]*domain.ConversationStarter, error) {
	var starters []*domain.ConversationStarter
	query := `SELECT * FROM conversation_starters WHERE match_id = $1 ORDER BY created_at ASC, id ASC`
	err := r.db.SelectContext(ctx, &starters, query, matchID)
	return starters, err
}

func (r *sharedChapterRepository) MarkStarterUsed(ctx context.Context, matchID, starterID uuid.UUID) (*domain.ConversationStarter, error) {
	var starter domain.ConversationStarter
	query := `
		UPDATE conversation_starters SET is_used = true
		WHERE id = $1 AND match_id = $2
		RETURNING *
	`
	err := r.db.GetContext(ctx, &starter, query, starterID, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStarterNotFound
		}
		return nil, err
	}
	return &starter, nil
}
