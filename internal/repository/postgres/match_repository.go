package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	return insertMatch(ctx, r.db, match)
}

func (r *matchRepository) CreateRevealed(ctx context.Context, match *domain.Match, bundle repository.RevealBundle) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin create transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			match.IsRevealed = false
		}
	}()

	match.IsRevealed = true
	if err := insertMatch(ctx, tx, match); err != nil {
		return err
	}
	if err := insertBundle(ctx, tx, match.ID, bundle); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match: %w", err)
	}
	return nil
}

// insertMatch stores the match in canonical order (user1_id < user2_id).
func insertMatch(ctx context.Context, q sqlx.QueryerContext, match *domain.Match) error {
	match.Normalize()
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}

	query := `
		INSERT INTO matches (id, user1_id, user2_id, deja_score, shared_events_count, user1_action, user2_action, is_revealed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING version, created_at, updated_at
	`
	err := q.QueryRowxContext(ctx, query,
		match.ID, match.User1ID, match.User2ID, match.DejaScore, match.SharedEventsCount,
		match.User1Action, match.User2Action, match.IsRevealed,
	).Scan(&match.Version, &match.CreatedAt, &match.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrMatchConflict
	}
	return err
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `SELECT * FROM matches WHERE id = $1`
	err := r.db.GetContext(ctx, &match, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetByUsers(ctx context.Context, userAID, userBID int) (*domain.Match, error) {
	user1ID, user2ID := domain.OrderUsers(userAID, userBID)

	var match domain.Match
	query := `SELECT * FROM matches WHERE user1_id = $1 AND user2_id = $2`
	err := r.db.GetContext(ctx, &match, query, user1ID, user2ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetUserMatches(ctx context.Context, userID int) ([]*domain.Match, error) {
	var matches []*domain.Match
	query := `
		SELECT * FROM matches
		WHERE (user1_id = $1 OR user2_id = $1)
		  AND (user1_action = 'relate' OR user2_action = 'relate')
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &matches, query, userID)
	return matches, err
}

func (r *matchRepository) UpdateAction(ctx context.Context, matchID uuid.UUID, userID int, action domain.Action, expectedVersion int) (*domain.Match, error) {
	var match domain.Match
	query := `
		UPDATE matches
		SET user1_action = CASE WHEN user1_id = $2 THEN $3 ELSE user1_action END,
		    user2_action = CASE WHEN user2_id = $2 THEN $3 ELSE user2_action END,
		    version = version + 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND version = $4 AND (user1_id = $2 OR user2_id = $2)
		RETURNING *
	`
	err := r.db.GetContext(ctx, &match, query, matchID, userID, action, expectedVersion)
	if err == nil {
		return &match, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Nothing updated: tell apart a missing row, a stranger and a stale version.
	current, err := r.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !current.HasUser(userID) {
		return nil, domain.ErrNotMatchParticipant
	}
	return nil, domain.ErrMatchConflict
}

func (r *matchRepository) Reveal(ctx context.Context, matchID uuid.UUID, bundle repository.RevealBundle) (revealed bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin reveal transaction: %w", err)
	}
	defer func() {
		if err != nil || !revealed {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE matches SET is_revealed = true, updated_at = CURRENT_TIMESTAMP WHERE id = $1 AND is_revealed = false`,
		matchID,
	)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM matches WHERE id = $1)`, matchID); err != nil {
			return false, err
		}
		if !exists {
			return false, domain.ErrMatchNotFound
		}
		return false, nil
	}

	if err := insertBundle(ctx, tx, matchID, bundle); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit reveal: %w", err)
	}
	return true, nil
}

func insertBundle(ctx context.Context, q sqlx.QueryerContext, matchID uuid.UUID, bundle repository.RevealBundle) error {
	for _, se := range bundle.SharedEvents {
		se.MatchID = matchID
		if err := insertSharedEvent(ctx, q, se); err != nil {
			return fmt.Errorf("failed to create shared event: %w", err)
		}
	}
	for _, cs := range bundle.Starters {
		cs.MatchID = matchID
		if err := insertConversationStarter(ctx, q, cs); err != nil {
			return fmt.Errorf("failed to create conversation starter: %w", err)
		}
	}
	return nil
}

func (r *matchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM matches WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}
