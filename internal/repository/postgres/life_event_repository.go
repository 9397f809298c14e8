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

type lifeEventRepository struct {
	db *sqlx.DB
}

func NewLifeEventRepository(db *sqlx.DB) repository.LifeEventRepository {
	return &lifeEventRepository{db: db}
}

const selectUserLifeEvents = `
	SELECT ule.*, le.title AS template_title
	FROM user_life_events ule
	LEFT JOIN life_events le ON le.id = ule.life_event_id
`

func (r *lifeEventRepository) ListTemplates(ctx context.Context) ([]*domain.LifeEvent, error) {
	var templates []*domain.LifeEvent
	query := `SELECT * FROM life_events WHERE is_template = true ORDER BY category ASC, title ASC`
	err := r.db.SelectContext(ctx, &templates, query)
	return templates, err
}

func (r *lifeEventRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.LifeEvent, error) {
	var template domain.LifeEvent
	err := r.db.GetContext(ctx, &template, `SELECT * FROM life_events WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

func (r *lifeEventRepository) GetUserLifeEvents(ctx context.Context, userID int) ([]*domain.UserLifeEvent, error) {
	var events []*domain.UserLifeEvent
	query := selectUserLifeEvents + `
		WHERE ule.user_id = $1
		ORDER BY ule.age_when_happened ASC NULLS LAST, ule.created_at ASC
	`
	err := r.db.SelectContext(ctx, &events, query, userID)
	return events, err
}

func (r *lifeEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserLifeEvent, error) {
	var event domain.UserLifeEvent
	err := r.db.GetContext(ctx, &event, selectUserLifeEvents+` WHERE ule.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLifeEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *lifeEventRepository) Create(ctx context.Context, event *domain.UserLifeEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	query := `
		INSERT INTO user_life_events (id, user_id, life_event_id, custom_title, custom_description,
		    personal_story, age_when_happened, category, is_sensitive, is_visible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, (SELECT title FROM life_events WHERE id = life_event_id)
	`
	return r.db.QueryRowContext(ctx, query,
		event.ID, event.UserID, event.LifeEventID, event.CustomTitle, event.CustomDescription,
		event.PersonalStory, event.AgeWhenHappened, event.Category, event.IsSensitive, event.IsVisible,
	).Scan(&event.CreatedAt, &event.TemplateTitle)
}

func (r *lifeEventRepository) Update(ctx context.Context, event *domain.UserLifeEvent) error {
	query := `
		UPDATE user_life_events
		SET custom_title = $2, custom_description = $3, personal_story = $4,
		    age_when_happened = $5, category = $6, is_sensitive = $7, is_visible = $8
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		event.ID, event.CustomTitle, event.CustomDescription, event.PersonalStory,
		event.AgeWhenHappened, event.Category, event.IsSensitive, event.IsVisible,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLifeEventNotFound
	}
	return nil
}

func (r *lifeEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_life_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLifeEventNotFound
	}
	return nil
}
