package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, profile_image_url = $4, bio = $5,
		    age = $6, location = $7, gender = $8, gender_preference = $9,
		    onboarding_completed = $10, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.ProfileImageURL, user.Bio,
		user.Age, user.Location, user.Gender, user.GenderPreference, user.OnboardingCompleted,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *userRepository) FindCandidates(ctx context.Context, userID int, filter domain.CandidateFilter, limit int) ([]*domain.User, error) {
	query := `
		SELECT u.* FROM users u
		WHERE u.onboarding_completed = true
		  AND u.id <> $1
		  AND NOT EXISTS (
		      SELECT 1 FROM matches m
		      WHERE (m.user1_id = $1 AND m.user2_id = u.id)
		         OR (m.user2_id = $1 AND m.user1_id = u.id)
		  )
	`
	args := []interface{}{userID}
	argCount := 2

	if filter.Gender != nil {
		query += fmt.Sprintf(" AND u.gender = $%d", argCount)
		args = append(args, *filter.Gender)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY u.id ASC LIMIT $%d", argCount)
	args = append(args, limit)

	var users []*domain.User
	err := r.db.SelectContext(ctx, &users, query, args...)
	return users, err
}
