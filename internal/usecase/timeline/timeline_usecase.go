package timeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/pkg/validation"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TimelineUseCase struct {
	eventRepo repository.LifeEventRepository
	logger    *zap.Logger
}

func NewTimelineUseCase(eventRepo repository.LifeEventRepository, logger *zap.Logger) *TimelineUseCase {
	return &TimelineUseCase{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// CreateEventRequest represents a new timeline entry
type CreateEventRequest struct {
	LifeEventID       *uuid.UUID      `json:"life_event_id"`
	CustomTitle       *string         `json:"custom_title" binding:"omitempty,max=200"`
	CustomDescription *string         `json:"custom_description" binding:"omitempty,max=2000"`
	PersonalStory     *string         `json:"personal_story" binding:"omitempty,max=5000"`
	AgeWhenHappened   *int            `json:"age_when_happened" binding:"omitempty,min=0,max=100"`
	Category          domain.Category `json:"category" binding:"required,oneof=formative turning_points growth"`
	IsSensitive       *bool           `json:"is_sensitive"`
	IsVisible         *bool           `json:"is_visible"`
}

// UpdateEventRequest represents a partial timeline entry update
type UpdateEventRequest struct {
	CustomTitle       *string          `json:"custom_title" binding:"omitempty,max=200"`
	CustomDescription *string          `json:"custom_description" binding:"omitempty,max=2000"`
	PersonalStory     *string          `json:"personal_story" binding:"omitempty,max=5000"`
	AgeWhenHappened   *int             `json:"age_when_happened" binding:"omitempty,min=0,max=100"`
	Category          *domain.Category `json:"category" binding:"omitempty,oneof=formative turning_points growth"`
	IsSensitive       *bool            `json:"is_sensitive"`
	IsVisible         *bool            `json:"is_visible"`
}

// ListTemplates returns the catalog, narrowed to one category when category
// is non-empty.
func (uc *TimelineUseCase) ListTemplates(ctx context.Context, category domain.Category) ([]*domain.LifeEvent, error) {
	if category != "" && !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}

	templates, err := uc.eventRepo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if category == "" {
		return templates, nil
	}

	filtered := make([]*domain.LifeEvent, 0, len(templates))
	for _, t := range templates {
		if t.Category == category {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (uc *TimelineUseCase) ListUserEvents(ctx context.Context, userID int) ([]*domain.UserLifeEvent, error) {
	events, err := uc.eventRepo.GetUserLifeEvents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get life events: %w", err)
	}
	return events, nil
}

// CreateEvent adds an entry to the user's timeline. The entry either links a
// catalog template or carries its own title.
func (uc *TimelineUseCase) CreateEvent(ctx context.Context, userID int, req *CreateEventRequest) (*domain.UserLifeEvent, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.LifeEventID == nil && isBlank(req.CustomTitle) {
		return nil, domain.ErrMissingEventTitle
	}

	event := &domain.UserLifeEvent{
		UserID:            userID,
		LifeEventID:       req.LifeEventID,
		CustomTitle:       trimmed(req.CustomTitle),
		CustomDescription: req.CustomDescription,
		PersonalStory:     req.PersonalStory,
		AgeWhenHappened:   req.AgeWhenHappened,
		Category:          req.Category,
		IsVisible:         true,
	}

	if req.LifeEventID != nil {
		template, err := uc.eventRepo.GetTemplate(ctx, *req.LifeEventID)
		if err != nil {
			return nil, err
		}
		event.IsSensitive = template.IsSensitive
	}
	if req.IsSensitive != nil {
		event.IsSensitive = *req.IsSensitive
	}
	if req.IsVisible != nil {
		event.IsVisible = *req.IsVisible
	}

	if err := uc.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create life event: %w", err)
	}

	uc.logger.Info("Life event created",
		zap.Int("user_id", userID),
		zap.String("event_id", event.ID.String()),
		zap.String("category", string(event.Category)),
	)
	return event, nil
}

// UpdateEvent applies the non-nil fields of req to one of the user's events.
func (uc *TimelineUseCase) UpdateEvent(ctx context.Context, userID int, eventID uuid.UUID, req *UpdateEventRequest) (*domain.UserLifeEvent, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	event, err := uc.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if req.CustomTitle != nil {
		if event.LifeEventID == nil && isBlank(req.CustomTitle) {
			return nil, domain.ErrMissingEventTitle
		}
		event.CustomTitle = trimmed(req.CustomTitle)
	}
	if req.CustomDescription != nil {
		event.CustomDescription = req.CustomDescription
	}
	if req.PersonalStory != nil {
		event.PersonalStory = req.PersonalStory
	}
	if req.AgeWhenHappened != nil {
		event.AgeWhenHappened = req.AgeWhenHappened
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.IsSensitive != nil {
		event.IsSensitive = *req.IsSensitive
	}
	if req.IsVisible != nil {
		event.IsVisible = *req.IsVisible
	}

	if err := uc.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update life event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes one of the user's events. Shared events that already
// reference it keep their stored score.
func (uc *TimelineUseCase) DeleteEvent(ctx context.Context, userID int, eventID uuid.UUID) error {
	if _, err := uc.ownedEvent(ctx, userID, eventID); err != nil {
		return err
	}
	if err := uc.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete life event: %w", err)
	}

	uc.logger.Info("Life event deleted", zap.Int("user_id", userID), zap.String("event_id", eventID.String()))
	return nil
}

// ownedEvent hides other users' events behind a not-found error.
func (uc *TimelineUseCase) ownedEvent(ctx context.Context, userID int, eventID uuid.UUID) (*domain.UserLifeEvent, error) {
	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, domain.ErrLifeEventNotFound
	}
	return event, nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
