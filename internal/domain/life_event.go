package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryFormative     Category = "formative"
	CategoryTurningPoints Category = "turning_points"
	CategoryGrowth        Category = "growth"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFormative, CategoryTurningPoints, CategoryGrowth:
		return true
	}
	return false
}

// DisplayText is the human readable form used inside generated prompts.
func (c Category) DisplayText() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// LifeEvent is a curated catalog entry.
type LifeEvent struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Category    Category  `json:"category" db:"category"`
	IsTemplate  bool      `json:"is_template" db:"is_template"`
	IsSensitive bool      `json:"is_sensitive" db:"is_sensitive"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

const (
	MinEventAge = 0
	MaxEventAge = 100
)

// UserLifeEvent is one entry on a user's timeline.
type UserLifeEvent struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	UserID            int        `json:"user_id" db:"user_id"`
	LifeEventID       *uuid.UUID `json:"life_event_id" db:"life_event_id"`
	CustomTitle       *string    `json:"custom_title" db:"custom_title"`
	CustomDescription *string    `json:"custom_description" db:"custom_description"`
	PersonalStory     *string    `json:"personal_story" db:"personal_story"`
	AgeWhenHappened   *int       `json:"age_when_happened" db:"age_when_happened"`
	Category          Category   `json:"category" db:"category"`
	IsSensitive       bool       `json:"is_sensitive" db:"is_sensitive"`
	IsVisible         bool       `json:"is_visible" db:"is_visible"`
	TemplateTitle     *string    `json:"template_title,omitempty" db:"template_title"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// OwnTitle returns the title the user wrote, trimmed. The linked template's
// title is never substituted, so template-only events return "".
func (e *UserLifeEvent) OwnTitle() string {
	if e.CustomTitle == nil {
		return ""
	}
	return strings.TrimSpace(*e.CustomTitle)
}

// VisibleEvents filters out events the owner hid from other users.
func VisibleEvents(events []*UserLifeEvent) []*UserLifeEvent {
	visible := make([]*UserLifeEvent, 0, len(events))
	for _, e := range events {
		if e.IsVisible {
			visible = append(visible, e)
		}
	}
	return visible
}
