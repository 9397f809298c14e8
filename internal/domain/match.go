package domain

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionRelate  Action = "relate"
	ActionCurious Action = "curious"
	ActionPass    Action = "pass"
)

// ParseAction validates a raw action value coming from the client.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionRelate, ActionCurious, ActionPass:
		return a, nil
	}
	return "", ErrInvalidAction
}

// IsInterest reports whether the action expresses interest in the other user.
func (a Action) IsInterest() bool {
	return a == ActionRelate || a == ActionCurious
}

type Match struct {
	ID                uuid.UUID `json:"id" db:"id"`
	User1ID           int       `json:"user1_id" db:"user1_id"`
	User2ID           int       `json:"user2_id" db:"user2_id"`
	DejaScore         int       `json:"deja_score" db:"deja_score"`
	SharedEventsCount int       `json:"shared_events_count" db:"shared_events_count"`
	User1Action       *Action   `json:"user1_action" db:"user1_action"`
	User2Action       *Action   `json:"user2_action" db:"user2_action"`
	IsRevealed        bool      `json:"is_revealed" db:"is_revealed"`
	Version           int       `json:"-" db:"version"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// OrderUsers returns the pair in canonical storage order (user1 < user2).
func OrderUsers(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// Normalize puts the pair in canonical storage order, moving the actions
// along with their users.
func (m *Match) Normalize() {
	if m.User1ID > m.User2ID {
		m.User1ID, m.User2ID = m.User2ID, m.User1ID
		m.User1Action, m.User2Action = m.User2Action, m.User1Action
	}
}

func (m *Match) HasUser(userID int) bool {
	return m.User1ID == userID || m.User2ID == userID
}

func (m *Match) GetOtherUserID(userID int) (int, bool) {
	if m.User1ID == userID {
		return m.User2ID, true
	}
	if m.User2ID == userID {
		return m.User1ID, true
	}
	return 0, false
}

// ActionOf returns the recorded action of the given participant.
func (m *Match) ActionOf(userID int) *Action {
	switch userID {
	case m.User1ID:
		return m.User1Action
	case m.User2ID:
		return m.User2Action
	}
	return nil
}

// SetAction records the participant's action. It leaves the other side untouched.
func (m *Match) SetAction(userID int, action Action) bool {
	a := action
	switch userID {
	case m.User1ID:
		m.User1Action = &a
	case m.User2ID:
		m.User2Action = &a
	default:
		return false
	}
	return true
}

// HasRelate reports whether at least one side chose relate.
func (m *Match) HasRelate() bool {
	return isAction(m.User1Action, ActionRelate) || isAction(m.User2Action, ActionRelate)
}

// IsMutual reports whether both sides are set and both express interest.
// Any combination of relate and curious counts.
func (m *Match) IsMutual() bool {
	if m.User1Action == nil || m.User2Action == nil {
		return false
	}
	return m.User1Action.IsInterest() && m.User2Action.IsInterest()
}

func isAction(a *Action, want Action) bool {
	return a != nil && *a == want
}
