package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryFormative.Valid())
	assert.True(t, CategoryTurningPoints.Valid())
	assert.True(t, CategoryGrowth.Valid())
	assert.False(t, Category("hobbies").Valid())
	assert.False(t, Category("").Valid())

	assert.Equal(t, "turning points", CategoryTurningPoints.DisplayText())
}

func TestUserLifeEventOwnTitle(t *testing.T) {
	tests := []struct {
		name     string
		custom   *string
		template *string
		want     string
	}{
		{"custom is trimmed", strPtr(" Moved out at 17 "), strPtr("Template"), "Moved out at 17"},
		{"blank custom", strPtr("   "), strPtr("Template"), ""},
		{"template only", nil, strPtr("Grew up in poverty"), ""},
		{"nothing", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &UserLifeEvent{CustomTitle: tt.custom, TemplateTitle: tt.template}
			assert.Equal(t, tt.want, e.OwnTitle())
		})
	}
}

func TestVisibleEvents(t *testing.T) {
	events := []*UserLifeEvent{
		{CustomTitle: strPtr("a"), IsVisible: true},
		{CustomTitle: strPtr("b"), IsVisible: false},
		{CustomTitle: strPtr("c"), IsVisible: true},
	}

	visible := VisibleEvents(events)
	assert.Len(t, visible, 2)
	assert.Equal(t, "a", visible[0].OwnTitle())
	assert.Equal(t, "c", visible[1].OwnTitle())
	assert.Empty(t, VisibleEvents(nil))
}
