package timeline

import (
	"context"
	"testing"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func newTimeline() (*TimelineUseCase, *memory.Store) {
	store := memory.NewStore()
	return NewTimelineUseCase(store.LifeEvents(), zap.NewNop()), store
}

func TestCreateEvent_Custom(t *testing.T) {
	uc, _ := newTimeline()
	ctx := context.Background()

	e, err := uc.CreateEvent(ctx, 1, &CreateEventRequest{
		CustomTitle:     strPtr("  Moved abroad "),
		AgeWhenHappened: intPtr(0),
		Category:        domain.CategoryTurningPoints,
	})
	require.NoError(t, err)
	assert.Equal(t, "Moved abroad", e.OwnTitle())
	assert.Equal(t, 0, *e.AgeWhenHappened)
	assert.True(t, e.IsVisible)
	assert.False(t, e.IsSensitive)
}

func TestCreateEvent_FromTemplate(t *testing.T) {
	uc, store := newTimeline()
	ctx := context.Background()
	tpl := &domain.LifeEvent{Title: "Lost a parent", Category: domain.CategoryTurningPoints, IsTemplate: true, IsSensitive: true}
	store.PutTemplate(tpl)

	e, err := uc.CreateEvent(ctx, 1, &CreateEventRequest{
		LifeEventID: &tpl.ID,
		Category:    domain.CategoryGrowth,
		IsVisible:   boolPtr(false),
	})
	require.NoError(t, err)
	require.NotNil(t, e.TemplateTitle)
	assert.Equal(t, "Lost a parent", *e.TemplateTitle)
	assert.Empty(t, e.OwnTitle())
	assert.True(t, e.IsSensitive)
	assert.False(t, e.IsVisible)
	assert.Equal(t, domain.CategoryGrowth, e.Category, "category is independent of the template")

	missing := uuid.New()
	_, err = uc.CreateEvent(ctx, 1, &CreateEventRequest{LifeEventID: &missing, Category: domain.CategoryGrowth})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestCreateEvent_Validation(t *testing.T) {
	uc, _ := newTimeline()
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateEventRequest
	}{
		{"no title and no template", CreateEventRequest{Category: domain.CategoryGrowth}},
		{"blank title", CreateEventRequest{CustomTitle: strPtr("  "), Category: domain.CategoryGrowth}},
		{"missing category", CreateEventRequest{CustomTitle: strPtr("x")}},
		{"unknown category", CreateEventRequest{CustomTitle: strPtr("x"), Category: "hobbies"}},
		{"age above range", CreateEventRequest{CustomTitle: strPtr("x"), Category: domain.CategoryGrowth, AgeWhenHappened: intPtr(101)}},
		{"negative age", CreateEventRequest{CustomTitle: strPtr("x"), Category: domain.CategoryGrowth, AgeWhenHappened: intPtr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateEvent(ctx, 1, &tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestListUserEvents_Ordered(t *testing.T) {
	uc, _ := newTimeline()
	ctx := context.Background()

	for _, age := range []*int{nil, intPtr(30), intPtr(12)} {
		_, err := uc.CreateEvent(ctx, 1, &CreateEventRequest{
			CustomTitle: strPtr("event"), AgeWhenHappened: age, Category: domain.CategoryGrowth,
		})
		require.NoError(t, err)
	}

	events, err := uc.ListUserEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 12, *events[0].AgeWhenHappened)
	assert.Equal(t, 30, *events[1].AgeWhenHappened)
	assert.Nil(t, events[2].AgeWhenHappened)
}

func TestUpdateEvent(t *testing.T) {
	uc, _ := newTimeline()
	ctx := context.Background()

	e, err := uc.CreateEvent(ctx, 1, &CreateEventRequest{CustomTitle: strPtr("First job"), Category: domain.CategoryGrowth})
	require.NoError(t, err)

	updated, err := uc.UpdateEvent(ctx, 1, e.ID, &UpdateEventRequest{
		AgeWhenHappened: intPtr(22),
		IsVisible:       boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "First job", updated.OwnTitle())
	assert.Equal(t, 22, *updated.AgeWhenHappened)
	assert.False(t, updated.IsVisible)

	_, err = uc.UpdateEvent(ctx, 1, e.ID, &UpdateEventRequest{CustomTitle: strPtr("")})
	assert.ErrorIs(t, err, domain.ErrMissingEventTitle)

	_, err = uc.UpdateEvent(ctx, 2, e.ID, &UpdateEventRequest{AgeWhenHappened: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrLifeEventNotFound)
}

func TestDeleteEvent_OwnerOnly(t *testing.T) {
	uc, _ := newTimeline()
	ctx := context.Background()

	e, err := uc.CreateEvent(ctx, 1, &CreateEventRequest{CustomTitle: strPtr("x"), Category: domain.CategoryGrowth})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.DeleteEvent(ctx, 2, e.ID), domain.ErrNotFound)
	require.NoError(t, uc.DeleteEvent(ctx, 1, e.ID))
	assert.ErrorIs(t, uc.DeleteEvent(ctx, 1, e.ID), domain.ErrNotFound)
}

func TestListTemplates(t *testing.T) {
	uc, store := newTimeline()
	store.PutTemplate(&domain.LifeEvent{Title: "B", Category: domain.CategoryGrowth, IsTemplate: true})
	store.PutTemplate(&domain.LifeEvent{Title: "A", Category: domain.CategoryFormative, IsTemplate: true})
	store.PutTemplate(&domain.LifeEvent{Title: "custom", Category: domain.CategoryFormative})

	templates, err := uc.ListTemplates(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "A", templates[0].Title)
	assert.Equal(t, "B", templates[1].Title)
}

func TestListTemplates_ByCategory(t *testing.T) {
	uc, store := newTimeline()
	store.PutTemplate(&domain.LifeEvent{Title: "B", Category: domain.CategoryGrowth, IsTemplate: true})
	store.PutTemplate(&domain.LifeEvent{Title: "A", Category: domain.CategoryFormative, IsTemplate: true})

	templates, err := uc.ListTemplates(context.Background(), domain.CategoryGrowth)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "B", templates[0].Title)

	_, err = uc.ListTemplates(context.Background(), "hobbies")
	assert.ErrorIs(t, err, domain.ErrValidation)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
}
