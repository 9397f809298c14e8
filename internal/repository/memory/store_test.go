package memory

import (
	"context"
	"testing"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionPtr(a domain.Action) *domain.Action { return &a }

func TestMatchRepository_CreateOrdersPair(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Matches()

	m := &domain.Match{User1ID: 9, User2ID: 3, User1Action: actionPtr(domain.ActionCurious)}
	require.NoError(t, repo.Create(ctx, m))

	assert.Equal(t, 3, m.User1ID)
	assert.Equal(t, 9, m.User2ID)
	assert.Nil(t, m.User1Action)
	require.NotNil(t, m.User2Action)
	assert.Equal(t, domain.ActionCurious, *m.User2Action)

	got, err := repo.GetByUsers(ctx, 9, 3)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	err = repo.Create(ctx, &domain.Match{User1ID: 3, User2ID: 9})
	assert.ErrorIs(t, err, domain.ErrMatchConflict)
}

func TestMatchRepository_UpdateActionCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Matches()

	m := &domain.Match{User1ID: 1, User2ID: 2}
	require.NoError(t, repo.Create(ctx, m))

	updated, err := repo.UpdateAction(ctx, m.ID, 2, domain.ActionRelate, m.Version)
	require.NoError(t, err)
	assert.Equal(t, m.Version+1, updated.Version)
	assert.Equal(t, domain.ActionRelate, *updated.User2Action)
	assert.Nil(t, updated.User1Action)

	_, err = repo.UpdateAction(ctx, m.ID, 1, domain.ActionPass, m.Version)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.UpdateAction(ctx, m.ID, 7, domain.ActionPass, updated.Version)
	assert.ErrorIs(t, err, domain.ErrNotMatchParticipant)
}

func TestMatchRepository_RevealOnce(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	matches, chapters := store.Matches(), store.SharedChapters()

	m := &domain.Match{User1ID: 1, User2ID: 2}
	require.NoError(t, matches.Create(ctx, m))

	bundle := repository.RevealBundle{
		SharedEvents: []*domain.SharedEvent{{SimilarityScore: 80}},
		Starters:     []*domain.ConversationStarter{{Question: "q"}},
	}
	ok, err := matches.Reveal(ctx, m.ID, bundle)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = matches.Reveal(ctx, m.ID, bundle)
	require.NoError(t, err)
	assert.False(t, ok)

	count, err := chapters.CountSharedEvents(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	starters, err := chapters.GetConversationStarters(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, starters, 1)
}

func TestMatchRepository_CreateRevealedIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	matches, chapters := store.Matches(), store.SharedChapters()

	bundle := func() repository.RevealBundle {
		return repository.RevealBundle{
			SharedEvents: []*domain.SharedEvent{{SimilarityScore: 63}},
			Starters:     []*domain.ConversationStarter{{Question: "q"}},
		}
	}

	m := &domain.Match{User1ID: 5, User2ID: 2, User1Action: actionPtr(domain.ActionRelate)}
	require.NoError(t, matches.CreateRevealed(ctx, m, bundle()))
	assert.True(t, m.IsRevealed)
	assert.Equal(t, 2, m.User1ID)
	require.NotNil(t, m.User2Action)

	got, err := matches.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRevealed)
	assert.Equal(t, 1, got.Version)

	dup := &domain.Match{User1ID: 2, User2ID: 5}
	err = matches.CreateRevealed(ctx, dup, bundle())
	require.ErrorIs(t, err, domain.ErrMatchConflict)
	assert.False(t, dup.IsRevealed)

	count, err := chapters.CountSharedEvents(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "a rejected create stores no chapters")
}

func TestStore_DeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.PutUser(&domain.User{ID: 1})
	store.PutUser(&domain.User{ID: 2})

	m := &domain.Match{User1ID: 1, User2ID: 2}
	require.NoError(t, store.Matches().Create(ctx, m))
	_, err := store.Matches().Reveal(ctx, m.ID, repository.RevealBundle{
		SharedEvents: []*domain.SharedEvent{{SimilarityScore: 50}},
	})
	require.NoError(t, err)

	store.DeleteUser(1)

	_, err = store.Matches().GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	count, err := store.SharedChapters().CountSharedEvents(ctx, m.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUserRepository_FindCandidates(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	man, woman := domain.GenderMan, domain.GenderWoman

	store.PutUser(&domain.User{ID: 1, OnboardingCompleted: true})
	store.PutUser(&domain.User{ID: 2, OnboardingCompleted: true, Gender: &woman})
	store.PutUser(&domain.User{ID: 3, OnboardingCompleted: true, Gender: &man})
	store.PutUser(&domain.User{ID: 4, OnboardingCompleted: false, Gender: &woman})
	store.PutUser(&domain.User{ID: 5, OnboardingCompleted: true, Gender: &woman})

	require.NoError(t, store.Matches().Create(ctx, &domain.Match{User1ID: 5, User2ID: 1}))

	all, err := store.Users().FindCandidates(ctx, 1, domain.CandidateFilter{}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, userIDs(all))

	women, err := store.Users().FindCandidates(ctx, 1, domain.CandidateFilter{Gender: &woman}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, userIDs(women))

	limited, err := store.Users().FindCandidates(ctx, 1, domain.CandidateFilter{}, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func userIDs(users []*domain.User) []int {
	ids := make([]int, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
