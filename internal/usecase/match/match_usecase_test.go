package match

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/dejavu-backend/internal/compatibility"
	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/infrastructure/lock"
	"github.com/gdugdh24/dejavu-backend/internal/pkg/retry"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"github.com/gdugdh24/dejavu-backend/internal/repository/memory"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/chapter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (lock.Release, error) {
	return func(context.Context) error { return nil }, nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

type fixture struct {
	store *memory.Store
	uc    *MatchUseCase
}

func newFixture(t *testing.T, locker lock.Locker) *fixture {
	return newFixtureWithMatches(t, locker, func(r repository.MatchRepository) repository.MatchRepository { return r })
}

func newFixtureWithMatches(t *testing.T, locker lock.Locker, wrap func(repository.MatchRepository) repository.MatchRepository) *fixture {
	t.Helper()
	store := memory.NewStore()
	logger := zaptest.NewLogger(t)
	engine := compatibility.NewEngine(compatibility.DefaultPolicy())
	matches := wrap(store.Matches())
	gen := chapter.NewGenerator(matches, store.SharedChapters(), engine, chapter.HashPicker{Seed: "t"}, logger)
	retryCfg := &retry.Config{MaxRetries: 5, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

	uc := NewMatchUseCase(matches, store.Users(), store.LifeEvents(), store.SharedChapters(),
		engine, gen, locker, retryCfg, logger)

	for id := 1; id <= 3; id++ {
		store.PutUser(&domain.User{ID: id, FirstName: strPtr("user"), OnboardingCompleted: true})
	}
	return &fixture{store: store, uc: uc}
}

func (f *fixture) addEvent(t *testing.T, userID int, category domain.Category, title string, age int) *domain.UserLifeEvent {
	t.Helper()
	e := &domain.UserLifeEvent{
		UserID:          userID,
		CustomTitle:     strPtr(title),
		AgeWhenHappened: intPtr(age),
		Category:        category,
		IsVisible:       true,
	}
	require.NoError(t, f.store.LifeEvents().Create(context.Background(), e))
	return e
}

func (f *fixture) sharedCount(t *testing.T, matchID uuid.UUID) int {
	t.Helper()
	n, err := f.store.SharedChapters().CountSharedEvents(context.Background(), matchID)
	require.NoError(t, err)
	return n
}

func (f *fixture) seedTimelines(t *testing.T) {
	f.addEvent(t, 1, domain.CategoryFormative, "Moved out at 17", 17)
	f.addEvent(t, 1, domain.CategoryGrowth, "Learned to climb", 25)
	f.addEvent(t, 2, domain.CategoryFormative, "Moved out at 18", 18)
	f.addEvent(t, 2, domain.CategoryGrowth, "Learned to surf", 26)
}

func TestApplyAction_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, lock.NewLocal())

	_, err := f.uc.ApplyAction(ctx, 1, 2, "maybe")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.ApplyAction(ctx, 1, 1, "relate")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.ApplyAction(ctx, 1, 42, "relate")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.store.Matches().GetByUsers(ctx, 1, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyAction_PassWithoutMatchIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, lock.NewLocal())

	for i := 0; i < 2; i++ {
		resp, err := f.uc.ApplyAction(ctx, 1, 2, "pass")
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, domain.ActionPass, resp.Action)
		assert.Nil(t, resp.Match)
	}

	_, err := f.store.Matches().GetByUsers(ctx, 1, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyAction_UnilateralRelateReveals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, lock.NewLocal())
	f.seedTimelines(t)

	resp, err := f.uc.ApplyAction(ctx, 2, 1, "relate")
	require.NoError(t, err)
	assert.True(t, resp.IsRevealed)
	assert.False(t, resp.IsMutual)

	m := resp.Match
	assert.Equal(t, 1, m.User1ID)
	assert.Nil(t, m.User1Action)
	require.NotNil(t, m.User2Action)
	assert.Equal(t, domain.ActionRelate, *m.User2Action)
	assert.Equal(t, 2, m.SharedEventsCount)
	assert.Greater(t, m.DejaScore, 0)
	assert.Equal(t, 2, f.sharedCount(t, m.ID))

	starters, err := f.store.SharedChapters().GetConversationStarters(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, starters, 2)
}

func TestApplyAction_CuriousWaitsForOtherSide(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, lock.NewLocal())
	f.seedTimelines(t)

	resp, err := f.uc.ApplyAction(ctx, 1, 2, "curious")
	require.NoError(t, err)
	assert.False(t, resp.IsRevealed)
	assert.Zero(t, f.sharedCount(t, resp.Match.ID))

	resp, err = f.uc.ApplyAction(ctx, 2, 1, "curious")
	require.NoError(t, err)
	assert.True(t, resp.IsMutual)
	assert.True(t, resp.IsRevealed)
	assert.Equal(t, 2, f.sharedCount(t, resp.Match.ID))
}

func TestApplyAction_MutualPairs(t *testing.T) {
	tests := []struct {
		first, second string
		revealed      bool
	}{
		{"curious", "curious", true},
		{"curious", "relate", true},
		{"curious", "pass", false},
	}
	for _, tt := range tests {
		t.Run(tt.first+"_"+tt.second, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, lock.NewLocal())
			f.seedTimelines(t)

			_, err := f.uc.ApplyAction(ctx, 1, 2, tt.first)
			require.NoError(t, err)
			resp, err := f.uc.ApplyAction(ctx, 2, 1, tt.second)
			require.NoError(t, err)
			assert.Equal(t, tt.revealed, resp.IsRevealed)
		})
	}
}

func TestApplyAction_RevealNeverReverts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, lock.NewLocal())
	f.seedTimelines(t)

	first, err := f.uc.ApplyAction(ctx, 1, 2, "relate")
	require.NoError(t, err)
	require.True(t, first.IsRevealed)

	resp, err := f.uc.ApplyAction(ctx, 1, 2, "pass")
	require.NoError(t, err)
	assert.True(t, resp.IsRevealed)
	assert.Equal(t, domain.ActionPass, *resp.Match.User1Action)

	resp, err = f.uc.ApplyAction(ctx, 2, 1, "relate")
	require.NoError(t, err)
	assert.True(t, resp.IsRevealed)
	assert.Equal(t, 2, f.sharedCount(t, first.Match.ID))
}

func TestApplyAction_ConcurrentSecondCuriousRevealsOnce(t *testing.T) {
	lockers := map[string]lock.Locker{
		"local lock": lock.NewLocal(),
		"no lock":    noopLocker{},
	}
	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, locker)
			f.seedTimelines(t)

			first, err := f.uc.ApplyAction(ctx, 1, 2, "curious")
			require.NoError(t, err)

			var wg sync.WaitGroup
			errs := make([]error, 4)
			for i := range errs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = f.uc.ApplyAction(ctx, 2, 1, "curious")
				}(i)
			}
			wg.Wait()

			for _, err := range errs {
				assert.NoError(t, err)
			}
			assert.Equal(t, 2, f.sharedCount(t, first.Match.ID))

			m, err := f.store.Matches().GetByID(ctx, first.Match.ID)
			require.NoError(t, err)
			assert.True(t, m.IsRevealed)
		})
	}
}

func TestApplyAction_ConcurrentFirstActionsCreateOneRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, noopLocker{})
	f.seedTimelines(t)

	var wg sync.WaitGroup
	for _, pair := range [][2]int{{1, 2}, {2, 1}, {1, 2}, {2, 1}} {
		wg.Add(1)
		go func(actor, target int) {
			defer wg.Done()
			_, err := f.uc.ApplyAction(ctx, actor, target, "curious")
			assert.NoError(t, err)
		}(pair[0], pair[1])
	}
	wg.Wait()

	m, err := f.store.Matches().GetByUsers(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, m.IsMutual())
	assert.True(t, m.IsRevealed)
	assert.Equal(t, 2, f.sharedCount(t, m.ID))
}

func TestApplyAction_LockTimeout(t *testing.T) {
	l := lock.NewLocal()
	f := newFixture(t, l)

	release, err := l.Acquire(context.Background(), lock.PairKey(1, 2))
	require.NoError(t, err)
	defer func() { _ = release(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.uc.ApplyAction(ctx, 1, 2, "curious")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateMatchAction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, lock.NewLocal())
	f.seedTimelines(t)

	first, err := f.uc.ApplyAction(ctx, 1, 2, "curious")
	require.NoError(t, err)

	_, err = f.uc.UpdateMatchAction(ctx, uuid.New(), 2, "curious")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.UpdateMatchAction(ctx, first.Match.ID, 3, "curious")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.UpdateMatchAction(ctx, first.Match.ID, 2, "nope")
	assert.ErrorIs(t, err, domain.ErrValidation)

	resp, err := f.uc.UpdateMatchAction(ctx, first.Match.ID, 2, "relate")
	require.NoError(t, err)
	assert.True(t, resp.IsMutual)
	assert.True(t, resp.IsRevealed)
	assert.Equal(t, 2, f.sharedCount(t, first.Match.ID))
}

func TestGetUserMatches_OnlyWithRelate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, lock.NewLocal())
	f.seedTimelines(t)

	_, err := f.uc.ApplyAction(ctx, 1, 2, "relate")
	require.NoError(t, err)
	_, err = f.uc.ApplyAction(ctx, 1, 3, "curious")
	require.NoError(t, err)
	_, err = f.uc.ApplyAction(ctx, 3, 1, "curious")
	require.NoError(t, err)

	matches, err := f.uc.GetUserMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].OtherUser.ID)
	assert.Equal(t, 2, matches[0].SharedEventsCount)
	assert.Equal(t, domain.ActionRelate, *matches[0].MyAction)
	assert.Nil(t, matches[0].TheirAction)

	other, err := f.uc.GetUserMatches(ctx, 2)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, 1, other[0].OtherUser.ID)

	none, err := f.uc.GetUserMatches(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeletedEventKeepsStoredScore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, lock.NewLocal())
	e := f.addEvent(t, 1, domain.CategoryFormative, "Moved out at 17", 17)
	f.addEvent(t, 2, domain.CategoryFormative, "Moved out at 18", 18)

	resp, err := f.uc.ApplyAction(ctx, 1, 2, "relate")
	require.NoError(t, err)

	before, err := f.store.SharedChapters().GetSharedEventsForMatch(ctx, resp.Match.ID)
	require.NoError(t, err)
	require.Len(t, before, 1)

	require.NoError(t, f.store.LifeEvents().Delete(ctx, e.ID))

	after, err := f.store.SharedChapters().GetSharedEventsForMatch(ctx, resp.Match.ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].SimilarityScore, after[0].SimilarityScore)
	assert.Equal(t, e.ID, after[0].User1EventID)
}

// flakyMatches fails the first reveal-bearing write it sees.
type flakyMatches struct {
	repository.MatchRepository
	mu     sync.Mutex
	failed bool
}

var errStorageDown = errors.New("storage down")

func (r *flakyMatches) failOnce() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed {
		return false
	}
	r.failed = true
	return true
}

func (r *flakyMatches) CreateRevealed(ctx context.Context, m *domain.Match, b repository.RevealBundle) error {
	if r.failOnce() {
		return errStorageDown
	}
	return r.MatchRepository.CreateRevealed(ctx, m, b)
}

func (r *flakyMatches) Reveal(ctx context.Context, id uuid.UUID, b repository.RevealBundle) (bool, error) {
	if r.failOnce() {
		return false, errStorageDown
	}
	return r.MatchRepository.Reveal(ctx, id, b)
}

func TestApplyAction_FailedRelateLeavesNoHalfMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixtureWithMatches(t, noopLocker{}, func(r repository.MatchRepository) repository.MatchRepository {
		return &flakyMatches{MatchRepository: r}
	})
	f.seedTimelines(t)

	_, err := f.uc.ApplyAction(ctx, 1, 2, "relate")
	require.ErrorIs(t, err, errStorageDown)

	_, err = f.store.Matches().GetByUsers(ctx, 1, 2)
	require.ErrorIs(t, err, domain.ErrNotFound, "no row without its shared chapters")

	resp, err := f.uc.ApplyAction(ctx, 1, 2, "relate")
	require.NoError(t, err)
	assert.True(t, resp.IsRevealed)
	assert.Equal(t, 2, f.sharedCount(t, resp.Match.ID))

	stored, err := f.store.Matches().GetByID(ctx, resp.Match.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRevealed)
}

func TestApplyAction_FailedMutualRevealIsRetried(t *testing.T) {
	ctx := context.Background()
	f := newFixtureWithMatches(t, noopLocker{}, func(r repository.MatchRepository) repository.MatchRepository {
		return &flakyMatches{MatchRepository: r}
	})
	f.seedTimelines(t)

	_, err := f.uc.ApplyAction(ctx, 1, 2, "curious")
	require.NoError(t, err)

	_, err = f.uc.ApplyAction(ctx, 2, 1, "curious")
	require.ErrorIs(t, err, errStorageDown)

	resp, err := f.uc.ApplyAction(ctx, 2, 1, "curious")
	require.NoError(t, err)
	assert.True(t, resp.IsRevealed)
	assert.Equal(t, 2, f.sharedCount(t, resp.Match.ID))
}
