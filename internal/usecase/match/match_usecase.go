package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/dejavu-backend/internal/compatibility"
	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/infrastructure/lock"
	"github.com/gdugdh24/dejavu-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/dejavu-backend/internal/pkg/retry"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/chapter"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type MatchUseCase struct {
	matchRepo   repository.MatchRepository
	userRepo    repository.UserRepository
	eventRepo   repository.LifeEventRepository
	chapterRepo repository.SharedChapterRepository
	comparer    compatibility.Comparer
	generator   *chapter.Generator
	locker      lock.Locker
	retryConfig *retry.Config
	logger      *zap.Logger
}

func NewMatchUseCase(
	matchRepo repository.MatchRepository,
	userRepo repository.UserRepository,
	eventRepo repository.LifeEventRepository,
	chapterRepo repository.SharedChapterRepository,
	comparer compatibility.Comparer,
	generator *chapter.Generator,
	locker lock.Locker,
	retryConfig *retry.Config,
	logger *zap.Logger,
) *MatchUseCase {
	return &MatchUseCase{
		matchRepo:   matchRepo,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		chapterRepo: chapterRepo,
		comparer:    comparer,
		generator:   generator,
		locker:      locker,
		retryConfig: retryConfig,
		logger:      logger,
	}
}

// ActionRequest is the body of an action call
type ActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// ActionResponse represents the outcome of an action
type ActionResponse struct {
	Success    bool          `json:"success"`
	Action     domain.Action `json:"action"`
	Match      *domain.Match `json:"match,omitempty"`
	IsMutual   bool          `json:"is_mutual"`
	IsRevealed bool          `json:"is_revealed"`
}

// MatchSummary is one entry of the user's match list
type MatchSummary struct {
	ID                uuid.UUID             `json:"id"`
	DejaScore         int                   `json:"deja_score"`
	SharedEventsCount int                   `json:"shared_events_count"`
	IsRevealed        bool                  `json:"is_revealed"`
	MyAction          *domain.Action        `json:"my_action"`
	TheirAction       *domain.Action        `json:"their_action"`
	OtherUser         *domain.PublicProfile `json:"other_user"`
	CreatedAt         time.Time             `json:"created_at"`
}

// ApplyAction records actorID's action towards targetID and reveals the
// match's shared chapters when the transition calls for it.
func (uc *MatchUseCase) ApplyAction(ctx context.Context, actorID, targetID int, rawAction string) (*ActionResponse, error) {
	action, err := domain.ParseAction(rawAction)
	if err != nil {
		return nil, err
	}
	if actorID == targetID {
		return nil, domain.ErrCannotActOnSelf
	}
	if _, err := uc.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	var resp *ActionResponse
	err = uc.withPairLock(ctx, actorID, targetID, func() error {
		var err error
		resp, err = uc.applyOnce(ctx, actorID, targetID, action)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncMatchAction(action)
	uc.logger.Info("Match action applied",
		zap.Int("actor_id", actorID),
		zap.Int("target_id", targetID),
		zap.String("action", string(action)),
		zap.Bool("is_revealed", resp.IsRevealed),
	)
	return resp, nil
}

// UpdateMatchAction records userID's action on an existing match.
func (uc *MatchUseCase) UpdateMatchAction(ctx context.Context, matchID uuid.UUID, userID int, rawAction string) (*ActionResponse, error) {
	action, err := domain.ParseAction(rawAction)
	if err != nil {
		return nil, err
	}

	match, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	otherID, ok := match.GetOtherUserID(userID)
	if !ok {
		return nil, domain.ErrNotMatchParticipant
	}

	var resp *ActionResponse
	err = uc.withPairLock(ctx, userID, otherID, func() error {
		current, err := uc.matchRepo.GetByID(ctx, matchID)
		if err != nil {
			return err
		}
		resp, err = uc.updateExisting(ctx, current, userID, action)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncMatchAction(action)
	uc.logger.Info("Match action updated",
		zap.String("match_id", matchID.String()),
		zap.Int("user_id", userID),
		zap.String("action", string(action)),
		zap.Bool("is_revealed", resp.IsRevealed),
	)
	return resp, nil
}

// withPairLock runs fn under the pair's lock, retrying it while it reports a
// concurrent modification.
func (uc *MatchUseCase) withPairLock(ctx context.Context, userAID, userBID int, fn func() error) error {
	release, err := uc.locker.Acquire(ctx, lock.PairKey(userAID, userBID))
	if err != nil {
		return err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn("Failed to release pair lock", zap.Error(err))
		}
	}()

	return retry.DoIf(ctx, uc.retryConfig, isConflict, func() error {
		err := fn()
		if isConflict(err) {
			metrics.IncMatchConflict()
			uc.logger.Debug("Concurrent match update, retrying",
				zap.Int("user_a", userAID), zap.Int("user_b", userBID), zap.Error(err))
		}
		return err
	})
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrConflict)
}

func (uc *MatchUseCase) applyOnce(ctx context.Context, actorID, targetID int, action domain.Action) (*ActionResponse, error) {
	match, err := uc.matchRepo.GetByUsers(ctx, actorID, targetID)
	if err == nil {
		return uc.updateExisting(ctx, match, actorID, action)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	// No row yet: a pass leaves no trace.
	if action == domain.ActionPass {
		return &ActionResponse{Success: true, Action: action}, nil
	}

	actorEvents, targetEvents, err := uc.loadEvents(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	result := uc.comparer.Compare(actorEvents, targetEvents)

	match = &domain.Match{
		User1ID:           actorID,
		User2ID:           targetID,
		DejaScore:         result.Score,
		SharedEventsCount: result.SharedEventCount,
	}
	match.SetAction(actorID, action)

	// A unilateral relate reveals as part of the creation; curious waits for
	// the other side.
	if action == domain.ActionRelate {
		err = uc.generator.CreateRevealed(ctx, match, actorID, actorEvents, targetEvents)
	} else {
		err = uc.matchRepo.Create(ctx, match)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	return &ActionResponse{
		Success:    true,
		Action:     action,
		Match:      match,
		IsMutual:   match.IsMutual(),
		IsRevealed: match.IsRevealed,
	}, nil
}

func (uc *MatchUseCase) updateExisting(ctx context.Context, match *domain.Match, userID int, action domain.Action) (*ActionResponse, error) {
	updated, err := uc.matchRepo.UpdateAction(ctx, match.ID, userID, action, match.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to update match action: %w", err)
	}

	mutual := updated.IsMutual()
	if mutual && !updated.IsRevealed {
		otherID, _ := updated.GetOtherUserID(userID)
		userEvents, otherEvents, err := uc.loadEvents(ctx, userID, otherID)
		if err != nil {
			return nil, err
		}
		if _, err := uc.generator.Reveal(ctx, updated, userID, userEvents, otherEvents); err != nil {
			return nil, err
		}
	}

	return &ActionResponse{
		Success:    true,
		Action:     action,
		Match:      updated,
		IsMutual:   mutual,
		IsRevealed: updated.IsRevealed,
	}, nil
}

// loadEvents fetches both timelines concurrently.
func (uc *MatchUseCase) loadEvents(ctx context.Context, userAID, userBID int) (a, b []*domain.UserLifeEvent, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = uc.eventRepo.GetUserLifeEvents(gctx, userAID)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = uc.eventRepo.GetUserLifeEvents(gctx, userBID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to load life events: %w", err)
	}
	return a, b, nil
}

// GetUserMatches returns the user's matches where at least one side chose
// relate, newest first.
func (uc *MatchUseCase) GetUserMatches(ctx context.Context, userID int) ([]*MatchSummary, error) {
	matches, err := uc.matchRepo.GetUserMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	summaries := make([]*MatchSummary, 0, len(matches))
	for _, m := range matches {
		if !m.HasRelate() {
			continue
		}
		otherID, _ := m.GetOtherUserID(userID)
		other, err := uc.userRepo.GetByID(ctx, otherID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.logger.Warn("Match references missing user",
					zap.String("match_id", m.ID.String()), zap.Int("user_id", otherID))
				continue
			}
			return nil, fmt.Errorf("failed to get matched user: %w", err)
		}
		count, err := uc.chapterRepo.CountSharedEvents(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count shared events: %w", err)
		}

		summaries = append(summaries, &MatchSummary{
			ID:                m.ID,
			DejaScore:         m.DejaScore,
			SharedEventsCount: count,
			IsRevealed:        m.IsRevealed,
			MyAction:          m.ActionOf(userID),
			TheirAction:       m.ActionOf(otherID),
			OtherUser:         other.PublicProfile(),
			CreatedAt:         m.CreatedAt,
		})
	}
	return summaries, nil
}
