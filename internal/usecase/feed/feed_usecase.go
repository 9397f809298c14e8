package feed

import (
	"context"
	"fmt"
	"sort"

	"github.com/gdugdh24/dejavu-backend/internal/compatibility"
	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// candidateLoaders bounds the concurrent timeline reads of one feed request.
const candidateLoaders = 8

type FeedUseCase struct {
	userRepo     repository.UserRepository
	eventRepo    repository.LifeEventRepository
	comparer     compatibility.Comparer
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger
}

func NewFeedUseCase(
	userRepo repository.UserRepository,
	eventRepo repository.LifeEventRepository,
	comparer compatibility.Comparer,
	defaultLimit, maxLimit int,
	logger *zap.Logger,
) *FeedUseCase {
	return &FeedUseCase{
		userRepo:     userRepo,
		eventRepo:    eventRepo,
		comparer:     comparer,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger,
	}
}

// CandidateResponse represents a user in the discovery feed
type CandidateResponse struct {
	User              *domain.PublicProfile   `json:"user"`
	DejaScore         int                     `json:"deja_score"`
	SharedEventsCount int                     `json:"shared_events_count"`
	LifeEvents        []*domain.UserLifeEvent `json:"life_events"`
}

// GetCandidates returns discovery candidates for userID ranked by
// compatibility, highest first.
func (uc *FeedUseCase) GetCandidates(ctx context.Context, userID, limit int) ([]*CandidateResponse, error) {
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	if limit > uc.maxLimit {
		limit = uc.maxLimit
	}

	currentUser, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := uc.userRepo.FindCandidates(ctx, userID, domain.CandidateFilterFor(currentUser), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}

	myEvents, err := uc.eventRepo.GetUserLifeEvents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get life events: %w", err)
	}

	results := make([]*CandidateResponse, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(candidateLoaders)
	for i, candidate := range candidates {
		g.Go(func() error {
			events, err := uc.eventRepo.GetUserLifeEvents(gctx, candidate.ID)
			if err != nil {
				return fmt.Errorf("failed to get life events of user %d: %w", candidate.ID, err)
			}
			// Hidden events still count towards the score; they are just not shown.
			result := uc.comparer.Compare(myEvents, events)
			results[i] = &CandidateResponse{
				User:              candidate.PublicProfile(),
				DejaScore:         result.Score,
				SharedEventsCount: result.SharedEventCount,
				LifeEvents:        domain.VisibleEvents(events),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DejaScore > results[j].DejaScore
	})

	uc.logger.Debug("Built discovery feed",
		zap.Int("user_id", userID),
		zap.Int("candidates", len(results)),
	)
	return results, nil
}
