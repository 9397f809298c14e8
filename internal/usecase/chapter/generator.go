package chapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdugdh24/dejavu-backend/internal/compatibility"
	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/dejavu-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Generator materializes a match's shared chapters: the qualifying event
// pairs and one conversation starter per shared category.
type Generator struct {
	matchRepo   repository.MatchRepository
	chapterRepo repository.SharedChapterRepository
	comparer    compatibility.Comparer
	picker      TemplatePicker
	logger      *zap.Logger
}

func NewGenerator(
	matchRepo repository.MatchRepository,
	chapterRepo repository.SharedChapterRepository,
	comparer compatibility.Comparer,
	picker TemplatePicker,
	logger *zap.Logger,
) *Generator {
	if picker == nil {
		picker = RandomPicker{}
	}
	return &Generator{
		matchRepo:   matchRepo,
		chapterRepo: chapterRepo,
		comparer:    comparer,
		picker:      picker,
		logger:      logger,
	}
}

// Reveal scores actorEvents against targetEvents and stores the result for
// the match. It runs at most once per match: when the match is already
// revealed it stores nothing and returns false.
func (g *Generator) Reveal(ctx context.Context, match *domain.Match, actorID int, actorEvents, targetEvents []*domain.UserLifeEvent) (bool, error) {
	if !match.HasUser(actorID) {
		return false, domain.ErrNotMatchParticipant
	}
	if match.IsRevealed {
		return false, nil
	}

	bundle := g.bundle(match, actorID, actorEvents, targetEvents)
	revealed, err := g.matchRepo.Reveal(ctx, match.ID, bundle)
	if err != nil {
		return false, fmt.Errorf("failed to reveal match: %w", err)
	}
	if !revealed {
		g.logger.Debug("Match already revealed", zap.String("match_id", match.ID.String()))
		return false, nil
	}

	match.IsRevealed = true
	metrics.IncMatchReveal()
	g.logger.Info("Match revealed",
		zap.String("match_id", match.ID.String()),
		zap.Int("shared_events", len(bundle.SharedEvents)),
		zap.Int("starters", len(bundle.Starters)),
	)
	return true, nil
}

// CreateRevealed stores a new match that is revealed on creation, so the row
// never exists without its shared chapters.
func (g *Generator) CreateRevealed(ctx context.Context, match *domain.Match, actorID int, actorEvents, targetEvents []*domain.UserLifeEvent) error {
	if !match.HasUser(actorID) {
		return domain.ErrNotMatchParticipant
	}
	match.Normalize()
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}

	bundle := g.bundle(match, actorID, actorEvents, targetEvents)
	if err := g.matchRepo.CreateRevealed(ctx, match, bundle); err != nil {
		return fmt.Errorf("failed to create revealed match: %w", err)
	}

	metrics.IncMatchReveal()
	g.logger.Info("Match revealed",
		zap.String("match_id", match.ID.String()),
		zap.Int("shared_events", len(bundle.SharedEvents)),
		zap.Int("starters", len(bundle.Starters)),
	)
	return nil
}

func (g *Generator) bundle(match *domain.Match, actorID int, actorEvents, targetEvents []*domain.UserLifeEvent) repository.RevealBundle {
	result := g.comparer.Compare(actorEvents, targetEvents)
	return repository.RevealBundle{
		SharedEvents: g.sharedEvents(match, actorID, result.Pairs),
		Starters:     g.starters(match.ID, result.Categories()),
	}
}

// sharedEvents orients every pair to the match's user1/user2 columns.
func (g *Generator) sharedEvents(match *domain.Match, actorID int, pairs []compatibility.Pair) []*domain.SharedEvent {
	events := make([]*domain.SharedEvent, 0, len(pairs))
	for _, p := range pairs {
		user1Event, user2Event := p.A, p.B
		if actorID != match.User1ID {
			user1Event, user2Event = p.B, p.A
		}
		events = append(events, &domain.SharedEvent{
			MatchID:         match.ID,
			User1EventID:    user1Event.ID,
			User2EventID:    user2Event.ID,
			SimilarityScore: p.Percent,
		})
	}
	return events
}

func (g *Generator) starters(matchID uuid.UUID, categories []domain.Category) []*domain.ConversationStarter {
	starters := make([]*domain.ConversationStarter, 0, len(categories))
	for _, category := range categories {
		basedOn := string(category)
		starters = append(starters, &domain.ConversationStarter{
			MatchID:      matchID,
			Question:     Question(g.picker.Pick(matchID, category), category),
			BasedOnEvent: &basedOn,
		})
	}
	return starters
}

// Question fills a starter template with the category's display text.
func Question(template string, category domain.Category) string {
	return strings.ReplaceAll(template, CategoryPlaceholder, category.DisplayText())
}

// GetSharedEvents lists the shared events of a match to one of its participants.
func (g *Generator) GetSharedEvents(ctx context.Context, matchID uuid.UUID, userID int) ([]*domain.SharedEvent, error) {
	if _, err := g.participantMatch(ctx, matchID, userID); err != nil {
		return nil, err
	}
	events, err := g.chapterRepo.GetSharedEventsForMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shared events: %w", err)
	}
	return events, nil
}

// GetConversationStarters lists the starters of a match to one of its participants.
func (g *Generator) GetConversationStarters(ctx context.Context, matchID uuid.UUID, userID int) ([]*domain.ConversationStarter, error) {
	if _, err := g.participantMatch(ctx, matchID, userID); err != nil {
		return nil, err
	}
	starters, err := g.chapterRepo.GetConversationStarters(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation starters: %w", err)
	}
	return starters, nil
}

// MarkStarterUsed flags a starter as used by one of the match's participants.
func (g *Generator) MarkStarterUsed(ctx context.Context, matchID, starterID uuid.UUID, userID int) (*domain.ConversationStarter, error) {
	if _, err := g.participantMatch(ctx, matchID, userID); err != nil {
		return nil, err
	}
	starter, err := g.chapterRepo.MarkStarterUsed(ctx, matchID, starterID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark starter used: %w", err)
	}
	return starter, nil
}

func (g *Generator) participantMatch(ctx context.Context, matchID uuid.UUID, userID int) (*domain.Match, error) {
	match, err := g.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasUser(userID) {
		return nil, domain.ErrNotMatchParticipant
	}
	return match, nil
}
