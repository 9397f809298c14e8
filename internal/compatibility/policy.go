// Package compatibility scores how much two users' life-event timelines overlap.
//
// Everything in this package is pure: no I/O, no shared mutable state. It is
// safe to score many candidate pairs concurrently.
package compatibility

import (
	"errors"
	"math"
	"strings"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
)

// Policy holds the tunable weights of the similarity scorer and the engine.
type Policy struct {
	// TemplateWeight is added when both events link the same catalog entry.
	TemplateWeight float64
	// TitleWeight scales the word-level Jaccard overlap of the titles.
	TitleWeight float64
	// AgeWeight scales the age proximity term.
	AgeWeight float64
	// AgeDecayYears is the age gap at which proximity reaches zero.
	AgeDecayYears float64
	// QualifyThreshold is the exclusive lower bound for a pair to count as shared.
	QualifyThreshold float64
	// MaxSimilarity caps the summed terms.
	MaxSimilarity float64
}

func DefaultPolicy() Policy {
	return Policy{
		TemplateWeight:   0.8,
		TitleWeight:      0.6,
		AgeWeight:        0.3,
		AgeDecayYears:    10,
		QualifyThreshold: 0.3,
		MaxSimilarity:    1.0,
	}
}

func (p Policy) Validate() error {
	if p.TemplateWeight < 0 || p.TitleWeight < 0 || p.AgeWeight < 0 {
		return errors.New("similarity weights must not be negative")
	}
	if p.AgeDecayYears <= 0 {
		return errors.New("age decay must be positive")
	}
	if p.QualifyThreshold < 0 || p.QualifyThreshold >= 1 {
		return errors.New("similarity threshold must be in [0, 1)")
	}
	if p.MaxSimilarity <= 0 || p.MaxSimilarity > 1 {
		return errors.New("max similarity must be in (0, 1]")
	}
	return nil
}

// Comparable reports whether two events may be scored against each other.
func Comparable(a, b *domain.UserLifeEvent) bool {
	return a.Category == b.Category
}

// Similarity returns a value in [0, MaxSimilarity] describing how alike two
// events are. Missing optional fields contribute nothing.
func (p Policy) Similarity(a, b *domain.UserLifeEvent) float64 {
	var s float64

	if a.LifeEventID != nil && b.LifeEventID != nil && *a.LifeEventID == *b.LifeEventID {
		s += p.TemplateWeight
	}

	if ta, tb := a.OwnTitle(), b.OwnTitle(); ta != "" && tb != "" {
		s += TitleOverlap(ta, tb) * p.TitleWeight
	}

	if a.AgeWhenHappened != nil && b.AgeWhenHappened != nil {
		gap := math.Abs(float64(*a.AgeWhenHappened - *b.AgeWhenHappened))
		s += math.Max(0, 1-gap/p.AgeDecayYears) * p.AgeWeight
	}

	return math.Min(s, p.MaxSimilarity)
}

// Qualifies reports whether a similarity is high enough to form a shared event.
func (p Policy) Qualifies(similarity float64) bool {
	return similarity > p.QualifyThreshold
}

// TitleOverlap is the Jaccard index of the lower-cased word sets of two titles.
func TitleOverlap(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	shared := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			shared++
		}
	}
	union := len(wa) + len(wb) - shared
	return float64(shared) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
