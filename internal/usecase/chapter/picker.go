package chapter

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/google/uuid"
)

// CategoryPlaceholder is replaced with the category's display text.
const CategoryPlaceholder = "{category}"

// StarterTemplates are the question templates a starter is drawn from.
var StarterTemplates = []string{
	"Both of you have experienced {category}. What was the most challenging part of this experience?",
	"You both went through {category}. How did this shape your perspective on life?",
	"What did you learn about yourself during {category}?",
	"How did {category} change your relationships with others?",
	"What advice would you give to someone going through {category}?",
}

// TemplatePicker chooses one of StarterTemplates for a category of a match.
type TemplatePicker interface {
	Pick(matchID uuid.UUID, category domain.Category) string
}

// RandomPicker draws a template uniformly at random on every call.
type RandomPicker struct{}

func (RandomPicker) Pick(uuid.UUID, domain.Category) string {
	return StarterTemplates[rand.IntN(len(StarterTemplates))]
}

// HashPicker derives the template from the seed, match and category, so the
// same inputs always produce the same question.
type HashPicker struct {
	Seed string
}

func (p HashPicker) Pick(matchID uuid.UUID, category domain.Category) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(p.Seed))
	_, _ = h.Write(matchID[:])
	_, _ = h.Write([]byte(category))
	return StarterTemplates[h.Sum64()%uint64(len(StarterTemplates))]
}
