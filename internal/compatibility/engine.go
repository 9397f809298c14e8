package compatibility

import (
	"math"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
)

// Pair is a qualifying match between an event of user A and one of user B.
type Pair struct {
	A          *domain.UserLifeEvent
	B          *domain.UserLifeEvent
	Similarity float64
	// Percent is Similarity rounded to an integer in [0, 100].
	Percent int
}

// Result is the outcome of comparing two timelines.
type Result struct {
	Score            int
	SharedEventCount int
	Pairs            []Pair
}

// Categories returns the distinct categories of the qualifying pairs in the
// order they first appear.
func (r *Result) Categories() []domain.Category {
	seen := make(map[domain.Category]struct{})
	var out []domain.Category
	for _, p := range r.Pairs {
		if _, ok := seen[p.A.Category]; ok {
			continue
		}
		seen[p.A.Category] = struct{}{}
		out = append(out, p.A.Category)
	}
	return out
}

// Comparer compares two users' timelines. The quadratic Engine is the only
// implementation today; callers depend on this interface so an indexed one
// can replace it.
type Comparer interface {
	Compare(a, b []*domain.UserLifeEvent) Result
}

type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Compare evaluates every same-category pair in input order.
func (e *Engine) Compare(a, b []*domain.UserLifeEvent) Result {
	var res Result
	if len(a) == 0 || len(b) == 0 {
		return res
	}

	var sum float64
	for _, ea := range a {
		counted := false
		for _, eb := range b {
			if !Comparable(ea, eb) {
				continue
			}
			sim := e.policy.Similarity(ea, eb)
			if !e.policy.Qualifies(sim) {
				continue
			}
			if !counted {
				res.SharedEventCount++
				counted = true
			}
			sum += sim
			res.Pairs = append(res.Pairs, Pair{A: ea, B: eb, Similarity: sim, Percent: toPercent(sim)})
		}
	}

	total := len(res.Pairs)
	if total == 0 {
		return res
	}

	avg := sum / float64(total)
	coverage := math.Min(float64(total)/float64(max(len(a), len(b))), 1)
	res.Score = toPercent(avg * coverage)
	return res
}

func toPercent(v float64) int {
	p := int(math.Round(v * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
