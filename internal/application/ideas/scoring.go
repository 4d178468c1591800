package ideas

import (
	"math/rand/v2"
	"regexp"
	"sync"
	"unicode/utf8"

	domideas "github.com/bryanwahyu/innovation-platform/internal/domain/ideas"
)

var techTerms = regexp.MustCompile(`(?i)technology|digital|software|platform|app|system`)
var hasDigit = regexp.MustCompile(`\d`)

// Bounds of the two heuristic policies, half-open [Min, Max).
type Range struct{ Min, Max float64 }

var (
	// FallbackRanges apply when the provider is configured but its rating
	// could not be used.
	FallbackRanges = [3]Range{{6.5, 9.5}, {5.5, 8.5}, {5, 8}}
	// HeuristicRanges apply when no provider is configured, adjustments included.
	HeuristicRanges = [3]Range{{7, 9.5}, {6, 8.5}, {4.5, 7.5}}
)

// Scorer draws heuristic scores. Safe for concurrent use.
type Scorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewScorer(src rand.Source) *Scorer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Scorer{rng: rand.New(src)}
}

func (s *Scorer) uniform() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Fallback draws d∈[6.5,9.5) v∈[5.5,8.5) f∈[5,8).
func (s *Scorer) Fallback() domideas.Scores {
	return domideas.NewScores(
		s.uniform()*3+6.5,
		s.uniform()*3+5.5,
		s.uniform()*3+5,
	)
}

// Heuristic nudges random scores by the idea text: long ideas gain
// desirability, ideas with numbers gain viability, technology-heavy ideas
// lose feasibility.
func (s *Scorer) Heuristic(text string) domideas.Scores {
	d := s.uniform()*2 + 7
	if utf8.RuneCountInString(text) > 100 {
		d += 0.5
	}
	v := s.uniform()*2 + 6
	if hasDigit.MatchString(text) {
		v += 0.5
	}
	f := s.uniform()*2 + 5
	if techTerms.MatchString(text) {
		f -= 0.5
	} else {
		f += 0.5
	}
	return domideas.NewScores(d, v, f)
}
