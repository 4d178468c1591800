package ideas

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	domideas "github.com/bryanwahyu/innovation-platform/internal/domain/ideas"
)

func within(t *testing.T, r Range, v float64, name string) {
	t.Helper()
	assert.GreaterOrEqual(t, v, r.Min, name)
	assert.Less(t, v, r.Max, name)
}

func assertMean(t *testing.T, s domideas.Scores) {
	t.Helper()
	assert.InDelta(t, (s.Desirability+s.Viability+s.Feasibility)/3, s.Overall, 1e-9)
}

func TestFallbackBounds(t *testing.T) {
	sc := NewScorer(rand.NewPCG(1, 2))
	for range 500 {
		s := sc.Fallback()
		within(t, FallbackRanges[0], s.Desirability, "desirability")
		within(t, FallbackRanges[1], s.Viability, "viability")
		within(t, FallbackRanges[2], s.Feasibility, "feasibility")
		assertMean(t, s)
	}
}

func TestHeuristicBounds(t *testing.T) {
	sc := NewScorer(rand.NewPCG(3, 4))
	texts := []string{
		"Plain idea",
		"A digital platform for 24 hour pickup",
		strings.Repeat("long community garden idea ", 5),
	}
	for range 300 {
		for _, text := range texts {
			s := sc.Heuristic(text)
			within(t, HeuristicRanges[0], s.Desirability, "desirability")
			within(t, HeuristicRanges[1], s.Viability, "viability")
			within(t, HeuristicRanges[2], s.Feasibility, "feasibility")
			assertMean(t, s)
		}
	}
}

func TestHeuristicAdjustments(t *testing.T) {
	sc := NewScorer(rand.NewPCG(5, 6))
	long := strings.Repeat("x", 101)
	for range 200 {
		assert.GreaterOrEqual(t, sc.Heuristic(long).Desirability, 7.5)
		assert.GreaterOrEqual(t, sc.Heuristic("open 7 days").Viability, 6.5)
		assert.Less(t, sc.Heuristic("Software for clinics").Feasibility, 6.5)
		assert.GreaterOrEqual(t, sc.Heuristic("Community bake sale").Feasibility, 5.5)
	}
}

func TestScorerSeeded(t *testing.T) {
	a := NewScorer(rand.NewPCG(42, 42)).Fallback()
	b := NewScorer(rand.NewPCG(42, 42)).Fallback()
	assert.Equal(t, a, b)
}
