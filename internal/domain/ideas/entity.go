package ideas

import (
	"time"

	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

type ID string

// Scores value object. Build it with NewScores so Overall stays the mean.
type Scores struct {
	Desirability float64
	Viability    float64
	Feasibility  float64
	Overall      float64
}

func NewScores(desirability, viability, feasibility float64) Scores {
	return Scores{
		Desirability: desirability,
		Viability:    viability,
		Feasibility:  feasibility,
		Overall:      (desirability + viability + feasibility) / 3,
	}
}

type Idea struct {
	ID                ID          `json:"id"`
	ProjectID         projects.ID `json:"project_id"`
	Text              string      `json:"idea_text"`
	GenerationMethod  string      `json:"generation_method"`
	DesirabilityScore float64     `json:"desirability_score"`
	ViabilityScore    float64     `json:"viability_score"`
	FeasibilityScore  float64     `json:"feasibility_score"`
	OverallScore      float64     `json:"overall_score"`
	// EvaluatedAt is nil until the idea has been scored.
	EvaluatedAt *time.Time `json:"evaluated_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (i *Idea) Evaluated() bool { return i.EvaluatedAt != nil }

// ApplyScores copies s onto the idea and marks it evaluated at t.
func (i *Idea) ApplyScores(s Scores, t time.Time) {
	i.DesirabilityScore = s.Desirability
	i.ViabilityScore = s.Viability
	i.FeasibilityScore = s.Feasibility
	i.OverallScore = s.Overall
	i.EvaluatedAt = &t
}
