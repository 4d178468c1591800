package ideas

import (
	"context"
	"time"

	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

type Repository interface {
	Save(ctx context.Context, i *Idea) error
	// Unscored returns up to limit ideas that have never been evaluated.
	Unscored(ctx context.Context, projectID projects.ID, limit int) ([]*Idea, error)
	UpdateScores(ctx context.Context, id ID, s Scores, evaluatedAt time.Time) error
	// Top returns ideas with overall >= minScore, best first, at most limit.
	Top(ctx context.Context, projectID projects.ID, minScore float64, limit int) ([]*Idea, error)
	ListByProject(ctx context.Context, projectID projects.ID) ([]*Idea, error)
}
