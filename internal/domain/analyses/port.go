package analyses

import (
	"context"

	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	// DistinctResponses samples up to limit distinct response texts across the
	// project's documents.
	DistinctResponses(ctx context.Context, projectID projects.ID, limit int) ([]string, error)
}
