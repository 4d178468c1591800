package documents

import (
	"context"

	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

type Repository interface {
	// CreateBatch inserts docs one by one without a wrapping transaction and
	// returns how many rows were committed before the first failure.
	CreateBatch(ctx context.Context, docs []*Document) (int, error)
	ListByProject(ctx context.Context, projectID projects.ID) ([]*Document, error)
}

// ArtifactStore keeps the uploaded original next to the extracted text.
type ArtifactStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}
