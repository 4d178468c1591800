package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bryanwahyu/innovation-platform/internal/domain/analyses"
	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *analyses.Analysis) error {
	const q = `
INSERT INTO analyses (id, document_id, category, prompt_text, response_text, created_at)
VALUES ($1,$2,$3,$4,$5,$6);`
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, q,
		a.ID, a.DocumentID, string(a.Category), a.PromptText, a.ResponseText, createdAt,
	); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	a.CreatedAt = createdAt
	return nil
}

func (r *AnalysisRepository) DistinctResponses(ctx context.Context, projectID projects.ID, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT DISTINCT a.response_text
FROM analyses a
JOIN documents d ON a.document_id = d.id
WHERE d.project_id = $1
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, projectID, limit)
	if err != nil {
		if isInvalidText(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("distinct analyses: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, limit)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
