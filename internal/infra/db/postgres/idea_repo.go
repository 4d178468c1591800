package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bryanwahyu/innovation-platform/internal/domain"
	"github.com/bryanwahyu/innovation-platform/internal/domain/ideas"
	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

const ideaColumns = `id, project_id, idea_text, generation_method,
       desirability_score, viability_score, feasibility_score, overall_score,
       evaluated_at, created_at`

type IdeaRepository struct {
	db *sql.DB
}

func NewIdeaRepository(db *sql.DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

func (r *IdeaRepository) Save(ctx context.Context, i *ideas.Idea) error {
	const q = `
INSERT INTO ideas (id, project_id, idea_text, generation_method, created_at)
VALUES ($1,$2,$3,$4,$5);`
	createdAt := i.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, q, i.ID, i.ProjectID, i.Text, i.GenerationMethod, createdAt); err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("project", string(i.ProjectID))
		}
		return fmt.Errorf("insert idea: %w", err)
	}
	i.CreatedAt = createdAt
	return nil
}

func (r *IdeaRepository) Unscored(ctx context.Context, projectID projects.ID, limit int) ([]*ideas.Idea, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `
SELECT ` + ideaColumns + `
FROM ideas
WHERE project_id=$1 AND evaluated_at IS NULL
ORDER BY created_at ASC, id ASC
LIMIT $2;`
	return r.query(ctx, q, projectID, limit)
}

// UpdateScores writes all four scores and the evaluation timestamp together.
func (r *IdeaRepository) UpdateScores(ctx context.Context, id ideas.ID, s ideas.Scores, evaluatedAt time.Time) error {
	const q = `
UPDATE ideas
SET desirability_score=$2, viability_score=$3, feasibility_score=$4, overall_score=$5, evaluated_at=$6
WHERE id=$1;`
	res, err := r.db.ExecContext(ctx, q, id, s.Desirability, s.Viability, s.Feasibility, s.Overall, evaluatedAt)
	if err != nil {
		return fmt.Errorf("update idea scores: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("idea", string(id))
	}
	return nil
}

func (r *IdeaRepository) Top(ctx context.Context, projectID projects.ID, minScore float64, limit int) ([]*ideas.Idea, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `
SELECT ` + ideaColumns + `
FROM ideas
WHERE project_id=$1 AND overall_score >= $2
ORDER BY overall_score DESC, created_at ASC
LIMIT $3;`
	return r.query(ctx, q, projectID, minScore, limit)
}

func (r *IdeaRepository) ListByProject(ctx context.Context, projectID projects.ID) ([]*ideas.Idea, error) {
	q := `
SELECT ` + ideaColumns + `
FROM ideas
WHERE project_id=$1
ORDER BY created_at ASC, id ASC;`
	return r.query(ctx, q, projectID)
}

func (r *IdeaRepository) query(ctx context.Context, q string, args ...any) ([]*ideas.Idea, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		if isInvalidText(err) {
			return []*ideas.Idea{}, nil
		}
		return nil, fmt.Errorf("query ideas: %w", err)
	}
	defer rows.Close()

	out := make([]*ideas.Idea, 0)
	for rows.Next() {
		var (
			i         ideas.Idea
			method    sql.NullString
			evaluated sql.NullTime
		)
		if err := rows.Scan(
			&i.ID, &i.ProjectID, &i.Text, &method,
			&i.DesirabilityScore, &i.ViabilityScore, &i.FeasibilityScore, &i.OverallScore,
			&evaluated, &i.CreatedAt,
		); err != nil {
			return nil, err
		}
		i.GenerationMethod = nullString(method)
		if evaluated.Valid {
			t := evaluated.Time
			i.EvaluatedAt = &t
		}
		out = append(out, &i)
	}
	return out, rows.Err()
}
