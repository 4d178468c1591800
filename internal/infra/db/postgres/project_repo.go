package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bryanwahyu/innovation-platform/internal/domain"
	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *projects.Project) error {
	meta := p.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	const q = `
INSERT INTO projects (id, name, metadata, created_at)
VALUES ($1,$2,$3,$4);`
	if _, err := r.db.ExecContext(ctx, q, p.ID, p.Name, raw, createdAt); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.Metadata = meta
	p.CreatedAt = createdAt
	return nil
}

// List returns all projects ordered newest first
func (r *ProjectRepository) List(ctx context.Context) ([]*projects.Project, error) {
	const q = `
SELECT id, name, metadata, created_at
FROM projects
ORDER BY created_at DESC, id DESC;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]*projects.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Get(ctx context.Context, id projects.ID) (*projects.Project, error) {
	const q = `
SELECT id, name, metadata, created_at
FROM projects
WHERE id=$1;`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, domain.NotFound("project", string(id))
		}
		return nil, err
	}
	return p, nil
}

// Delete removes the project; documents, analyses and ideas go with it.
func (r *ProjectRepository) Delete(ctx context.Context, id projects.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id=$1;`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.NotFound("project", string(id))
		}
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("project", string(id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (*projects.Project, error) {
	var p projects.Project
	var meta []byte
	if err := s.Scan(&p.ID, &p.Name, &meta, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Metadata = map[string]any{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &p.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal project metadata: %w", err)
		}
	}
	return &p, nil
}
