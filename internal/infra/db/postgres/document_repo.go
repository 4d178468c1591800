package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bryanwahyu/innovation-platform/internal/domain"
	"github.com/bryanwahyu/innovation-platform/internal/domain/documents"
	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// CreateBatch inserts each document in its own statement. Rows written before
// a failure stay committed.
func (r *DocumentRepository) CreateBatch(ctx context.Context, docs []*documents.Document) (int, error) {
	const q = `
INSERT INTO documents (id, project_id, category, filename, content_text, file_metadata, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6,$7);`
	for i, d := range docs {
		meta, err := json.Marshal(d.FileMetadata)
		if err != nil {
			return i, fmt.Errorf("marshal file metadata: %w", err)
		}
		var content any
		if d.ContentText != nil {
			content = *d.ContentText
		}
		_, err = r.db.ExecContext(ctx, q,
			d.ID, d.ProjectID, string(d.Category), d.Filename, content, meta, d.UploadedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) || isInvalidText(err) {
				return i, domain.NotFound("project", string(d.ProjectID))
			}
			return i, fmt.Errorf("insert document %s: %w", d.Filename, err)
		}
	}
	return len(docs), nil
}

func (r *DocumentRepository) ListByProject(ctx context.Context, projectID projects.ID) ([]*documents.Document, error) {
	const q = `
SELECT id, project_id, category, filename, content_text, file_metadata, uploaded_at
FROM documents
WHERE project_id=$1
ORDER BY uploaded_at ASC, id ASC;`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		if isInvalidText(err) {
			return []*documents.Document{}, nil
		}
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]*documents.Document, 0)
	for rows.Next() {
		var (
			d       documents.Document
			content sql.NullString
			meta    []byte
		)
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Category, &d.Filename, &content, &meta, &d.UploadedAt); err != nil {
			return nil, err
		}
		if content.Valid {
			s := content.String
			d.ContentText = &s
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &d.FileMetadata); err != nil {
				return nil, fmt.Errorf("unmarshal file metadata: %w", err)
			}
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
