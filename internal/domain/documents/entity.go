package documents

import (
	"time"

	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

type ID string

// Category selects the prompt templates used when a document is analyzed.
type Category string

const (
	CategoryDesirability Category = "desirability"
	CategoryViability    Category = "viability"
	CategoryFeasibility  Category = "feasibility"

	// DefaultCategory is used for any category without its own templates.
	DefaultCategory = CategoryDesirability
)

// FileMetadata value object
type FileMetadata struct {
	Size       int64     `json:"size"`
	MimeType   string    `json:"mimetype"`
	UploadedAt time.Time `json:"uploadedAt"`
	ObjectKey  string    `json:"objectKey,omitempty"`
}

type Document struct {
	ID           ID           `json:"id"`
	ProjectID    projects.ID  `json:"project_id"`
	Category     Category     `json:"category"`
	Filename     string       `json:"filename"`
	ContentText  *string      `json:"content_text"`
	FileMetadata FileMetadata `json:"file_metadata"`
	UploadedAt   time.Time    `json:"uploaded_at"`
}

// Content returns the extracted text, or "" when extraction produced nothing.
func (d *Document) Content() string {
	if d.ContentText == nil {
		return ""
	}
	return *d.ContentText
}
