package analyses

import (
	"time"

	"github.com/bryanwahyu/innovation-platform/internal/domain/documents"
)

type ID string

// Analysis is one (document, prompt) AI response. Immutable once stored.
type Analysis struct {
	ID           ID                 `json:"id"`
	DocumentID   documents.ID       `json:"document_id"`
	Category     documents.Category `json:"category"`
	PromptText   string             `json:"prompt_text"`
	ResponseText string             `json:"response_text"`
	CreatedAt    time.Time          `json:"created_at"`
}
