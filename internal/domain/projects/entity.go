package projects

import "time"

// ID tipe untuk Project
type ID string

// Aggregate Root: Project. Deleting it cascades to documents and ideas.
type Project struct {
	ID        ID             `json:"id"`
	Name      string         `json:"name"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}
