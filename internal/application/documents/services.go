package documents

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/innovation-platform/internal/application"
	"github.com/bryanwahyu/innovation-platform/internal/domain"
	domdocs "github.com/bryanwahyu/innovation-platform/internal/domain/documents"
	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
	"github.com/bryanwahyu/innovation-platform/internal/infra/logger"
	"github.com/bryanwahyu/innovation-platform/internal/infra/storage"
)

// Extractor turns raw upload bytes into text and never fails.
type Extractor interface {
	Extract(filename, mimeType string, data []byte) string
}

type Service struct {
	Repo      domdocs.Repository
	Extractor Extractor
	// Artifacts is optional; when nil the originals are not archived.
	Artifacts domdocs.ArtifactStore
	Clock     application.Clock
	Log       *logger.Logger
}

type UploadFile struct {
	Filename string
	MimeType string
	Data     []byte
}

type UploadCommand struct {
	ProjectID projects.ID
	Category  string
	Files     []UploadFile
}

// Upload extracts every file and stores one document per file. Documents
// inserted before a failing one are kept.
func (s *Service) Upload(ctx context.Context, cmd UploadCommand) ([]*domdocs.Document, error) {
	if len(cmd.Files) == 0 {
		return nil, domain.Invalid("No files uploaded")
	}
	category := strings.TrimSpace(cmd.Category)
	if category == "" {
		return nil, domain.Invalid("category is required")
	}

	docs := make([]*domdocs.Document, 0, len(cmd.Files))
	for _, f := range cmd.Files {
		now := s.Clock.Now()
		text := s.Extractor.Extract(f.Filename, f.MimeType, f.Data)
		d := &domdocs.Document{
			ID:          domdocs.ID(uuid.NewString()),
			ProjectID:   cmd.ProjectID,
			Category:    domdocs.Category(category),
			Filename:    f.Filename,
			ContentText: &text,
			FileMetadata: domdocs.FileMetadata{
				Size:       int64(len(f.Data)),
				MimeType:   f.MimeType,
				UploadedAt: now,
			},
			UploadedAt: now,
		}
		s.archive(ctx, d, f)
		docs = append(docs, d)
	}

	n, err := s.Repo.CreateBatch(ctx, docs)
	if err != nil {
		s.logger().Error("document upload stopped", "project_id", cmd.ProjectID, "stored", n, "total", len(docs), "error", err)
		s.discard(ctx, docs[n:])
		return docs[:n], err
	}
	return docs, nil
}

func (s *Service) List(ctx context.Context, projectID projects.ID) ([]*domdocs.Document, error) {
	return s.Repo.ListByProject(ctx, projectID)
}

// archive keeps the original bytes in object storage. Failures are logged
// and the upload goes on without an object key.
func (s *Service) archive(ctx context.Context, d *domdocs.Document, f UploadFile) {
	if s.Artifacts == nil {
		return
	}
	key := storage.ObjectKey(string(d.ProjectID), string(d.ID), f.Filename)
	if _, err := s.Artifacts.Put(ctx, key, f.MimeType, f.Data); err != nil {
		s.logger().Warn("archive upload failed", "key", key, "error", err)
		return
	}
	d.FileMetadata.ObjectKey = key
}

// discard removes archived originals whose rows never made it to the database.
func (s *Service) discard(ctx context.Context, docs []*domdocs.Document) {
	if s.Artifacts == nil {
		return
	}
	for _, d := range docs {
		key := d.FileMetadata.ObjectKey
		if key == "" {
			continue
		}
		if err := s.Artifacts.Delete(ctx, key); err != nil {
			s.logger().Warn("archive cleanup failed", "key", key, "error", err)
		}
	}
}

func (s *Service) logger() *logger.Logger {
	if s.Log == nil {
		return logger.Nop()
	}
	return s.Log
}
