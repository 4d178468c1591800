package projects

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/innovation-platform/internal/application"
	"github.com/bryanwahyu/innovation-platform/internal/domain"
	domproj "github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

// Service implements use-cases untuk Project
type Service struct {
	Repo  domproj.Repository
	Clock application.Clock
}

type CreateProjectCommand struct {
	Name     string
	Metadata map[string]any
}

func (s *Service) Create(ctx context.Context, cmd CreateProjectCommand) (*domproj.Project, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, domain.Invalid("name is required")
	}
	meta := cmd.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	p := &domproj.Project{
		ID:        domproj.ID(uuid.NewString()),
		Name:      name,
		Metadata:  meta,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]*domproj.Project, error) {
	return s.Repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id domproj.ID) (*domproj.Project, error) {
	return s.Repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id domproj.ID) error {
	return s.Repo.Delete(ctx, id)
}
