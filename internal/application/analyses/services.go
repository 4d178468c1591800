package analyses

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/innovation-platform/internal/application"
	"github.com/bryanwahyu/innovation-platform/internal/domain"
	domanalyses "github.com/bryanwahyu/innovation-platform/internal/domain/analyses"
	"github.com/bryanwahyu/innovation-platform/internal/domain/documents"
	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
	"github.com/bryanwahyu/innovation-platform/internal/infra/ai/prompt"
)

// Completer is the never-failing side of the AI service.
type Completer interface {
	Complete(ctx context.Context, instruction, content, model string) string
}

type Service struct {
	Repo      domanalyses.Repository
	Documents documents.Repository
	AI        Completer
	Clock     application.Clock
	// Concurrency caps in-flight AI calls; 1 or less keeps them sequential.
	Concurrency int
}

// Finding is one prompt/response pair as returned to the caller.
type Finding struct {
	DocumentName string `json:"documentName"`
	Prompt       string `json:"prompt"`
	Response     string `json:"response"`
}

// Result groups findings by document category.
type Result map[documents.Category][]Finding

type task struct {
	doc    *documents.Document
	prompt string
}

// Analyze runs every category prompt against every document of the project
// and stores one analysis row per (document, prompt).
func (s *Service) Analyze(ctx context.Context, projectID projects.ID, model string) (Result, error) {
	docs, err := s.Documents.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.Invalid("No documents found for this project")
	}

	result := Result{}
	var tasks []task
	for _, d := range docs {
		if _, ok := result[d.Category]; !ok {
			result[d.Category] = []Finding{}
		}
		for _, p := range prompt.ForCategory(d.Category) {
			tasks = append(tasks, task{doc: d, prompt: p})
		}
	}

	responses := make([]string, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Concurrency))
	for i, t := range tasks {
		g.Go(func() error {
			responses[i] = s.AI.Complete(gctx, t.prompt, t.doc.Content(), model)
			return nil
		})
	}
	_ = g.Wait()

	for i, t := range tasks {
		a := &domanalyses.Analysis{
			ID:           domanalyses.ID(uuid.NewString()),
			DocumentID:   t.doc.ID,
			Category:     t.doc.Category,
			PromptText:   t.prompt,
			ResponseText: responses[i],
			CreatedAt:    s.Clock.Now(),
		}
		if err := s.Repo.Save(ctx, a); err != nil {
			return nil, err
		}
		result[t.doc.Category] = append(result[t.doc.Category], Finding{
			DocumentName: t.doc.Filename,
			Prompt:       t.prompt,
			Response:     responses[i],
		})
	}
	return result, nil
}
