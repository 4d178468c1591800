package ideas

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/innovation-platform/internal/application"
	"github.com/bryanwahyu/innovation-platform/internal/domain"
	"github.com/bryanwahyu/innovation-platform/internal/domain/analyses"
	domideas "github.com/bryanwahyu/innovation-platform/internal/domain/ideas"
	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
	"github.com/bryanwahyu/innovation-platform/internal/infra/ai/prompt"
	"github.com/bryanwahyu/innovation-platform/internal/infra/logger"
)

const (
	DefaultIdeasPerInsight = 5
	DefaultBatchSize       = 10
	DefaultTopLimit        = 20

	// insightSample bounds how many prior analyses feed one ideation run.
	insightSample = 10
)

var DefaultTechniques = []string{"scamper", "brainstorming"}

// AI is the slice of the AI service the idea use cases need.
type AI interface {
	Configured() bool
	Complete(ctx context.Context, instruction, content, model string) string
	Ask(ctx context.Context, instruction, content, model string) (string, error)
}

type Service struct {
	Repo     domideas.Repository
	Analyses analyses.Repository
	AI       AI
	Scorer   *Scorer
	Clock    application.Clock
	Log      *logger.Logger
	// Concurrency caps in-flight AI calls; 1 or less keeps them sequential.
	Concurrency int
}

type IdeateCommand struct {
	ProjectID       projects.ID
	Techniques      []string
	// IdeasPerInsight nil means DefaultIdeasPerInsight; zero stores nothing.
	IdeasPerInsight *int
}

type IdeateResult struct {
	GeneratedIdeas int              `json:"generatedIdeas"`
	Ideas          []*domideas.Idea `json:"ideas"`
}

// Ideate asks for IdeasPerInsight ideas per distinct prior analysis and
// stores every usable line as an idea.
func (s *Service) Ideate(ctx context.Context, cmd IdeateCommand) (*IdeateResult, error) {
	techniques := cmd.Techniques
	if len(techniques) == 0 {
		techniques = DefaultTechniques
	}
	perInsight := DefaultIdeasPerInsight
	if cmd.IdeasPerInsight != nil {
		perInsight = *cmd.IdeasPerInsight
	}
	if perInsight < 0 {
		return nil, domain.Invalid("ideasPerInsight must not be negative")
	}

	insights, err := s.Analyses.DistinctResponses(ctx, cmd.ProjectID, insightSample)
	if err != nil {
		return nil, err
	}
	if len(insights) == 0 {
		return nil, domain.Invalid("No analyses found. Please run analysis first.")
	}
	if perInsight == 0 {
		return &IdeateResult{Ideas: make([]*domideas.Idea, 0)}, nil
	}

	replies := make([]string, len(insights))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Concurrency))
	for i, insight := range insights {
		g.Go(func() error {
			replies[i] = s.AI.Complete(gctx, prompt.IdeationPrompt(insight, perInsight), "", "")
			return nil
		})
	}
	_ = g.Wait()

	method := strings.Join(techniques, "_")
	out := &IdeateResult{Ideas: make([]*domideas.Idea, 0)}
	for _, reply := range replies {
		for _, text := range SplitIdeas(reply, perInsight) {
			idea := &domideas.Idea{
				ID:               domideas.ID(uuid.NewString()),
				ProjectID:        cmd.ProjectID,
				Text:             text,
				GenerationMethod: method,
				CreatedAt:        s.Clock.Now(),
			}
			if err := s.Repo.Save(ctx, idea); err != nil {
				return nil, err
			}
			out.Ideas = append(out.Ideas, idea)
		}
	}
	out.GeneratedIdeas = len(out.Ideas)
	return out, nil
}

type EvaluateCommand struct {
	ProjectID projects.ID
	BatchSize int
}

type EvaluateResult struct {
	Evaluated int `json:"evaluated"`
}

// Evaluate scores a batch of never-evaluated ideas.
func (s *Service) Evaluate(ctx context.Context, cmd EvaluateCommand) (*EvaluateResult, error) {
	batch := cmd.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	pending, err := s.Repo.Unscored(ctx, cmd.ProjectID, batch)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, domain.Invalid("No ideas found to evaluate. Please generate ideas first.")
	}

	scores := make([]domideas.Scores, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Concurrency))
	for i, idea := range pending {
		g.Go(func() error {
			scores[i] = s.score(gctx, idea.Text)
			return nil
		})
	}
	_ = g.Wait()

	for i, idea := range pending {
		if err := s.Repo.UpdateScores(ctx, idea.ID, scores[i], s.Clock.Now()); err != nil {
			return nil, err
		}
	}
	return &EvaluateResult{Evaluated: len(pending)}, nil
}

func (s *Service) score(ctx context.Context, text string) domideas.Scores {
	if !s.AI.Configured() {
		return s.Scorer.Heuristic(text)
	}
	reply, err := s.AI.Ask(ctx, prompt.EvaluationPrompt(text), "", "")
	if err == nil {
		if sc, ok := ParseScores(reply); ok {
			return sc
		}
	}
	s.logger().Warn("AI evaluation failed, using fallback scores", "error", err)
	return s.Scorer.Fallback()
}

// Top returns ideas scoring at least minScore, best first.
func (s *Service) Top(ctx context.Context, projectID projects.ID, minScore float64, limit int) ([]*domideas.Idea, error) {
	switch {
	case limit < 0:
		limit = DefaultTopLimit
	case limit == 0:
		return make([]*domideas.Idea, 0), nil
	}
	return s.Repo.Top(ctx, projectID, minScore, limit)
}

func (s *Service) List(ctx context.Context, projectID projects.ID) ([]*domideas.Idea, error) {
	return s.Repo.ListByProject(ctx, projectID)
}

func (s *Service) logger() *logger.Logger {
	if s.Log == nil {
		return logger.Nop()
	}
	return s.Log
}
