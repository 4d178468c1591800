// Package memory keeps every table in process memory. It backs the
// DATABASE_URL=memory demo mode and the HTTP tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bryanwahyu/innovation-platform/internal/domain"
	"github.com/bryanwahyu/innovation-platform/internal/domain/analyses"
	"github.com/bryanwahyu/innovation-platform/internal/domain/documents"
	"github.com/bryanwahyu/innovation-platform/internal/domain/ideas"
	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
)

type Store struct {
	mu        sync.RWMutex
	projects  []*projects.Project
	documents []*documents.Document
	analyses  []*analyses.Analysis
	ideas     []*ideas.Idea
}

func NewStore() *Store { return &Store{} }

func (s *Store) Projects() *ProjectRepository   { return &ProjectRepository{s: s} }
func (s *Store) Documents() *DocumentRepository { return &DocumentRepository{s: s} }
func (s *Store) Analyses() *AnalysisRepository  { return &AnalysisRepository{s: s} }
func (s *Store) Ideas() *IdeaRepository         { return &IdeaRepository{s: s} }

// Check satisfies the health checker contract.
func (s *Store) Check(context.Context) error { return nil }

func (s *Store) projectExists(id projects.ID) bool {
	for _, p := range s.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) documentProject(id documents.ID) (projects.ID, bool) {
	for _, d := range s.documents {
		if d.ID == id {
			return d.ProjectID, true
		}
	}
	return "", false
}

type ProjectRepository struct{ s *Store }

func (r *ProjectRepository) Create(_ context.Context, p *projects.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.Metadata == nil {
		p.Metadata = map[string]any{}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	r.s.projects = append(r.s.projects, &cp)
	return nil
}

func (r *ProjectRepository) List(context.Context) ([]*projects.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*projects.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		cp := *p
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ProjectRepository) Get(_ context.Context, id projects.ID) (*projects.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.projects {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.NotFound("project", string(id))
}

func (r *ProjectRepository) Delete(_ context.Context, id projects.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.projectExists(id) {
		return domain.NotFound("project", string(id))
	}
	r.s.projects = filter(r.s.projects, func(p *projects.Project) bool { return p.ID != id })

	gone := map[documents.ID]bool{}
	r.s.documents = filter(r.s.documents, func(d *documents.Document) bool {
		if d.ProjectID == id {
			gone[d.ID] = true
			return false
		}
		return true
	})
	r.s.analyses = filter(r.s.analyses, func(a *analyses.Analysis) bool { return !gone[a.DocumentID] })
	r.s.ideas = filter(r.s.ideas, func(i *ideas.Idea) bool { return i.ProjectID != id })
	return nil
}

type DocumentRepository struct{ s *Store }

func (r *DocumentRepository) CreateBatch(_ context.Context, docs []*documents.Document) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, d := range docs {
		if !r.s.projectExists(d.ProjectID) {
			return i, domain.NotFound("project", string(d.ProjectID))
		}
		cp := *d
		r.s.documents = append(r.s.documents, &cp)
	}
	return len(docs), nil
}

func (r *DocumentRepository) ListByProject(_ context.Context, projectID projects.ID) ([]*documents.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*documents.Document, 0)
	for _, d := range r.s.documents {
		if d.ProjectID == projectID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

type AnalysisRepository struct{ s *Store }

func (r *AnalysisRepository) Save(_ context.Context, a *analyses.Analysis) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.documentProject(a.DocumentID); !ok {
		return domain.NotFound("document", string(a.DocumentID))
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	r.s.analyses = append(r.s.analyses, &cp)
	return nil
}

func (r *AnalysisRepository) DistinctResponses(_ context.Context, projectID projects.ID, limit int) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, a := range r.s.analyses {
		if len(out) >= limit {
			break
		}
		pid, ok := r.s.documentProject(a.DocumentID)
		if !ok || pid != projectID || seen[a.ResponseText] {
			continue
		}
		seen[a.ResponseText] = true
		out = append(out, a.ResponseText)
	}
	return out, nil
}

// All returns every stored analysis in insertion order.
func (r *AnalysisRepository) All() []*analyses.Analysis {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*analyses.Analysis, 0, len(r.s.analyses))
	for _, a := range r.s.analyses {
		cp := *a
		out = append(out, &cp)
	}
	return out
}

type IdeaRepository struct{ s *Store }

func (r *IdeaRepository) Save(_ context.Context, i *ideas.Idea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.projectExists(i.ProjectID) {
		return domain.NotFound("project", string(i.ProjectID))
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	cp := *i
	r.s.ideas = append(r.s.ideas, &cp)
	return nil
}

func (r *IdeaRepository) Unscored(_ context.Context, projectID projects.ID, limit int) ([]*ideas.Idea, error) {
	return r.collect(func(i *ideas.Idea) bool { return i.ProjectID == projectID && !i.Evaluated() }, limit), nil
}

func (r *IdeaRepository) UpdateScores(_ context.Context, id ideas.ID, s ideas.Scores, evaluatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.ideas {
		if i.ID == id {
			i.ApplyScores(s, evaluatedAt)
			return nil
		}
	}
	return domain.NotFound("idea", string(id))
}

func (r *IdeaRepository) Top(_ context.Context, projectID projects.ID, minScore float64, limit int) ([]*ideas.Idea, error) {
	out := r.collect(func(i *ideas.Idea) bool { return i.ProjectID == projectID && i.OverallScore >= minScore }, 0)
	sort.SliceStable(out, func(a, b int) bool { return out[a].OverallScore > out[b].OverallScore })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *IdeaRepository) ListByProject(_ context.Context, projectID projects.ID) ([]*ideas.Idea, error) {
	return r.collect(func(i *ideas.Idea) bool { return i.ProjectID == projectID }, 0), nil
}

func (r *IdeaRepository) collect(keep func(*ideas.Idea) bool, limit int) []*ideas.Idea {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*ideas.Idea, 0)
	for _, i := range r.s.ideas {
		if limit > 0 && len(out) >= limit {
			break
		}
		if keep(i) {
			cp := *i
			out = append(out, &cp)
		}
	}
	return out
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
