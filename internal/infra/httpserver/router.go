package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appanalyses "github.com/bryanwahyu/innovation-platform/internal/application/analyses"
	appdocs "github.com/bryanwahyu/innovation-platform/internal/application/documents"
	appideas "github.com/bryanwahyu/innovation-platform/internal/application/ideas"
	appprojects "github.com/bryanwahyu/innovation-platform/internal/application/projects"
	"github.com/bryanwahyu/innovation-platform/internal/domain"
	domai "github.com/bryanwahyu/innovation-platform/internal/domain/ai"
	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
	"github.com/bryanwahyu/innovation-platform/internal/infra/logger"
	"github.com/bryanwahyu/innovation-platform/internal/middleware"
)

// Services are the use cases the HTTP layer drives.
type Services struct {
	Projects  *appprojects.Service
	Documents *appdocs.Service
	Analyses  *appanalyses.Service
	Ideas     *appideas.Service
}

type Options struct {
	Log         *logger.Logger
	Metrics     *middleware.Metrics
	Checkers    map[string]middleware.HealthChecker
	APIKeys     map[string]string
	CORSOrigins []string
	RateLimit   float64
	RateBurst   int
	Version     string
	StartedAt   time.Time
}

type Router struct {
	svc     Services
	log     *logger.Logger
	version string
}

func NewRouter(svc Services, opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.StartedAt.IsZero() {
		opts.StartedAt = time.Now()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := &Router{svc: svc, log: opts.Log, version: opts.Version}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	mux.Use(middleware.LoggingMiddleware(opts.Log))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	mux.Use(middleware.RateLimitMiddleware(opts.RateLimit, opts.RateBurst))

	mux.Get("/", r.handleRoot)
	mux.Get("/health", middleware.HealthHandler(opts.StartedAt, opts.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler(opts.Checkers))
	if opts.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	mux.Route("/api/projects", func(rt chi.Router) {
		rt.Get("/", r.wrap(r.handleListProjects))
		rt.Post("/", r.wrap(r.handleCreateProject))
		rt.Route("/{projectId}", func(p chi.Router) {
			p.Get("/", r.wrap(r.handleGetProject))
			p.Delete("/", r.wrap(r.handleDeleteProject))
			p.Get("/documents", r.wrap(r.handleListDocuments))
			p.Post("/documents", r.wrap(r.handleUpload))
			p.Post("/analyze", r.wrap(r.handleAnalyze))
			p.Post("/ideate", r.wrap(r.handleIdeate))
			p.Post("/evaluate", r.wrap(r.handleEvaluate))
			p.Get("/ideas", r.wrap(r.handleListIdeas))
			p.Get("/top-ideas", r.wrap(r.handleTopIdeas))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, err.Error())
		default:
			r.log.Error("request error", "method", req.Method, "path", req.URL.Path, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(req *http.Request, dst any) error {
	if req.Body == nil {
		return nil
	}
	err := json.NewDecoder(req.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return domain.Invalid("invalid JSON body: %v", err)
	}
	return nil
}

func projectID(req *http.Request) (projects.ID, error) {
	id := chi.URLParam(req, "projectId")
	if err := middleware.ValidateProjectID(id); err != nil {
		return "", domain.Invalid("%s", err.Error())
	}
	return projects.ID(id), nil
}

// GET /
func (r *Router) handleRoot(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]any{
		"message":   "🚀 AI Innovation Platform Backend is running!",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"version":   r.version,
	})
}

// GET /api/projects
func (r *Router) handleListProjects(w http.ResponseWriter, req *http.Request) error {
	list, err := r.svc.Projects.List(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /api/projects
// Body: {"name": "...", "metadata": {...}}
func (r *Router) handleCreateProject(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Name     string         `json:"name"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	p, err := r.svc.Projects.Create(req.Context(), appprojects.CreateProjectCommand{
		Name:     middleware.SanitizeString(body.Name),
		Metadata: body.Metadata,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// GET /api/projects/{projectId}
func (r *Router) handleGetProject(w http.ResponseWriter, req *http.Request) error {
	id, err := projectID(req)
	if err != nil {
		return err
	}
	p, err := r.svc.Projects.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// DELETE /api/projects/{projectId}
func (r *Router) handleDeleteProject(w http.ResponseWriter, req *http.Request) error {
	id, err := projectID(req)
	if err != nil {
		return err
	}
	if err := r.svc.Projects.Delete(req.Context(), id); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// GET /api/projects/{projectId}/documents
func (r *Router) handleListDocuments(w http.ResponseWriter, req *http.Request) error {
	id, err := projectID(req)
	if err != nil {
		return err
	}
	docs, err := r.svc.Documents.List(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, docs)
}

// POST /api/projects/{projectId}/analyze
// Body (optional): {"model": "gpt-4"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	id, err := projectID(req)
	if err != nil {
		return err
	}
	var body struct {
		Model string `json:"model"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	res, err := r.svc.Analyses.Analyze(req.Context(), id, body.Model)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/projects/{projectId}/ideate
// Body (optional): {"techniques": ["scamper"], "ideasPerInsight": 5}
func (r *Router) handleIdeate(w http.ResponseWriter, req *http.Request) error {
	id, err := projectID(req)
	if err != nil {
		return err
	}
	var body struct {
		Techniques      []string `json:"techniques"`
		IdeasPerInsight *int     `json:"ideasPerInsight"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	res, err := r.svc.Ideas.Ideate(req.Context(), appideas.IdeateCommand{
		ProjectID:       id,
		Techniques:      body.Techniques,
		IdeasPerInsight: body.IdeasPerInsight,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/projects/{projectId}/evaluate
// Body (optional): {"batchSize": 10}
func (r *Router) handleEvaluate(w http.ResponseWriter, req *http.Request) error {
	id, err := projectID(req)
	if err != nil {
		return err
	}
	var body struct {
		BatchSize int `json:"batchSize"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if body.BatchSize < 0 {
		return domain.Invalid("batchSize must be positive")
	}
	res, err := r.svc.Ideas.Evaluate(req.Context(), appideas.EvaluateCommand{ProjectID: id, BatchSize: body.BatchSize})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /api/projects/{projectId}/ideas
func (r *Router) handleListIdeas(w http.ResponseWriter, req *http.Request) error {
	id, err := projectID(req)
	if err != nil {
		return err
	}
	list, err := r.svc.Ideas.List(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /api/projects/{projectId}/top-ideas?limit=20&minScore=6.0
func (r *Router) handleTopIdeas(w http.ResponseWriter, req *http.Request) error {
	id, err := projectID(req)
	if err != nil {
		return err
	}
	q := req.URL.Query()
	limit, err := middleware.ParseLimit(q.Get("limit"))
	if err != nil {
		return domain.Invalid("%s", err.Error())
	}
	minScore, err := middleware.ParseMinScore(q.Get("minScore"))
	if err != nil {
		return domain.Invalid("%s", err.Error())
	}
	list, err := r.svc.Ideas.Top(req.Context(), id, minScore, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}
