package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/innovation-platform/internal/application"
	appai "github.com/bryanwahyu/innovation-platform/internal/application/ai"
	appanalyses "github.com/bryanwahyu/innovation-platform/internal/application/analyses"
	appdocs "github.com/bryanwahyu/innovation-platform/internal/application/documents"
	appideas "github.com/bryanwahyu/innovation-platform/internal/application/ideas"
	appprojects "github.com/bryanwahyu/innovation-platform/internal/application/projects"
	"github.com/bryanwahyu/innovation-platform/internal/config"
	domai "github.com/bryanwahyu/innovation-platform/internal/domain/ai"
	"github.com/bryanwahyu/innovation-platform/internal/domain/analyses"
	"github.com/bryanwahyu/innovation-platform/internal/domain/documents"
	"github.com/bryanwahyu/innovation-platform/internal/domain/ideas"
	"github.com/bryanwahyu/innovation-platform/internal/domain/projects"
	"github.com/bryanwahyu/innovation-platform/internal/infra/ai/openai"
	"github.com/bryanwahyu/innovation-platform/internal/infra/cache"
	"github.com/bryanwahyu/innovation-platform/internal/infra/db/memory"
	"github.com/bryanwahyu/innovation-platform/internal/infra/db/postgres"
	"github.com/bryanwahyu/innovation-platform/internal/infra/extractor"
	"github.com/bryanwahyu/innovation-platform/internal/infra/httpserver"
	"github.com/bryanwahyu/innovation-platform/internal/infra/logger"
	minioStore "github.com/bryanwahyu/innovation-platform/internal/infra/storage"
	"github.com/bryanwahyu/innovation-platform/internal/middleware"
)

type repositories struct {
	projects  projects.Repository
	documents documents.Repository
	analyses  analyses.Repository
	ideas     ideas.Repository
	health    middleware.HealthChecker
	close     func()
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer lg.Sync()

	ctx := context.Background()
	startedAt := time.Now()

	repos, err := openRepositories(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("database init error", "error", err)
	}
	defer repos.close()

	metrics := middleware.NewMetrics()
	checkers := map[string]middleware.HealthChecker{"database": repos.health}
	aiOpts := []appai.Option{
		appai.WithRateLimit(cfg.AI.RequestsPerSecond, cfg.AI.Concurrency),
		appai.WithTimeout(cfg.AI.Timeout),
		appai.WithRecorder(metrics),
		appai.WithLogger(lg),
	}
	if completions := newCompletionCache(ctx, cfg, lg); completions != nil {
		aiOpts = append(aiOpts, appai.WithCache(completions))
		checkers["cache"] = middleware.Optional(completions)
	}
	aiSvc := appai.NewService(newAIClient(cfg, lg), aiOpts...)

	clock := application.SystemClock{}
	docsSvc := &appdocs.Service{
		Repo:      repos.documents,
		Extractor: extractor.New(),
		Clock:     clock,
		Log:       lg,
	}
	// init minio (optional)
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			lg.Warn("minio unavailable, originals will not be archived", "error", err)
		} else {
			docsSvc.Artifacts = store
			checkers["archive"] = middleware.Optional(store)
		}
	}

	svc := httpserver.Services{
		Projects:  &appprojects.Service{Repo: repos.projects, Clock: clock},
		Documents: docsSvc,
		Analyses: &appanalyses.Service{
			Repo:        repos.analyses,
			Documents:   repos.documents,
			AI:          aiSvc,
			Clock:       clock,
			Concurrency: cfg.AI.Concurrency,
		},
		Ideas: &appideas.Service{
			Repo:        repos.ideas,
			Analyses:    repos.analyses,
			AI:          aiSvc,
			Scorer:      appideas.NewScorer(nil),
			Clock:       clock,
			Log:         lg,
			Concurrency: cfg.AI.Concurrency,
		},
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Log:         lg,
		Metrics:     metrics,
		Checkers:    checkers,
		APIKeys:     cfg.Server.APIKeys,
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit.RPS,
		RateBurst:   cfg.Server.RateLimit.Burst,
		Version:     cfg.App.Version,
		StartedAt:   startedAt,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		lg.Info("server listening", "addr", addr, "env", cfg.App.Env, "ai_configured", aiSvc.Configured())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", "error", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	lg.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		lg.Error("shutdown error", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config, lg *logger.Logger) (*repositories, error) {
	if cfg.InMemory() {
		lg.Warn("DATABASE_URL=memory, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			projects:  store.Projects(),
			documents: store.Documents(),
			analyses:  store.Analyses(),
			ideas:     store.Ideas(),
			health:    store,
			close:     func() {},
		}, nil
	}

	db, err := postgres.Connect(ctx, cfg.PostgresDSN(), cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	lg.Info("database schema ready")
	return &repositories{
		projects:  postgres.NewProjectRepository(db),
		documents: postgres.NewDocumentRepository(db),
		analyses:  postgres.NewAnalysisRepository(db),
		ideas:     postgres.NewIdeaRepository(db),
		health:    &middleware.DatabaseHealthChecker{DB: db},
		close:     func() { _ = db.Close() },
	}, nil
}

// newAIClient prefers OpenAI, then Anthropic; nil means demo mode.
func newAIClient(cfg *config.Config, lg *logger.Logger) domai.Client {
	if key := cfg.OpenAIKey(); key != "" {
		lg.Info("AI provider: openai", "model", cfg.AI.Model)
		return openai.NewClient(key, cfg.AI.Model)
	}
	if key := cfg.AnthropicKey(); key != "" {
		lg.Info("AI provider: anthropic", "model", cfg.AI.AnthropicModel)
		return openai.NewAnthropicClient(key, cfg.AI.AnthropicModel)
	}
	lg.Warn("no AI credential configured, running in demo mode")
	return nil
}

func newCompletionCache(ctx context.Context, cfg *config.Config, lg *logger.Logger) *cache.CompletionCache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lg.Warn("redis unavailable, completion cache disabled", "error", err)
		return nil
	}
	return cache.NewCompletionCache(client, cfg.Redis.TTL)
}
