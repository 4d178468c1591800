package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/bryanwahyu/innovation-platform/internal/domain/ai"
	"github.com/bryanwahyu/innovation-platform/internal/infra/ai/prompt"
	"github.com/bryanwahyu/innovation-platform/internal/infra/cache"
	"github.com/bryanwahyu/innovation-platform/internal/infra/logger"
)

// Recorder counts call outcomes: success, error, quota, breaker_open, cache_hit, demo.
type Recorder interface {
	AICall(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) AICall(string) {}

// Service is the single entry point for LLM calls. A nil client means no
// usable credential: Complete answers with a demo text and Ask fails with
// ai.ErrNotConfigured.
type Service struct {
	client   ai.Client
	cache    ai.Cache
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[string]
	timeout  time.Duration
	recorder Recorder
	log      *logger.Logger
}

type Option func(*Service)

func WithCache(c ai.Cache) Option { return func(s *Service) { s.cache = c } }

// WithRateLimit throttles outbound calls; rps <= 0 leaves them unthrottled.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Service) {
		if rps <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }

func WithRecorder(r Recorder) Option { return func(s *Service) { s.recorder = r } }

func WithLogger(l *logger.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(client ai.Client, opts ...Option) *Service {
	s := &Service{
		client:   client,
		recorder: nopRecorder{},
		log:      logger.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "ai-provider",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return s
}

// Configured reports whether a provider credential is usable.
func (s *Service) Configured() bool { return s.client != nil }

// Ask sends instruction plus content to the provider and returns the raw
// error on failure.
func (s *Service) Ask(ctx context.Context, instruction, content, model string) (string, error) {
	if s.client == nil {
		return "", ai.ErrNotConfigured
	}
	key := cache.Key(model, instruction, content)
	if s.cache != nil {
		v, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn("completion cache read failed", "error", err)
		} else if ok {
			s.recorder.AICall("cache_hit")
			return v, nil
		}
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			s.recorder.AICall("error")
			return "", fmt.Errorf("ai rate limit wait: %w", err)
		}
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.breaker.Execute(func() (string, error) {
		return s.client.Complete(ctx, ai.Request{Model: model, Prompt: instruction, Content: content})
	})
	if err != nil {
		s.recorder.AICall(outcome(err))
		return "", err
	}
	s.recorder.AICall("success")

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out); err != nil {
			s.log.Warn("completion cache write failed", "error", err)
		}
	}
	return out, nil
}

// Complete never fails. Without a provider it returns a demo analysis; a
// provider error comes back as an in-band message.
func (s *Service) Complete(ctx context.Context, instruction, content, model string) string {
	if s.client == nil {
		s.recorder.AICall("demo")
		return prompt.DemoResponse(instruction)
	}
	out, err := s.Ask(ctx, instruction, content, model)
	if err != nil {
		s.log.Error("AI call error", "error", err)
		return fmt.Sprintf("Analysis error: %s. Using demo mode instead.", err.Error())
	}
	return out
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ai.ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	default:
		return "error"
	}
}
