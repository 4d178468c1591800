package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/bryanwahyu/innovation-platform/internal/domain/ai"
)

type stubClient struct {
	mu    sync.Mutex
	calls []domai.Request
	reply string
	err   error
}

func (c *stubClient) Complete(_ context.Context, req domai.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, req)
	return c.reply, c.err
}

type mapCache struct {
	mu sync.Mutex
	m  map[string]string
}

func (c *mapCache) Get(_ context.Context, k string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[k]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, k, v string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[k] = v
	return nil
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) AICall(o string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[o]++
}

func TestCompleteWithoutProviderReturnsDemo(t *testing.T) {
	svc := NewService(nil)
	assert.False(t, svc.Configured())

	out := svc.Complete(context.Background(), "Assess the value proposition.", "doc", "")
	assert.True(t, strings.HasPrefix(out, "Demo analysis for: Assess the value proposition...."))
}

func TestAskWithoutProvider(t *testing.T) {
	_, err := NewService(nil).Ask(context.Background(), "p", "c", "")
	assert.True(t, errors.Is(err, domai.ErrNotConfigured))
}

func TestCompleteAbsorbsProviderErrors(t *testing.T) {
	svc := NewService(&stubClient{err: errors.New("connection reset")})
	out := svc.Complete(context.Background(), "p", "c", "")
	assert.Equal(t, "Analysis error: connection reset. Using demo mode instead.", out)
}

func TestCompletePassesModelAndContent(t *testing.T) {
	client := &stubClient{reply: "insight"}
	svc := NewService(client)

	out := svc.Complete(context.Background(), "prompt", "content", "gpt-4o")
	assert.Equal(t, "insight", out)
	require.Len(t, client.calls, 1)
	assert.Equal(t, domai.Request{Model: "gpt-4o", Prompt: "prompt", Content: "content"}, client.calls[0])
}

func TestAskUsesCache(t *testing.T) {
	client := &stubClient{reply: "insight"}
	rec := &countingRecorder{counts: map[string]int{}}
	svc := NewService(client, WithCache(&mapCache{m: map[string]string{}}), WithRecorder(rec))

	for i := 0; i < 3; i++ {
		out, err := svc.Ask(context.Background(), "p", "c", "")
		require.NoError(t, err)
		assert.Equal(t, "insight", out)
	}
	assert.Len(t, client.calls, 1)
	assert.Equal(t, 1, rec.counts["success"])
	assert.Equal(t, 2, rec.counts["cache_hit"])
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	rec := &countingRecorder{counts: map[string]int{}}
	svc := NewService(client, WithRecorder(rec))

	for i := 0; i < 7; i++ {
		_, _ = svc.Ask(context.Background(), "p", "c", "")
	}
	assert.Len(t, client.calls, 5)
	assert.Equal(t, 5, rec.counts["error"])
	assert.Equal(t, 2, rec.counts["breaker_open"])
}

func TestQuotaOutcome(t *testing.T) {
	rec := &countingRecorder{counts: map[string]int{}}
	svc := NewService(&stubClient{err: domai.ErrQuotaExceeded}, WithRecorder(rec))
	_, err := svc.Ask(context.Background(), "p", "c", "")
	require.Error(t, err)
	assert.Equal(t, 1, rec.counts["quota"])
}

func TestRateLimitRespectsContext(t *testing.T) {
	svc := NewService(&stubClient{reply: "ok"}, WithRateLimit(0.001, 1))
	_, err := svc.Ask(context.Background(), "p", "c", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Ask(ctx, "p", "c2", "")
	assert.Error(t, err)
}
