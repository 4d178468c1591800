package ai

import "context"

// Request is one prompt plus the document text it applies to.
// An empty Model lets the provider pick its default.
type Request struct {
	Model   string
	Prompt  string
	Content string
}

type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Cache stores completions keyed by a digest of the request.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
