package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNotConfigured is returned by strict calls when no provider credential is usable.
var ErrNotConfigured = errors.New("ai provider not configured")
