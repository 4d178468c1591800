package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Input validation and sanitization utilities

const (
	DefaultTopLimit = 20
	MaxTopLimit     = 100
	DefaultMinScore = 6.0
)

// ValidateProjectID checks that id is a UUID
func ValidateProjectID(id string) error {
	if id == "" {
		return fmt.Errorf("project ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid project ID format: %s", id)
	}
	return nil
}

// ParseLimit reads the top-ideas limit: default 20 when absent, capped at 100.
// An explicit 0 stays 0.
func ParseLimit(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultTopLimit, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid limit: %s", raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid limit: %s", raw)
	}
	return ValidateLimit(n), nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit < 0 {
		return DefaultTopLimit
	}
	if limit > MaxTopLimit {
		return MaxTopLimit
	}
	return limit
}

// ParseMinScore reads the top-ideas score floor, default 6.0.
func ParseMinScore(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultMinScore, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid minScore: %s", raw)
	}
	return f, nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// SanitizeFilename keeps only the base name of an uploaded file.
func SanitizeFilename(name string) string {
	name = SanitizeString(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}
