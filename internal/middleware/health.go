package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	checkTimeout = 5 * time.Second
)

type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a plain function to HealthChecker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

type optionalCheck struct{ HealthChecker }

// Optional marks a dependency the API can run without, like the completion
// cache or the archive bucket. Its failure degrades health but keeps 200.
func Optional(c HealthChecker) HealthChecker { return optionalCheck{c} }

func isOptional(c HealthChecker) bool {
	_, ok := c.(optionalCheck)
	return ok
}

// DatabaseHealthChecker pings the postgres pool.
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Uptime    float64                `json:"uptime"`
	Checks    map[string]CheckStatus `json:"checks"`
}

type CheckStatus struct {
	Status   string `json:"status"`
	Optional bool   `json:"optional,omitempty"`
	Message  string `json:"message,omitempty"`
}

// runChecks probes every dependency in parallel and folds the results into
// one status: any required failure is unhealthy, optional ones only degrade.
func runChecks(ctx context.Context, checkers map[string]HealthChecker) (string, map[string]CheckStatus) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var mu sync.Mutex
	results := make(map[string]CheckStatus, len(checkers))
	var g errgroup.Group
	for name, c := range checkers {
		g.Go(func() error {
			st := CheckStatus{Status: statusHealthy, Optional: isOptional(c)}
			if err := c.Check(ctx); err != nil {
				st.Status = statusUnhealthy
				st.Message = err.Error()
			}
			mu.Lock()
			results[name] = st
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	overall := statusHealthy
	for _, st := range results {
		if st.Status == statusHealthy {
			continue
		}
		if !st.Optional {
			return statusUnhealthy, results
		}
		overall = statusDegraded
	}
	return overall, results
}

// HealthHandler reports uptime in seconds since startedAt and the state of
// every dependency. Only a failing required dependency answers 503.
func HealthHandler(startedAt time.Time, checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, checks := runChecks(r.Context(), checkers)
		code := http.StatusOK
		if status == statusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, HealthStatus{
			Status:    status,
			Timestamp: time.Now().UTC(),
			Uptime:    time.Since(startedAt).Seconds(),
			Checks:    checks,
		})
	}
}

// ReadinessHandler answers 503 with the failing required dependencies
// until they all respond.
func ReadinessHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, checks := runChecks(r.Context(), checkers)
		if status != statusUnhealthy {
			writeHealth(w, http.StatusOK, map[string]any{"status": "ready", "timestamp": time.Now().UTC()})
			return
		}
		failing := make([]string, 0)
		for name, st := range checks {
			if st.Status == statusUnhealthy && !st.Optional {
				failing = append(failing, name)
			}
		}
		sort.Strings(failing)
		writeHealth(w, http.StatusServiceUnavailable, map[string]any{"status": "not ready", "failing": failing})
	}
}

func writeHealth(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
