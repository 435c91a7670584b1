package handlers

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH CHECK INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// HealthChecker reports the health of the service and its store.
type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

// HealthCheckFunc probes one dependency. A non-nil error marks it unhealthy.
type HealthCheckFunc func(ctx context.Context) error

// HealthStatus is the body of /health. Ready mirrors Healthy: the agenda is
// useless without its store.
type HealthStatus struct {
	Healthy   bool                   `json:"healthy"`
	Ready     bool                   `json:"ready"`
	Message   string                 `json:"message,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Uptime    string                 `json:"uptime,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version,omitempty"`
}

// CheckResult is the outcome of one named check.
type CheckResult struct {
	Healthy  bool   `json:"healthy"`
	Message  string `json:"message,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPOSITE HEALTH CHECKER
// ══════════════════════════════════════════════════════════════════════════════

// DefaultCheckTimeout bounds a single check when none is configured.
const DefaultCheckTimeout = 2 * time.Second

type namedCheck struct {
	name  string
	check HealthCheckFunc
}

// CompositeHealthChecker runs its checks in parallel, each under its own timeout.
// Checks are registered during startup, before the server serves traffic.
type CompositeHealthChecker struct {
	checks    []namedCheck
	startTime time.Time
	version   string
	timeout   time.Duration
}

// NewCompositeHealthChecker creates a checker. A non-positive timeout selects
// DefaultCheckTimeout.
func NewCompositeHealthChecker(version string, timeout time.Duration) *CompositeHealthChecker {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &CompositeHealthChecker{
		startTime: time.Now(),
		version:   version,
		timeout:   timeout,
	}
}

// AddCheck registers a named check. Failed checks are listed in registration order.
func (c *CompositeHealthChecker) AddCheck(name string, check HealthCheckFunc) {
	c.checks = append(c.checks, namedCheck{name: name, check: check})
}

// Check runs every check and aggregates the results.
func (c *CompositeHealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy:   true,
		Ready:     true,
		Checks:    make(map[string]CheckResult, len(c.checks)),
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Version:   c.version,
	}
	if len(c.checks) == 0 {
		status.Message = "No health checks registered"
		return status
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, nc := range c.checks {
		g.Go(func() error {
			result := c.run(ctx, nc.check)
			mu.Lock()
			status.Checks[nc.name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for _, nc := range c.checks {
		if !status.Checks[nc.name].Healthy {
			failed = append(failed, nc.name)
		}
	}
	if len(failed) == 0 {
		status.Message = "All checks passed"
		return status
	}

	status.Healthy = false
	status.Ready = false
	status.Message = "Some checks failed: " + strings.Join(failed, ", ")
	return status
}

func (c *CompositeHealthChecker) run(ctx context.Context, check HealthCheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := check(checkCtx)
	result := CheckResult{
		Healthy:  err == nil,
		Message:  "OK",
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		result.Message = err.Error()
	}
	return result
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE CHECK
// ══════════════════════════════════════════════════════════════════════════════

// Pinger is anything that can verify its backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewStoreCheck pings the schedule store.
func NewStoreCheck(store Pinger) HealthCheckFunc {
	return store.Ping
}
