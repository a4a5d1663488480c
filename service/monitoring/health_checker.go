/*
 * @module service/monitoring/health_checker
 * @description Readiness checks over the service dependencies: database, cache and the
 *              active dataset
 * @architecture Layered - service layer
 * @documentReference DESIGN.md
 * @stateFlow register checks -> run each with timeout -> aggregate overall status
 * @rules A critical component makes the service not ready; warnings keep it ready
 * @dependencies context, sync
 * @refs api/controllers/health_controller.go
 */

package monitoring

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Component status values
const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

// CheckFunc probes one component. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

// ComponentHealth is the result of one check.
type ComponentHealth struct {
	Name         string        `json:"name"`
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// HealthStatus is the aggregated result of all checks.
type HealthStatus struct {
	Overall    string            `json:"overall"`
	Ready      bool              `json:"ready"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

type registeredCheck struct {
	check    CheckFunc
	critical bool
}

// HealthChecker runs the registered checks.
type HealthChecker struct {
	timeout time.Duration
	mutex   sync.RWMutex
	checks  map[string]registeredCheck
}

// NewHealthChecker creates a checker whose checks each get timeout to complete.
func NewHealthChecker(timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthChecker{
		timeout: timeout,
		checks:  make(map[string]registeredCheck),
	}
}

// Register adds a check. A failing critical check makes the service not ready.
func (h *HealthChecker) Register(name string, critical bool, check CheckFunc) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.checks[name] = registeredCheck{check: check, critical: critical}
}

// Check runs every registered check concurrently.
func (h *HealthChecker) Check(ctx context.Context) *HealthStatus {
	h.mutex.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	checks := make(map[string]registeredCheck, len(h.checks))
	for name, c := range h.checks {
		checks[name] = c
	}
	h.mutex.RUnlock()
	sort.Strings(names)

	components := make([]ComponentHealth, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string, c registeredCheck) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()

			start := time.Now()
			err := c.check(checkCtx)
			result := ComponentHealth{Name: name, Status: StatusHealthy, ResponseTime: time.Since(start)}
			if err != nil {
				result.ErrorMessage = err.Error()
				result.Status = StatusWarning
				if c.critical {
					result.Status = StatusCritical
				}
			}
			components[i] = result
		}(i, name, checks[name])
	}
	wg.Wait()

	status := &HealthStatus{
		Overall:    StatusHealthy,
		Ready:      true,
		Timestamp:  time.Now(),
		Components: components,
	}
	for _, c := range components {
		switch c.Status {
		case StatusCritical:
			status.Overall = StatusCritical
			status.Ready = false
		case StatusWarning:
			if status.Overall == StatusHealthy {
				status.Overall = StatusWarning
			}
		}
	}
	return status
}
