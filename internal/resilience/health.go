package resilience

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// HealthLevel is the state of one dependency or of the whole service
type HealthLevel string

const (
	LevelOK          HealthLevel = "ok"
	LevelDegraded    HealthLevel = "degraded"
	LevelUnavailable HealthLevel = "unavailable"
)

// HealthCheckFunc reports nil when the dependency is usable
type HealthCheckFunc func(ctx context.Context) error

// ComponentHealth is the last observed state of one dependency
type ComponentHealth struct {
	Name                string      `json:"name"`
	Level               HealthLevel `json:"level"`
	Critical            bool        `json:"critical"`
	Message             string      `json:"message,omitempty"`
	ConsecutiveFailures int         `json:"consecutive_failures"`
	LastChecked         time.Time   `json:"last_checked"`
}

// HealthReport aggregates every registered component
type HealthReport struct {
	Status     HealthLevel       `json:"status"`
	Components []ComponentHealth `json:"components"`
}

type component struct {
	check    HealthCheckFunc
	critical bool
	state    ComponentHealth
}

// HealthRegistry runs dependency checks. A failing critical component makes
// the service unavailable; any other failure only degrades it.
type HealthRegistry struct {
	timeout    time.Duration
	mu         sync.Mutex
	components map[string]*component
}

// NewHealthRegistry creates a registry bounding each check by timeout
func NewHealthRegistry(timeout time.Duration) *HealthRegistry {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthRegistry{
		timeout:    timeout,
		components: make(map[string]*component),
	}
}

// Register adds or replaces a component check
func (h *HealthRegistry) Register(name string, critical bool, check HealthCheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.components[name] = &component{
		check:    check,
		critical: critical,
		state:    ComponentHealth{Name: name, Level: LevelOK, Critical: critical},
	}
	slog.Debug("Registered health check", "component", name, "critical", critical)
}

// Check runs every registered check concurrently and returns the report
func (h *HealthRegistry) Check(ctx context.Context) HealthReport {
	h.mu.Lock()
	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	h.mu.Unlock()
	sort.Strings(names)

	results := make([]error, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		h.mu.Lock()
		check := h.components[name].check
		h.mu.Unlock()

		wg.Add(1)
		go func(i int, check HealthCheckFunc) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()
			results[i] = check(checkCtx)
		}(i, check)
	}
	wg.Wait()

	report := HealthReport{Status: LevelOK, Components: make([]ComponentHealth, 0, len(names))}
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()
	for i, name := range names {
		c, ok := h.components[name]
		if !ok {
			continue
		}
		c.state.LastChecked = now
		if err := results[i]; err != nil {
			c.state.ConsecutiveFailures++
			c.state.Message = err.Error()
			c.state.Level = LevelDegraded
			if c.critical {
				c.state.Level = LevelUnavailable
			}
			if c.state.ConsecutiveFailures == 1 {
				slog.Warn("Health check failed", "component", name, "error", err)
			}
		} else {
			c.state.ConsecutiveFailures = 0
			c.state.Message = ""
			c.state.Level = LevelOK
		}
		report.Status = worse(report.Status, c.state.Level)
		report.Components = append(report.Components, c.state)
	}

	return report
}

func worse(a, b HealthLevel) HealthLevel {
	rank := map[HealthLevel]int{LevelOK: 0, LevelDegraded: 1, LevelUnavailable: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
