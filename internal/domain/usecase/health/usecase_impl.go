package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"umbrella-bot/internal/domain/model"
	"umbrella-bot/pkg/log"
)

type healthUseCase struct {
	checks       []Check
	probeTimeout time.Duration
	now          func() time.Time

	mu       sync.RWMutex
	snapshot map[string]model.ComponentHealthStatus
}

func NewHealthUseCase(probeTimeout time.Duration, checks ...Check) UseCase {
	snapshot := make(map[string]model.ComponentHealthStatus, len(checks))
	for _, check := range checks {
		snapshot[check.Name] = model.ComponentHealthStatus{Status: model.StatusUnknown}
	}

	return &healthUseCase{
		checks:       checks,
		probeTimeout: probeTimeout,
		now:          time.Now,
		snapshot:     snapshot,
	}
}

func (useCase *healthUseCase) CheckHealth() model.HealthResponse {
	useCase.mu.RLock()
	defer useCase.mu.RUnlock()

	components := make(map[string]model.ComponentHealthStatus, len(useCase.snapshot))
	for name, status := range useCase.snapshot {
		components[name] = status
	}

	return model.HealthResponse{
		Status:     overallStatus(components),
		Components: components,
	}
}

func (useCase *healthUseCase) Probe(ctx context.Context) model.HealthResponse {
	results := make(map[string]model.ComponentHealthStatus, len(useCase.checks))
	var resultsMu sync.Mutex
	var wg sync.WaitGroup

	for _, check := range useCase.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := useCase.runCheck(ctx, check)

			resultsMu.Lock()
			results[check.Name] = status
			resultsMu.Unlock()
		}()
	}
	wg.Wait()

	useCase.mu.Lock()
	for name, status := range results {
		useCase.snapshot[name] = status
	}
	useCase.mu.Unlock()

	return useCase.CheckHealth()
}

func (useCase *healthUseCase) runCheck(ctx context.Context, check Check) model.ComponentHealthStatus {
	if useCase.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, useCase.probeTimeout)
		defer cancel()
	}

	details, err := check.Run(ctx)
	if details == nil {
		details = make(map[string]string)
	}

	status := model.ComponentHealthStatus{
		Status:    model.StatusUp,
		Details:   details,
		CheckedAt: useCase.now(),
	}
	if err != nil {
		status.Status = model.StatusDown
		status.Details["error"] = err.Error()
		log.Warn("Health probe failed", zap.String("component", check.Name), zap.Error(err))
	}
	return status
}

func overallStatus(components map[string]model.ComponentHealthStatus) model.HealthStatus {
	overall := model.StatusUp
	for _, component := range components {
		switch component.Status {
		case model.StatusDown:
			return model.StatusDown
		case model.StatusUnknown:
			overall = model.StatusUnknown
		}
	}
	return overall
}
