package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15 * time.Second

type ModelChecker interface {
	ModelHealthCheck(ctx context.Context, model string) bool
}

// CheckModels probes every model once.
func CheckModels(ctx context.Context, checker ModelChecker, models []string) map[string]bool {
	status := make(map[string]bool, len(models))
	for _, model := range models {
		status[model] = checker.ModelHealthCheck(ctx, model)
		if !status[model] {
			slog.Warn("[HealthCheck] Model is unhealthy", slog.String("model", model))
		}
	}
	return status
}

// MonitorModelHealth re-probes model every interval until ctx is done,
// storing the latest result in healthy.
func MonitorModelHealth(ctx context.Context, checker ModelChecker, model string, interval time.Duration, healthy *atomic.Bool, onChange func(bool)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := checker.ModelHealthCheck(ctx, model)
			if previous := healthy.Swap(isHealthy); previous != isHealthy && onChange != nil {
				onChange(isHealthy)
			}
			if !isHealthy {
				slog.Warn("[HealthCheck] Model is unhealthy", slog.String("model", model))
			}
		}
	}
}
