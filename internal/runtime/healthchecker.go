package runtime

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/parleyhq/parley/internal/health"
)

// HealthChecker monitors runtime reachability via periodic pings.
type HealthChecker struct {
	rt           Runtime
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewHealthChecker creates a runtime health checker. It starts unhealthy
// until the first successful probe.
func NewHealthChecker(rt Runtime, log zerolog.Logger, probeTimeout time.Duration) *HealthChecker {
	hc := &HealthChecker{rt: rt, log: log, probeTimeout: probeTimeout}
	hc.healthy.Store(0)
	return hc
}

// Name returns the checker name.
func (hc *HealthChecker) Name() string { return "runtime" }

// IsHealthy returns the cached health status (non-blocking).
func (hc *HealthChecker) IsHealthy() bool { return hc.healthy.Load() == 1 }

// Start begins periodic health checking until ctx is cancelled.
func (hc *HealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		to := hc.probeTimeout
		if to <= 0 {
			to = 2 * time.Second
		}
		checkCtx, cancel := context.WithTimeout(ctx, to)
		defer cancel()

		if hc.probe(checkCtx) {
			hc.healthy.Store(1)
		} else {
			hc.healthy.Store(0)
		}
	}

	check()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

func (hc *HealthChecker) probe(ctx context.Context) bool {
	p, ok := hc.rt.(health.HealthPinger)
	if !ok {
		// Runtimes without a ping endpoint are assumed reachable.
		return true
	}
	if err := p.HealthPing(ctx); err != nil {
		hc.log.Error().Stack().Str("checker", hc.Name()).Err(err).Msg("runtime health check failed")
		return false
	}
	return true
}
