package session

import (
	"context"
	"log/slog"
	"time"
)

// Probe pings the store on a fixed interval and logs transitions between
// reachable and unreachable. It only observes: gameplay runs on in-process
// room state, so a dead store degrades reconnection resilience and nothing
// else. Probe returns when ctx is cancelled.
func Probe(ctx context.Context, store Store, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := store.Ping(pingCtx)
			cancel()

			switch {
			case err != nil && healthy:
				healthy = false
				logger.Error("session store unreachable, reconnection degraded", "error", err)
			case err == nil && !healthy:
				healthy = true
				logger.Info("session store reachable again")
			}
		}
	}
}
