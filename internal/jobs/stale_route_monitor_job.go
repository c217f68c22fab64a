package jobs

import (
	"context"
	"log/slog"
	"time"

	"routing/internal/core/application/usecases/queries"
	"routing/internal/core/domain/model/route"

	"github.com/robfig/cron/v3"
)

// defaultStaleAfter is how long a route may stay InProgress before it is
// flagged as stale.
const defaultStaleAfter = 8 * time.Hour

// StaleRouteMonitorJob periodically scans active routes and logs those that
// have been in progress longer than the configured threshold. Diagnostics
// only; the job never mutates routes.
type StaleRouteMonitorJob struct {
	handler    queries.GetActiveRoutesQueryHandler
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleRouteMonitorJob creates a job watching for routes stuck in progress.
// A non-positive staleAfter falls back to the default threshold.
func NewStaleRouteMonitorJob(
	handler queries.GetActiveRoutesQueryHandler,
	staleAfter time.Duration,
	logger *slog.Logger,
) *StaleRouteMonitorJob {
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}

	return &StaleRouteMonitorJob{
		handler:    handler,
		staleAfter: staleAfter,
		cron:       cron.New(),
		logger:     logger.With("component", "stale_route_monitor_job"),
	}
}

// Start begins the monitor, scanning active routes every minute.
func (j *StaleRouteMonitorJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", j.scan)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale route monitor started",
		"staleAfter", j.staleAfter.String())
	return nil
}

// Stop stops the monitor.
func (j *StaleRouteMonitorJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale route monitor stopped")
}

// scan runs one pass over the active routes.
func (j *StaleRouteMonitorJob) scan() {
	ctx := context.Background()

	routes, err := j.handler.Handle(ctx, queries.NewGetActiveRoutesQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale route scan failed", "error", err)
		return
	}

	cutoff := time.Now().UTC().Add(-j.staleAfter)
	for _, r := range routes {
		if r.Status != route.InProgress || r.StartedAt == nil {
			continue
		}
		if r.StartedAt.Before(cutoff) {
			j.logger.WarnContext(ctx, "Route has been in progress beyond the stale threshold",
				"routeNumber", r.Number,
				"startedAt", r.StartedAt.UTC().Format(time.RFC3339),
				"finalizedStops", r.FinalizedStops,
				"totalStops", r.TotalStops)
		}
	}
}
