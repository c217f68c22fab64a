package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"routing/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleRouteMonitorJob *StaleRouteMonitorJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	getActiveRoutesHandler queries.GetActiveRoutesQueryHandler,
	staleAfter time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleRouteMonitorJob: NewStaleRouteMonitorJob(getActiveRoutesHandler, staleAfter, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleRouteMonitorJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale route monitor job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleRouteMonitorJob.Stop()
}
