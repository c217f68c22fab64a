// Package jobs provides scheduled background tasks for the routing system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations around route execution.
//
// # Available Jobs
//
// 1. StaleRouteMonitorJob - Runs every minute and logs routes that have been
// InProgress longer than the configured threshold. Diagnostics only.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(getActiveRoutesHandler, staleAfter, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
package jobs
