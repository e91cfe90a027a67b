// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OrderBacklogJob - counts Unassigned orders and exports the number as the
// dispatch_unassigned_orders gauge
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(countHandler, metrics.UnassignedOrders, cfg.BacklogJobSchedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron syntax with seconds. The backlog job
// defaults to "*/15 * * * * *".
//
// # Error Handling
//
// Failed samples are logged and leave the gauge at its previous value.
package jobs
