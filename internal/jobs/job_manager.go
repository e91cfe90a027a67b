package jobs

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"dispatch/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderBacklogJob *OrderBacklogJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	countUnassignedHandler queries.CountUnassignedOrdersQueryHandler,
	backlogGauge prometheus.Gauge,
	backlogSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		orderBacklogJob: NewOrderBacklogJob(countUnassignedHandler, backlogGauge, backlogSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderBacklogJob.Start(); err != nil {
		return fmt.Errorf("failed to start order backlog job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.orderBacklogJob.Stop()
}
