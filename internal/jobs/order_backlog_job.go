package jobs

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"dispatch/internal/core/application/usecases/queries"
)

// DefaultBacklogSchedule samples the backlog every fifteen seconds.
const DefaultBacklogSchedule = "*/15 * * * * *"

// OrderBacklogJob periodically counts orders that no worker has claimed yet
// and exports the number as a gauge.
type OrderBacklogJob struct {
	handler  queries.CountUnassignedOrdersQueryHandler
	gauge    prometheus.Gauge
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOrderBacklogJob creates the job. An empty schedule selects DefaultBacklogSchedule.
// The schedule uses the six-field cron syntax with seconds.
func NewOrderBacklogJob(
	handler queries.CountUnassignedOrdersQueryHandler,
	gauge prometheus.Gauge,
	schedule string,
	logger *slog.Logger,
) *OrderBacklogJob {
	if schedule == "" {
		schedule = DefaultBacklogSchedule
	}
	return &OrderBacklogJob{
		handler:  handler,
		gauge:    gauge,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "order_backlog_job"),
	}
}

// Start registers the job with its schedule and starts the scheduler.
func (j *OrderBacklogJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.RunOnce(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order backlog job started", "schedule", j.schedule)
	return nil
}

// RunOnce samples the backlog a single time.
func (j *OrderBacklogJob) RunOnce(ctx context.Context) error {
	count, err := j.handler.Handle(ctx, queries.NewCountUnassignedOrdersQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Order backlog job failed", "error", err)
		return err
	}

	j.gauge.Set(float64(count))
	j.logger.DebugContext(ctx, "Order backlog sampled", "unassigned", count)
	return nil
}

// Stop stops the scheduler and waits for a running sample to finish.
func (j *OrderBacklogJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Order backlog job stopped")
}
