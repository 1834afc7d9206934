package jobs

import (
	"context"
	"fmt"
	"time"

	"fastship/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultReconcileSchedule runs the reconciliation every five minutes.
const DefaultReconcileSchedule = "@every 5m"

const reconcileTimeout = time.Minute

// CapacityRecounter recomputes partner reservation counters and reports how
// many of them were wrong.
type CapacityRecounter interface {
	RecountActive(ctx context.Context) (int64, error)
}

// CapacityReconcileJob periodically repairs partner reservation counters.
type CapacityReconcileJob struct {
	recounter CapacityRecounter
	schedule  string
	cron      *cron.Cron
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewCapacityReconcileJob validates schedule and returns a stopped job.
func NewCapacityReconcileJob(
	recounter CapacityRecounter,
	schedule string,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*CapacityReconcileJob, error) {
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}

	j := &CapacityReconcileJob{
		recounter: recounter,
		schedule:  schedule,
		cron:      cron.New(),
		metrics:   m,
		logger:    logger.With(zap.String("component", "capacity_reconcile_job")),
	}
	if _, err := j.cron.AddFunc(schedule, j.run); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start begins running the job on its schedule.
func (j *CapacityReconcileJob) Start() {
	j.cron.Start()
	j.logger.Info("Capacity reconcile job started", zap.String("schedule", j.schedule))
}

// Stop prevents further runs and waits for a running one to finish.
func (j *CapacityReconcileJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Capacity reconcile job stopped")
}

// RunOnce performs a single reconciliation and returns the number of repaired counters.
func (j *CapacityReconcileJob) RunOnce(ctx context.Context) (int64, error) {
	repaired, err := j.recounter.RecountActive(ctx)
	if err != nil {
		return 0, err
	}

	if repaired > 0 {
		j.metrics.CapacityCountersRepaired.Add(float64(repaired))
		j.logger.Warn("Repaired drifted partner capacity counters", zap.Int64("partners", repaired))
	}
	return repaired, nil
}

func (j *CapacityReconcileJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Error("Capacity reconcile job failed", zap.Error(err))
	}
}
