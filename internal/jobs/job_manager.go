package jobs

import (
	"fastship/internal/pkg/metrics"

	"go.uber.org/zap"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	capacityReconcileJob *CapacityReconcileJob
}

// NewJobManager builds every job. It fails when a schedule cannot be parsed.
func NewJobManager(
	recounter CapacityRecounter,
	reconcileSchedule string,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*JobManager, error) {
	reconcile, err := NewCapacityReconcileJob(recounter, reconcileSchedule, m, logger)
	if err != nil {
		return nil, err
	}
	return &JobManager{capacityReconcileJob: reconcile}, nil
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() {
	jm.capacityReconcileJob.Start()
}

// StopAll stops all scheduled jobs and waits for running ones.
func (jm *JobManager) StopAll() {
	jm.capacityReconcileJob.Stop()
}
