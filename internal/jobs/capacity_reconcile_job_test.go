package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"fastship/internal/jobs"
	"fastship/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recounterStub struct {
	repaired int64
	err      error
	calls    atomic.Int32
}

func (r *recounterStub) RecountActive(context.Context) (int64, error) {
	r.calls.Add(1)
	return r.repaired, r.err
}

func TestCapacityReconcileJob_RunOnce(t *testing.T) {
	t.Run("counts repaired partners", func(t *testing.T) {
		m := metrics.New()
		job, err := jobs.NewCapacityReconcileJob(&recounterStub{repaired: 3}, "", m, zap.NewNop())
		require.NoError(t, err)

		repaired, err := job.RunOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(3), repaired)
		assert.InDelta(t, 3.0, testutil.ToFloat64(m.CapacityCountersRepaired), 0)
	})

	t.Run("consistent counters leave the metric alone", func(t *testing.T) {
		m := metrics.New()
		job, err := jobs.NewCapacityReconcileJob(&recounterStub{}, "", m, zap.NewNop())
		require.NoError(t, err)

		_, err = job.RunOnce(context.Background())

		require.NoError(t, err)
		assert.Zero(t, testutil.ToFloat64(m.CapacityCountersRepaired))
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		boom := errors.New("connection reset")
		m := metrics.New()
		job, err := jobs.NewCapacityReconcileJob(&recounterStub{err: boom}, "", m, zap.NewNop())
		require.NoError(t, err)

		_, err = job.RunOnce(context.Background())

		require.ErrorIs(t, err, boom)
		assert.Zero(t, testutil.ToFloat64(m.CapacityCountersRepaired))
	})
}

func TestCapacityReconcileJob_RejectsInvalidSchedule(t *testing.T) {
	_, err := jobs.NewCapacityReconcileJob(&recounterStub{}, "every now and then", metrics.New(), zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid reconcile schedule")
}

func TestJobManager_RunsOnSchedule(t *testing.T) {
	stub := &recounterStub{repaired: 1}
	m := metrics.New()
	manager, err := jobs.NewJobManager(stub, "@every 1s", m, zap.NewNop())
	require.NoError(t, err)

	manager.StartAll()
	require.Eventually(t, func() bool { return stub.calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)
	manager.StopAll()

	calls := stub.calls.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, calls, stub.calls.Load())
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.CapacityCountersRepaired), 1.0)
}
