package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingJob struct {
	name string
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(_ context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_RunsRegisteredJobOnInterval(t *testing.T) {
	sched := NewScheduler(DefaultSchedulerConfig(), zap.NewNop())
	job := &countingJob{name: "sweep"}
	sched.Register(job, 10*time.Millisecond)

	require.NoError(t, sched.Start(context.Background()))
	t.Cleanup(func() { _ = sched.Stop(context.Background()) })

	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_RunNow(t *testing.T) {
	sched := NewScheduler(DefaultSchedulerConfig(), zap.NewNop())
	job := &countingJob{name: "sweep"}
	sched.Register(job, time.Hour)

	require.NoError(t, sched.Start(context.Background()))
	t.Cleanup(func() { _ = sched.Stop(context.Background()) })

	require.NoError(t, sched.RunNow(context.Background(), "sweep"))
	assert.Equal(t, int32(1), job.runs.Load())

	err := sched.RunNow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestScheduler_RunNowRequiresRunningScheduler(t *testing.T) {
	sched := NewScheduler(DefaultSchedulerConfig(), zap.NewNop())
	sched.Register(&countingJob{name: "sweep"}, time.Hour)

	err := sched.RunNow(context.Background(), "sweep")
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_JobErrorDoesNotStopLoop(t *testing.T) {
	sched := NewScheduler(DefaultSchedulerConfig(), zap.NewNop())
	job := &countingJob{name: "sweep", err: errors.New("boom")}
	sched.Register(job, 10*time.Millisecond)

	require.NoError(t, sched.Start(context.Background()))
	t.Cleanup(func() { _ = sched.Stop(context.Background()) })

	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopIsGraceful(t *testing.T) {
	sched := NewScheduler(DefaultSchedulerConfig(), zap.NewNop())
	sched.Register(&countingJob{name: "sweep"}, 10*time.Millisecond)

	require.NoError(t, sched.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(stopCtx))
}
