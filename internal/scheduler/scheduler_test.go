package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/metrics"
)

type fakeRefresher struct {
	calls   int32
	locale  atomic.Value
	err     error
	release chan struct{}
}

func (f *fakeRefresher) Refresh(ctx context.Context, locale i18n.Locale) error {
	atomic.AddInt32(&f.calls, 1)
	f.locale.Store(locale)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func (f *fakeRefresher) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

func TestNewScheduler_Specs(t *testing.T) {
	s, err := NewScheduler(&fakeRefresher{}, Options{Interval: 15 * time.Minute}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "@every 15m0s", s.Status().Schedule)
	assert.Equal(t, "fr", s.Status().Locale)

	s, err = NewScheduler(&fakeRefresher{}, Options{Schedule: "*/20 * * * *", Interval: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "*/20 * * * *", s.Status().Schedule)

	_, err = NewScheduler(&fakeRefresher{}, Options{Schedule: "every tuesday"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewScheduler(&fakeRefresher{}, Options{}, zap.NewNop())
	assert.Error(t, err)
}

func TestRunNow_RecordsOutcome(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	job := &fakeRefresher{}
	s, err := NewScheduler(job, Options{Interval: time.Hour, Locale: i18n.Arabic, Metrics: m}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.RunNow(context.Background()))
	assert.Equal(t, 1, job.Calls())
	assert.Equal(t, i18n.Arabic, job.locale.Load())

	job.err = errors.New("providers down")
	assert.Error(t, s.RunNow(context.Background()))

	st := s.Status()
	assert.Equal(t, 2, st.Runs)
	assert.Equal(t, "providers down", st.LastError)
	assert.False(t, st.Running)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SchedulerRuns.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SchedulerRuns.WithLabelValues("error")))
}

func TestRunNow_RejectsOverlap(t *testing.T) {
	job := &fakeRefresher{release: make(chan struct{})}
	s, err := NewScheduler(job, Options{Interval: time.Hour}, zap.NewNop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.RunNow(context.Background()) }()
	require.Eventually(t, func() bool { return job.Calls() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, s.Status().InFlight)

	assert.ErrorIs(t, s.RunNow(context.Background()), ErrAlreadyRunning)

	close(job.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, job.Calls())
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	job := &fakeRefresher{}
	s, err := NewScheduler(job, Options{Interval: time.Hour}, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	s.Start()
	require.Eventually(t, func() bool { return job.Calls() == 1 }, time.Second, 5*time.Millisecond)

	st := s.Status()
	assert.True(t, st.Running)
	assert.False(t, st.NextRun.IsZero())

	s.Stop()
	s.Stop()
	assert.False(t, s.Status().Running)
}

func TestForceRun(t *testing.T) {
	job := &fakeRefresher{}
	s, err := NewScheduler(job, Options{Interval: time.Hour}, zap.NewNop())
	require.NoError(t, err)

	s.ForceRun()
	require.Eventually(t, func() bool { return s.Status().Runs == 1 }, time.Second, 5*time.Millisecond)
}

func TestRunNow_TimeoutBoundsRun(t *testing.T) {
	job := &fakeRefresher{release: make(chan struct{})}
	s, err := NewScheduler(job, Options{Interval: time.Hour, Timeout: 20 * time.Millisecond}, zap.NewNop())
	require.NoError(t, err)

	assert.ErrorIs(t, s.RunNow(context.Background()), context.DeadlineExceeded)
	assert.False(t, s.Status().InFlight)
	assert.Equal(t, context.DeadlineExceeded.Error(), s.Status().LastError)
}
