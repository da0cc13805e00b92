package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type funcJob struct {
	name string
	run  func(ctx context.Context) error
}

func (j *funcJob) Name() string                  { return j.name }
func (j *funcJob) Run(ctx context.Context) error { return j.run(ctx) }

type mockMarker struct {
	mock.Mock
}

func (m *mockMarker) MarkOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type countingPurger struct {
	calls   int
	removed int
	at      time.Time
}

func (p *countingPurger) Purge(now time.Time) int {
	p.calls++
	p.at = now
	return p.removed
}

func TestScheduler_Register(t *testing.T) {
	s := New(DefaultConfig(), zap.NewNop())
	job := &funcJob{name: "noop", run: func(context.Context) error { return nil }}

	t.Run("accepts five-field and descriptor specs", func(t *testing.T) {
		require.NoError(t, s.Register("*/5 * * * *", job))
		require.NoError(t, s.Register("@hourly", &funcJob{name: "hourly", run: job.run}))
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		err := s.Register("@daily", job)
		assert.ErrorIs(t, err, ErrDuplicateJob)
	})

	t.Run("rejects invalid specs", func(t *testing.T) {
		err := s.Register("every minute", &funcJob{name: "bad", run: job.run})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects registration after start", func(t *testing.T) {
		s.Start()
		defer s.Stop(context.Background())

		err := s.Register("@daily", &funcJob{name: "late", run: job.run})
		assert.ErrorIs(t, err, ErrSchedulerRunning)
	})
}

func TestScheduler_RunNowRecordsState(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := New(Config{JobTimeout: time.Second}, zap.New(core))

	var fail atomic.Bool
	job := &funcJob{name: "flaky", run: func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		if !hasDeadline {
			return errors.New("missing job timeout")
		}
		if fail.Load() {
			return errors.New("db down")
		}
		return nil
	}}
	require.NoError(t, s.Register("@hourly", job))

	require.NoError(t, s.RunNow(context.Background(), "flaky"))
	fail.Store(true)
	require.Error(t, s.RunNow(context.Background(), "flaky"))

	states := s.States()
	require.Len(t, states, 1)
	assert.Equal(t, JobStatusFailed, states[0].Status)
	assert.Equal(t, "db down", states[0].LastError)
	assert.Equal(t, 2, states[0].RunCount)
	assert.Equal(t, 1, states[0].ErrorCount)
	assert.NotNil(t, states[0].LastRunAt)
	assert.Equal(t, 1, logs.FilterMessage("Job failed").Len())

	assert.ErrorIs(t, s.RunNow(context.Background(), "missing"), ErrJobNotFound)
}

func TestScheduler_StopCancelsRunningJobs(t *testing.T) {
	s := New(Config{}, nil)
	started := make(chan struct{})
	job := &funcJob{name: "blocking", run: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}}
	require.NoError(t, s.Register("@every 10ms", job))
	s.Start()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.NoError(t, s.Stop(ctx), "second stop is a no-op")
}

func TestOverdueInvoiceJob(t *testing.T) {
	marker := &mockMarker{}
	marker.On("MarkOverdue", mock.Anything).Return(3, nil).Once()
	marker.On("MarkOverdue", mock.Anything).Return(0, errors.New("query failed")).Once()

	job := NewOverdueInvoiceJob(marker, nil)
	assert.Equal(t, OverdueInvoiceJobName, job.Name())

	assert.NoError(t, job.Run(context.Background()))
	assert.EqualError(t, job.Run(context.Background()), "query failed")
	marker.AssertExpectations(t)
}

func TestExpiredEntryPurgeJob(t *testing.T) {
	otp := &countingPurger{removed: 2}
	tokens := &countingPurger{removed: 1}
	job := NewExpiredEntryPurgeJob(nil, otp, nil, tokens)

	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, otp.calls)
	assert.Equal(t, 1, tokens.calls)
	assert.Equal(t, fixed, otp.at)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, job.Run(ctx), context.Canceled)
	assert.Equal(t, 1, otp.calls, "cancelled run does not purge")
}
