package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunExecutesImmediatelyAndOnTick(t *testing.T) {
	s := NewScheduler(nil)
	var calls atomic.Int32
	s.AddJob("count", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestScheduler_RunRejectsNonPositiveInterval(t *testing.T) {
	s := NewScheduler(nil)
	s.AddJob("broken", 0, func(ctx context.Context) error { return nil })

	err := s.Run(context.Background())
	assert.Error(t, err)
}

func TestScheduler_RunOnceJoinsErrorsAndRecoversPanics(t *testing.T) {
	s := NewScheduler(nil)
	boom := errors.New("boom")
	var ran atomic.Int32

	s.AddJob("fails", time.Minute, func(ctx context.Context) error { return boom })
	s.AddJob("panics", time.Minute, func(ctx context.Context) error { panic("bad") })
	s.AddJob("ok", time.Minute, func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, int32(1), ran.Load())
}

type countingRotator struct {
	calls atomic.Int32
	err   error
}

func (r *countingRotator) RotateQRCodes(ctx context.Context) (int, error) {
	r.calls.Add(1)
	return 2, r.err
}

func TestQRCodeJobs_RegisterAndRun(t *testing.T) {
	rotator := &countingRotator{}
	s := NewScheduler(nil)
	NewQRCodeJobs(rotator, time.Minute).RegisterJobs(s)

	require.Len(t, s.jobs, 1)
	assert.Equal(t, "rotate_qr_codes", s.jobs[0].Name)
	assert.Equal(t, time.Minute, s.jobs[0].Interval)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, int32(1), rotator.calls.Load())

	rotator.err = errors.New("db down")
	assert.ErrorIs(t, s.RunOnce(context.Background()), rotator.err)
}
