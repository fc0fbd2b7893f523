package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunOnceCountsFailures(t *testing.T) {
	s := NewScheduler()

	var calls int32
	s.AddJob(Job{Name: "ok", Interval: time.Hour, Fn: func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}})
	s.AddJob(Job{Name: "broken", Interval: time.Hour, Fn: func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}})

	failed := s.RunOnce(context.Background())

	assert.Equal(t, 1, failed)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScheduler_SkipsNonPositiveInterval(t *testing.T) {
	s := NewScheduler()
	s.AddJob(Job{Name: "disabled", Interval: 0, Fn: func(ctx context.Context) error { return nil }})

	assert.Equal(t, 0, s.RunOnce(context.Background()))
	assert.Empty(t, s.jobs)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()

	ran := make(chan struct{}, 1)
	s.AddJob(Job{Name: "tick", Interval: time.Hour, Fn: func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestScheduler_TimeoutBoundsRun(t *testing.T) {
	s := NewScheduler()

	s.AddJob(Job{Name: "slow", Interval: time.Hour, Timeout: 10 * time.Millisecond, Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	assert.Equal(t, 1, s.RunOnce(context.Background()))
}
