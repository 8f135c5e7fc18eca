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

func TestRunOnceExecutesEveryJob(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var first, second atomic.Int32
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		first.Add(1)
		return nil
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		second.Add(1)
		return errors.New("transient")
	})

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, int32(1), second.Load(), "a failing job does not stop the others")
}

func TestStartRunsJobImmediately(t *testing.T) {
	s := NewScheduler()

	ran := make(chan struct{}, 1)
	s.AddJob("sweep", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestStartTwiceDoesNotDuplicateJobs(t *testing.T) {
	s := NewScheduler()

	var runs atomic.Int32
	s.AddJob("sweep", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	s.Start()
	s.Stop()

	require.Equal(t, int32(1), runs.Load())
}

func TestJobPanicIsContained(t *testing.T) {
	s := NewScheduler()

	done := make(chan struct{})
	s.AddJob("panics", time.Hour, func(ctx context.Context) error {
		close(done)
		panic("boom")
	})

	s.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	// Stop must still return: the panicking goroutine recovered and kept its
	// loop alive.
	s.Stop()
}
