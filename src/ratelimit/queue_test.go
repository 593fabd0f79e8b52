package ratelimit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteRunsFunction(t *testing.T) {
	q := NewQueue(1, 4)
	ran := false
	err := q.Execute(context.Background(), "", func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Zero(t, q.Pending())
}

func TestConcurrencyBoundedByWorkers(t *testing.T) {
	q := NewQueue(2, 16)
	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = q.Execute(context.Background(), "", func(context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestBackpressureRejectsNormalPriority(t *testing.T) {
	q := NewQueue(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = q.Execute(context.Background(), "", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := q.Execute(context.Background(), "", func(context.Context) error { return nil })
	require.ErrorIs(t, err, ErrBackpressure)
	close(release)
}

func TestHighPriorityBypassesPendingCap(t *testing.T) {
	q := NewQueue(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = q.Execute(context.Background(), "", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	done := make(chan error, 1)
	go func() {
		done <- q.Execute(context.Background(), PriorityHigh, func(context.Context) error { return nil })
	}()
	// The high priority call must be queued, not rejected.
	select {
	case err := <-done:
		t.Fatalf("high priority call finished before slot freed: %v", err)
	case <-time.After(30 * time.Millisecond):
	}
	close(release)
	require.NoError(t, <-done)
}

func TestCancelledContextAbortsWait(t *testing.T) {
	q := NewQueue(1, 4)
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = q.Execute(context.Background(), "", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := q.Execute(ctx, "", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	close(release)
}
