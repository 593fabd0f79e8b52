// Package ratelimit serializes outbound paid API calls through a bounded
// queue. Callers block on a worker slot; when too many calls are already
// waiting the queue rejects instead of growing without bound.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrBackpressure means the queue is full and the call was rejected.
var ErrBackpressure = errors.New("queue backpressure")

// PriorityHigh marks calls that may exceed the pending cap (user-facing
// requests); everything else is treated as normal priority.
const PriorityHigh = "high"

// Queue admits at most `workers` concurrent calls and at most `maxPending`
// waiters. An optional redis-backed window additionally caps admissions per
// second across processes.
type Queue struct {
	slots      chan struct{}
	maxPending int

	mu      sync.Mutex
	pending int

	rdb        *redis.Client
	windowRate int
	window     time.Duration
}

func NewQueue(workers, maxPending int) *Queue {
	if workers <= 0 {
		workers = 2
	}
	if maxPending <= 0 {
		maxPending = 32
	}
	return &Queue{
		slots:      make(chan struct{}, workers),
		maxPending: maxPending,
	}
}

// WithRedisWindow enables a shared admission window: at most rate calls per
// window across every process pointing at the same redis.
func (q *Queue) WithRedisWindow(rdb *redis.Client, rate int, window time.Duration) *Queue {
	q.rdb = rdb
	q.windowRate = rate
	q.window = window
	return q
}

// Execute runs fn once a worker slot is free. Normal-priority calls are
// rejected with ErrBackpressure when the pending count is at the cap; high
// priority calls always wait. Context cancellation aborts the wait.
func (q *Queue) Execute(ctx context.Context, priority string, fn func(context.Context) error) error {
	q.mu.Lock()
	if priority != PriorityHigh && q.pending >= q.maxPending {
		q.mu.Unlock()
		return fmt.Errorf("%d calls pending: %w", q.maxPending, ErrBackpressure)
	}
	q.pending++
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.pending--
		q.mu.Unlock()
	}()

	select {
	case q.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-q.slots }()

	if err := q.admitWindow(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

// Pending reports how many calls hold or wait for a slot.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}

func (q *Queue) admitWindow(ctx context.Context) error {
	if q.rdb == nil || q.windowRate <= 0 {
		return nil
	}
	bucket := time.Now().UTC().Truncate(q.window).Unix()
	key := fmt.Sprintf("ratelimit:window:%d", bucket)
	n, err := q.rdb.Incr(ctx, key).Result()
	if err != nil {
		// A dead redis never blocks local work.
		log.Printf("ratelimit: window counter unavailable: %v", err)
		return nil
	}
	if n == 1 {
		q.rdb.Expire(ctx, key, q.window+time.Second)
	}
	if n > int64(q.windowRate) {
		return fmt.Errorf("window of %d per %v full: %w", q.windowRate, q.window, ErrBackpressure)
	}
	return nil
}
