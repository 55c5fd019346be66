// Package queue carries frame jobs from the analysis run to the worker pool.
package queue

import (
	"context"
	"sync"

	"github.com/okian/pitchlane/internal/domain/model"
	"github.com/okian/pitchlane/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 4096
)

// Job is one frame to analyse. Seq is the position of the frame in the
// analysed selection and lets the caller restore order afterwards.
type Job struct {
	Seq   int
	Frame *model.TrackingFrame
}

// Queue provides blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Put adds a job, waiting for room. Returns ErrClosed after Close and
	// the context error if ctx ends first.
	Put(ctx context.Context, j Job) error

	// Dequeue returns the channel workers read from. It is closed once the
	// queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Job

	// Close stops accepting jobs. Jobs already queued are still delivered.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of queued jobs.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

func (q *InMemoryQueue) Put(ctx context.Context, j Job) error {
	// The read lock is held while waiting so Close cannot close the channel
	// under a pending send.
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected("closed")
		return ErrClosed
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.jobs))
		return nil
	case <-ctx.Done():
		metrics.RecordQueueRejected("context_cancelled")
		return ctx.Err()
	}
}

func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Job {
	return q.jobs
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}
