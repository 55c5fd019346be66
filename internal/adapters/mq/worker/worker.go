// Package worker runs per-frame analysis jobs off the queue.
//
// Frames do not depend on each other, so any number of workers may process
// them. Results carry their sequence number and frame number, and callers
// sort them once the pool has drained.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/pitchlane/internal/adapters/mq/queue"
	"github.com/okian/pitchlane/internal/domain/model"
	"github.com/okian/pitchlane/pkg/logger"
	"github.com/okian/pitchlane/pkg/metrics"
)

// Result is the output of one job.
type Result struct {
	Seq      int
	Analysis model.FrameAnalysis
}

// Processor analyses a single frame.
type Processor interface {
	Process(ctx context.Context, f *model.TrackingFrame) (model.FrameAnalysis, error)
}

// Sink receives results. Collect is called from many goroutines.
type Sink interface {
	Collect(ctx context.Context, r Result)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// InMemoryWorker pulls jobs until the queue closes or ctx ends.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	sink      Sink
	name      string
	logger    logger.Logger
	done      chan struct{}
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, p Processor, s Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		processor: p,
		sink:      s,
		name:      "worker",
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes jobs until the queue is closed and drained or ctx ends.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, j); err != nil {
				w.logger.Error(ctx, "error processing frame", logger.Error(err))
			}
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	a, err := w.processor.Process(ctx, j.Frame)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "process_error")
		return fmt.Errorf("frame %d: %w", j.Frame.FrameNum, err)
	}
	w.sink.Collect(ctx, Result{Seq: j.Seq, Analysis: a})
	return nil
}

// Pool manages a fixed set of workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewPool creates a pool. workerCount < 1 uses one worker per CPU.
func NewPool(workerCount int, q Queue, p Processor, s Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range pool.workers {
		pool.workers[i] = NewInMemoryWorker(q, p, s, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start runs every worker in its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has returned, or ctx ends first.
func (p *Pool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "worker pool wait interrupted")
		return fmt.Errorf("waiting for workers: %w", ctx.Err())
	}
}
