package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/pitchlane/internal/domain/model"
)

func job(seq int) Job {
	return Job{Seq: seq, Frame: &model.TrackingFrame{FrameNum: seq * 10}}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if err := q.Put(ctx, job(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	j := <-q.Dequeue(ctx)
	if j.Seq != 1 || j.Frame.FrameNum != 10 {
		t.Errorf("unexpected job %+v", j)
	}
}

func TestInMemoryQueue_PutWaitsForRoom(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	ctx := context.Background()

	if err := q.Put(ctx, job(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- q.Put(ctx, job(2)) }()

	select {
	case <-done:
		t.Fatal("put should wait while the queue is full")
	case <-time.After(20 * time.Millisecond):
	}

	<-q.Dequeue(ctx)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("put did not resume after room was made")
	}
}

func TestInMemoryQueue_PutCancelled(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1))
	_ = q.Put(context.Background(), job(1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := q.Put(ctx, job(2)); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()
	_ = q.Put(ctx, job(1))
	_ = q.Put(ctx, job(2))

	if err := q.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if err := q.Put(ctx, job(3)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	var seqs []int
	for j := range q.Dequeue(ctx) {
		seqs = append(seqs, j.Seq)
	}
	if len(seqs) != 2 || seqs[0] != 1 || seqs[1] != 2 {
		t.Errorf("expected queued jobs to drain in order, got %v", seqs)
	}
}
