// Package repository holds the frame store an analysis run reads from.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/pitchlane/internal/domain/dedupe"
	"github.com/okian/pitchlane/internal/domain/model"
	"github.com/okian/pitchlane/pkg/metrics"
)

// FrameStore supplies frames in stream order and by frame number.
type FrameStore interface {
	// Append adds f to the end of the stream.
	// Returns ErrDuplicateFrame if its frame number is already stored.
	Append(ctx context.Context, f model.TrackingFrame) error

	// Frames returns every stored frame in stream order. Callers must treat
	// the result as read-only.
	Frames(ctx context.Context) []model.TrackingFrame

	// Select returns the stored frames whose numbers are listed, in the
	// order given. Unknown numbers are skipped.
	Select(ctx context.Context, frameNums []int) []model.TrackingFrame

	// Len returns the number of stored frames.
	Len(ctx context.Context) int
}

// MemoryStore keeps the whole match in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	frames  []model.TrackingFrame
	index   map[int]int
	deduper dedupe.Deduper
}

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity preallocates room for n frames.
func WithCapacity(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.frames = make([]model.TrackingFrame, 0, n)
			s.index = make(map[int]int, n)
		}
	}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		index:   make(map[int]int),
		deduper: dedupe.NewInMemoryDeduper(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Append(ctx context.Context, f model.TrackingFrame) error {
	if s.deduper.SeenAndRecord(ctx, f.FrameNum) {
		metrics.RecordFrameDuplicate()
		return fmt.Errorf("%w: %d", ErrDuplicateFrame, f.FrameNum)
	}

	// Own the player slice so later edits by the caller cannot leak in.
	f.Players = append([]model.PlayerObservation(nil), f.Players...)
	if f.Ball != nil {
		b := *f.Ball
		f.Ball = &b
	}

	s.mu.Lock()
	s.index[f.FrameNum] = len(s.frames)
	s.frames = append(s.frames, f)
	s.mu.Unlock()

	metrics.RecordFrameIngested()
	return nil
}

func (s *MemoryStore) Frames(_ context.Context) []model.TrackingFrame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames[:len(s.frames):len(s.frames)]
}

func (s *MemoryStore) Select(_ context.Context, frameNums []int) []model.TrackingFrame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TrackingFrame, 0, len(frameNums))
	for _, n := range frameNums {
		if i, ok := s.index[n]; ok {
			out = append(out, s.frames[i])
		}
	}
	return out
}

func (s *MemoryStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}
