// Package dedupe tracks frame numbers that have already entered a run.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen frame numbers to ensure each frame is analysed once.
type Deduper interface {
	// SeenAndRecord atomically checks whether frameNum was seen and records it
	// if not. It returns true when frameNum was already recorded.
	SeenAndRecord(ctx context.Context, frameNum int) bool
}

type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[int]struct{}
}

// NewInMemoryDeduper creates a new in-memory deduper. It never forgets a
// frame number, since a single match fits comfortably in memory.
func NewInMemoryDeduper() Deduper {
	return &inMemoryDeduper{seen: make(map[int]struct{})}
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, frameNum int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[frameNum]; ok {
		return true
	}
	d.seen[frameNum] = struct{}{}
	return false
}
