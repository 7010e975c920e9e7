package service

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned when a screen load finished after it was superseded by
// a newer load or after the screen was left. Its results must be dropped.
var ErrStale = errors.New("stale screen load")

// Loader guards the loads of one mounted screen with a generation counter.
// Starting a load cancels the previous one; Unmount cancels whatever is in
// flight.
type Loader struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Run executes fn with a context that is cancelled when the load is
// superseded. It returns ErrStale in that case, whatever fn returned.
func (l *Loader) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	lctx, gen := l.begin(ctx)
	err := fn(lctx)
	if !l.finish(gen) {
		return ErrStale
	}
	return err
}

// Unmount invalidates every load in flight.
func (l *Loader) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loader) begin(parent context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	ctx, cancel := context.WithCancel(parent)
	l.cancel = cancel
	return ctx, l.gen
}

func (l *Loader) finish(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	l.cancel()
	l.cancel = nil
	return true
}
