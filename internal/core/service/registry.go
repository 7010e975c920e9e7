package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// Registry holds the application contexts served concurrently by the gateway.
// A context lives as long as the gateway token issued for it; one whose token
// expired without a logout is evicted on the next Get or Sweep.
type Registry struct {
	runtime *Runtime
	ttl     time.Duration
	now     func() time.Time
	onEvict func(id string)

	mu   sync.RWMutex
	apps map[string]*entry
}

type entry struct {
	app     *App
	expires time.Time
}

// NewRegistry keeps contexts for ttl after they are opened. A ttl of zero
// keeps them until Close.
func NewRegistry(runtime *Runtime, ttl time.Duration) *Registry {
	return &Registry{runtime: runtime, ttl: ttl, now: time.Now, apps: make(map[string]*entry)}
}

// OnEvict registers fn to run for every context dropped because it expired.
func (r *Registry) OnEvict(fn func(id string)) {
	r.mu.Lock()
	r.onEvict = fn
	r.mu.Unlock()
}

// Open creates a fresh logged-out context under a random id.
func (r *Registry) Open() ports.Client {
	app := r.runtime.NewApp(newSessionID())
	e := &entry{app: app}
	if r.ttl > 0 {
		e.expires = r.now().Add(r.ttl)
	}
	r.mu.Lock()
	r.apps[app.ID()] = e
	r.mu.Unlock()
	return app
}

func (r *Registry) Get(id string) (ports.Client, bool) {
	r.mu.RLock()
	e, ok := r.apps[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if r.expired(e, r.now()) {
		r.evict(id, e)
		return nil, false
	}
	return e.app, true
}

// Close forgets the context and stops its background work.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	e, ok := r.apps[id]
	delete(r.apps, id)
	r.mu.Unlock()
	if ok {
		e.app.Shutdown()
	}
}

// Sweep evicts every expired context each interval until ctx is done.
func (r *Registry) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictExpired()
		}
	}
}

// EvictExpired drops the contexts past their expiry and reports how many.
func (r *Registry) EvictExpired() int {
	now := r.now()
	r.mu.RLock()
	stale := make(map[string]*entry)
	for id, e := range r.apps {
		if r.expired(e, now) {
			stale[id] = e
		}
	}
	r.mu.RUnlock()

	n := 0
	for id, e := range stale {
		if r.evict(id, e) {
			n++
		}
	}
	return n
}

// Len reports how many contexts are open.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.apps)
}

func (r *Registry) expired(e *entry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// evict removes e unless Close or another eviction got there first.
func (r *Registry) evict(id string, e *entry) bool {
	r.mu.Lock()
	if r.apps[id] != e {
		r.mu.Unlock()
		return false
	}
	delete(r.apps, id)
	hook := r.onEvict
	r.mu.Unlock()

	e.app.Shutdown()
	r.runtime.deps.Logger.Info().Str("session_id", id).Msg("session context expired")
	if hook != nil {
		hook(id)
	}
	return true
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
