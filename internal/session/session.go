// Package session binds browser cookies to portfolio views.
//
// Each page load starts a fresh view; the fragment requests and the viewport
// socket that follow find it again through the session id cookie.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

// CookieName is the cookie carrying the session id.
const CookieName = "portfolio_session"

// Factory builds the view for a new page load.
type Factory func() *portfolio.View

type entry struct {
	view     *portfolio.View
	lastSeen time.Time
}

// Registry holds the live views.
type Registry struct {
	mu      sync.Mutex
	views   map[string]*entry
	factory Factory
	ttl     time.Duration
	now     func() time.Time
}

// NewRegistry returns a registry that drops views idle for longer than ttl.
func NewRegistry(factory Factory, ttl time.Duration) *Registry {
	return &Registry{
		views:   make(map[string]*entry),
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Start begins a fresh view. A non-empty, well-formed id is reused so the
// browser keeps its cookie across reloads; the view itself is always new.
func (r *Registry) Start(id string) (string, *portfolio.View) {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	view := r.factory()

	r.mu.Lock()
	r.views[id] = &entry{view: view, lastSeen: r.now()}
	r.mu.Unlock()
	return id, view
}

// Get returns the view for id and marks it used.
func (r *Registry) Get(id string) (*portfolio.View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.view, true
}

// Len reports the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep drops idle views and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, e := range r.views {
		if e.lastSeen.Before(cutoff) {
			delete(r.views, id)
			removed++
		}
	}
	return removed
}

// Janitor sweeps every interval until ctx is done.
func (r *Registry) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("session: expired %d idle views", n)
			}
		}
	}
}
