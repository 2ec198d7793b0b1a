package workflow

import (
	"context"
	"sync"
	"time"
)

// Registry keeps one Workflow per browser session, keyed by the session token.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	factory func() *Workflow
	now     func() time.Time
}

type registryEntry struct {
	workflow *Workflow
	lastSeen time.Time
}

func NewRegistry(factory func() *Workflow) *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the workflow of token, creating it on first use.
func (r *Registry) Get(token string) *Workflow {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[token]
	if !ok {
		entry = &registryEntry{workflow: r.factory()}
		r.entries[token] = entry
	}

	entry.lastSeen = r.now()

	return entry.workflow
}

// Rename moves a workflow to a new token after the session token was renewed.
func (r *Registry) Rename(oldToken, newToken string) {
	if oldToken == newToken || oldToken == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[oldToken]
	if !ok {
		return
	}

	delete(r.entries, oldToken)
	entry.lastSeen = r.now()
	r.entries[newToken] = entry
}

func (r *Registry) Forget(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, token)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Sweep drops workflows that have not been used for longer than idle and
// returns how many were removed. Workflows with a backend call in flight are
// kept.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0

	for token, entry := range r.entries {
		if entry.lastSeen.After(cutoff) || entry.workflow.Busy() {
			continue
		}

		delete(r.entries, token)
		removed++
	}

	return removed
}

// Run sweeps the registry every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration, swept func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := r.Sweep(idle)
			if removed > 0 && swept != nil {
				swept(removed)
			}
		}
	}
}
