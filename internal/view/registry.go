package view

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fixora/backoffice/internal/domain"
)

// Registry tracks open log views by ID
type Registry struct {
	mu          sync.RWMutex
	views       map[string]*LogView
	pageSize    int
	searchDelay time.Duration
	now         func() time.Time
}

// NewRegistry creates an empty registry. New views use pageSize and
// searchDelay.
func NewRegistry(pageSize int, searchDelay time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		views:       make(map[string]*LogView),
		pageSize:    pageSize,
		searchDelay: searchDelay,
		now:         now,
	}
}

// Create opens a new view
func (r *Registry) Create() *LogView {
	v := NewLogView(uuid.NewString(), r.pageSize, r.searchDelay, r.now)

	r.mu.Lock()
	r.views[v.ID()] = v
	r.mu.Unlock()

	return v
}

// Get returns the view with id
func (r *Registry) Get(id string) (*LogView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.views[id]
	if !ok {
		return nil, domain.ErrViewNotFound
	}
	return v, nil
}

// Remove closes and forgets the view with id
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if !ok {
		return domain.ErrViewNotFound
	}
	v.Close()
	return nil
}

// Len returns the number of open views
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Expire closes views idle for longer than maxIdle and returns how many
// were removed
func (r *Registry) Expire(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*LogView
	for id, v := range r.views {
		if v.IdleSince().Before(cutoff) {
			stale = append(stale, v)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range stale {
		v.Close()
	}
	return len(stale)
}
