package view

import (
	"sync"
	"time"
)

// Registry holds one Dashboard per admin.
type Registry struct {
	mu     sync.RWMutex
	src    Source
	size   int
	now    func() time.Time
	boards map[string]*Dashboard
}

// NewRegistry creates dashboards over src with the given page size.
func NewRegistry(src Source, pageSize int, now func() time.Time) *Registry {
	return &Registry{
		src:    src,
		size:   pageSize,
		now:    now,
		boards: make(map[string]*Dashboard),
	}
}

// Open returns the admin's dashboard, creating it on first use.
func (r *Registry) Open(adminID string) *Dashboard {
	r.mu.RLock()
	d, ok := r.boards[adminID]
	r.mu.RUnlock()
	if ok {
		return d
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.boards[adminID]; ok {
		return d
	}
	d = NewDashboard(r.src, r.size, r.now)
	r.boards[adminID] = d
	return d
}

// Close discards the admin's dashboard.
func (r *Registry) Close(adminID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.boards, adminID)
}

// Refresh re-derives every open dashboard.
func (r *Registry) Refresh() {
	r.mu.RLock()
	boards := make([]*Dashboard, 0, len(r.boards))
	for _, d := range r.boards {
		boards = append(boards, d)
	}
	r.mu.RUnlock()

	for _, d := range boards {
		d.Refresh()
	}
}

// Len returns the number of open dashboards.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.boards)
}
