package view

import (
	"errors"
	"sync"
	"time"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/stats"
)

var ErrInvalidStatus = errors.New("invalid status filter")

// Source supplies the current mirror contents.
type Source interface {
	Snapshot() []*domain.User
}

// Frame is what a dashboard renders after a change. Table is nil when the
// users section is hidden.
type Frame struct {
	Section domain.Section `json:"section"`
	Title   string         `json:"title"`
	Filter  Filter         `json:"filter"`
	Stats   stats.Summary  `json:"stats"`
	Table   *Page          `json:"table,omitempty"`
}

// Dashboard is the view state of one admin session: filter inputs, current
// page, visible section and the filtered view derived from the mirror.
type Dashboard struct {
	mu       sync.Mutex
	src      Source
	now      func() time.Time
	size     int
	filter   Filter
	page     int
	section  domain.Section
	filtered []*domain.User
}

// NewDashboard opens on the overview section, page 1, with no filter.
func NewDashboard(src Source, pageSize int, now func() time.Time) *Dashboard {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if now == nil {
		now = time.Now
	}
	d := &Dashboard{
		src:     src,
		now:     now,
		size:    pageSize,
		page:    1,
		section: domain.SectionOverview,
	}
	d.filtered = Apply(src.Snapshot(), d.filter, now())
	return d
}

// SetFilter replaces both filter inputs and returns to page 1.
func (d *Dashboard) SetFilter(f Filter) error {
	if !f.Status.Valid() {
		return ErrInvalidStatus
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filter = f
	d.page = 1
	d.recompute()
	return nil
}

// Filter returns the current filter inputs.
func (d *Dashboard) Filter() Filter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// GoToPage moves to page when it exists and reports whether it moved.
func (d *Dashboard) GoToPage(page int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.goTo(page)
}

// ChangePage steps by delta pages; out-of-range targets are ignored.
func (d *Dashboard) ChangePage(delta int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.goTo(d.page + delta)
}

func (d *Dashboard) goTo(page int) bool {
	if page < 1 || page > TotalPages(len(d.filtered), d.size) {
		return false
	}
	d.page = page
	return true
}

// Refresh re-derives the filtered view from the mirror and clamps the page.
func (d *Dashboard) Refresh() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recompute()
}

func (d *Dashboard) recompute() {
	d.filtered = Apply(d.src.Snapshot(), d.filter, d.now())
	d.page = Clamp(d.page, len(d.filtered), d.size)
}

// Table returns the current page window.
func (d *Dashboard) Table() Page {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Paginate(d.filtered, d.page, d.size)
}

// Filtered returns the whole filtered view, as exported to CSV.
func (d *Dashboard) Filtered() []*domain.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*domain.User, len(d.filtered))
	copy(out, d.filtered)
	return out
}

// ShowSection switches the visible section. Entering the users section
// reloads the table.
func (d *Dashboard) ShowSection(s domain.Section) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.section = s
	if s == domain.SectionUsers {
		d.recompute()
	}
}

// Section returns the visible section.
func (d *Dashboard) Section() domain.Section {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.section
}

// Frame assembles the render state. The table is included when withTable is
// set or the users section is visible.
func (d *Dashboard) Frame(summary stats.Summary, withTable bool) Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := Frame{
		Section: d.section,
		Title:   d.section.Title(),
		Filter:  d.filter,
		Stats:   summary,
	}
	if withTable || d.section == domain.SectionUsers {
		p := Paginate(d.filtered, d.page, d.size)
		f.Table = &p
	}
	return f
}
