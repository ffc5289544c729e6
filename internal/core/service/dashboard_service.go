package service

import (
	"io"
	"time"

	"github.com/dashblogger/admin-console/internal/api/metrics"
	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/export"
	"github.com/dashblogger/admin-console/internal/core/mirror"
	"github.com/dashblogger/admin-console/internal/core/stats"
	"github.com/dashblogger/admin-console/internal/core/view"
)

// DashboardService exposes the per-admin view state over the shared mirror.
type DashboardService struct {
	mirror *mirror.Mirror
	boards *view.Registry
	now    func() time.Time
}

func NewDashboardService(m *mirror.Mirror, pageSize int) *DashboardService {
	now := time.Now
	return &DashboardService{
		mirror: m,
		boards: view.NewRegistry(m, pageSize, now),
		now:    now,
	}
}

// Stats computes the summary over the whole mirror.
func (s *DashboardService) Stats() stats.Summary {
	return stats.Compute(s.mirror.Snapshot(), s.now())
}

func (s *DashboardService) Report(kind stats.ReportKind) (stats.Report, error) {
	return stats.Generate(kind, s.mirror.Snapshot(), s.now())
}

func (s *DashboardService) Frame(adminID string, withTable bool) view.Frame {
	return s.open(adminID).Frame(s.Stats(), withTable)
}

func (s *DashboardService) SetFilter(adminID string, f view.Filter) (view.Frame, error) {
	d := s.open(adminID)
	if err := d.SetFilter(f); err != nil {
		return view.Frame{}, err
	}
	return d.Frame(s.Stats(), true), nil
}

func (s *DashboardService) GoToPage(adminID string, page int) (view.Frame, bool) {
	d := s.open(adminID)
	moved := d.GoToPage(page)
	return d.Frame(s.Stats(), true), moved
}

func (s *DashboardService) ChangePage(adminID string, delta int) (view.Frame, bool) {
	d := s.open(adminID)
	moved := d.ChangePage(delta)
	return d.Frame(s.Stats(), true), moved
}

func (s *DashboardService) ShowSection(adminID string, sec domain.Section) view.Frame {
	d := s.open(adminID)
	d.ShowSection(sec)
	return d.Frame(s.Stats(), false)
}

// Shortcut resolves an Alt+digit key press; unbound keys leave the section
// unchanged.
func (s *DashboardService) Shortcut(adminID, code string, alt, ctrl, shift bool) (view.Frame, bool) {
	sec, ok := domain.SectionForShortcut(code, alt, ctrl, shift)
	if !ok {
		return s.Frame(adminID, false), false
	}
	return s.ShowSection(adminID, sec), true
}

func (s *DashboardService) Close(adminID string) {
	s.boards.Close(adminID)
	metrics.OpenDashboards.Set(float64(s.boards.Len()))
}

func (s *DashboardService) open(adminID string) *view.Dashboard {
	d := s.boards.Open(adminID)
	metrics.OpenDashboards.Set(float64(s.boards.Len()))
	return d
}

// Export writes the admin's current filtered view as CSV and returns the
// number of rows written.
func (s *DashboardService) Export(adminID string, w io.Writer) (int, error) {
	d := s.open(adminID)
	d.Refresh()
	users := d.Filtered()
	if err := export.WriteCSV(w, users); err != nil {
		return 0, err
	}
	return len(users), nil
}

// Refresh re-derives every open dashboard after a mirror change.
func (s *DashboardService) Refresh() {
	s.boards.Refresh()
}
