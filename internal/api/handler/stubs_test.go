package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dashblogger/admin-console/internal/api/middleware"
	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
	"github.com/dashblogger/admin-console/internal/core/stats"
	"github.com/dashblogger/admin-console/internal/core/view"
)

var testAdmin = &domain.User{ID: "admin-1", Email: "root@example.com", Role: domain.RoleAdmin}

// newContext builds a request context; a non-empty body is sent as JSON.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asAdmin(c echo.Context) echo.Context {
	c.Set(middleware.KeyAdmin, testAdmin)
	c.Set(middleware.KeyIdentity, &domain.Identity{UID: testAdmin.ID, Email: testAdmin.Email})
	c.Set(middleware.KeyToken, "tok-1")
	return c
}

type stubAdminService struct {
	loginFn  func(ctx context.Context, email, password string) (*domain.Session, *domain.User, error)
	logoutFn func(ctx context.Context, uid, token string) error
}

func (s *stubAdminService) Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAdminService) Enter(context.Context, *domain.Identity) (*domain.User, error) {
	return testAdmin, nil
}

func (s *stubAdminService) Authorize(context.Context, string) (*domain.User, error) {
	return testAdmin, nil
}

func (s *stubAdminService) Logout(ctx context.Context, uid, token string) error {
	return s.logoutFn(ctx, uid, token)
}

type stubRegistration struct {
	emailFn     func(ctx context.Context, form ports.RegistrationForm) (*ports.RegistrationResult, error)
	federatedFn func(ctx context.Context, req ports.FederatedRequest) (*ports.RegistrationResult, error)
	checkFn     func(form ports.RegistrationForm, field string) (ports.FieldCheck, error)
}

func (s *stubRegistration) RegisterWithEmail(ctx context.Context, form ports.RegistrationForm) (*ports.RegistrationResult, error) {
	return s.emailFn(ctx, form)
}

func (s *stubRegistration) RegisterWithFederated(ctx context.Context, req ports.FederatedRequest) (*ports.RegistrationResult, error) {
	return s.federatedFn(ctx, req)
}

func (s *stubRegistration) CheckField(form ports.RegistrationForm, field string) (ports.FieldCheck, error) {
	return s.checkFn(form, field)
}

type stubUsers struct {
	createFn func(ctx context.Context, actor string, in ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, actor, id string, in ports.UpdateUserInput) error
	deleteFn func(ctx context.Context, id string) error
	getFn    func(id string) (*domain.User, error)
}

func (s *stubUsers) Create(ctx context.Context, actor string, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubUsers) Update(ctx context.Context, actor, id string, in ports.UpdateUserInput) error {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubUsers) Delete(ctx context.Context, id string) error { return s.deleteFn(ctx, id) }
func (s *stubUsers) Get(id string) (*domain.User, error)         { return s.getFn(id) }

// stubDashboard records the last command and answers with a fixed frame.
type stubDashboard struct {
	section domain.Section
	filter  view.Filter
	page    int
	csv     string
	err     error
}

func (s *stubDashboard) frame(withTable bool) view.Frame {
	f := view.Frame{Section: s.section, Title: s.section.Title(), Filter: s.filter}
	if withTable || s.section == domain.SectionUsers {
		f.Table = &view.Page{Page: s.page, PageSize: 10}
	}
	return f
}

func (s *stubDashboard) Frame(_ string, withTable bool) view.Frame { return s.frame(withTable) }

func (s *stubDashboard) SetFilter(_ string, f view.Filter) (view.Frame, error) {
	if !f.Status.Valid() {
		return view.Frame{}, view.ErrInvalidStatus
	}
	s.filter, s.page = f, 1
	return s.frame(true), nil
}

func (s *stubDashboard) GoToPage(_ string, page int) (view.Frame, bool) {
	if page < 1 || page > 3 {
		return s.frame(true), false
	}
	s.page = page
	return s.frame(true), true
}

func (s *stubDashboard) ChangePage(id string, delta int) (view.Frame, bool) {
	return s.GoToPage(id, s.page+delta)
}

func (s *stubDashboard) ShowSection(_ string, sec domain.Section) view.Frame {
	s.section = sec
	return s.frame(false)
}

func (s *stubDashboard) Shortcut(id, code string, alt, ctrl, shift bool) (view.Frame, bool) {
	sec, ok := domain.SectionForShortcut(code, alt, ctrl, shift)
	if !ok {
		return s.frame(false), false
	}
	return s.ShowSection(id, sec), true
}

func (s *stubDashboard) Close(string) {}

func (s *stubDashboard) Export(_ string, w io.Writer) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	_, err := io.WriteString(w, s.csv)
	return strings.Count(s.csv, "\n"), err
}

func (s *stubDashboard) Stats() stats.Summary { return stats.Summary{TotalUsers: 4, PremiumUsers: 1} }

func (s *stubDashboard) Report(kind stats.ReportKind) (stats.Report, error) {
	if kind != stats.ReportRevenue {
		return stats.Report{}, stats.ErrUnknownReport
	}
	return stats.Report{Kind: kind, Message: "Revenue Report: $10.00 from 1 premium users"}, nil
}

type stubSections struct {
	actor     string
	backupFor string
	saved     bool
	err       error
}

func (s *stubSections) Analytics(context.Context) ports.AnalyticsView {
	return ports.AnalyticsView{SessionTime: "2:05"}
}

func (s *stubSections) Content(context.Context) domain.ContentSummary {
	return domain.ContentSummary{TotalArticles: 3}
}

func (s *stubSections) System(context.Context) ports.SystemView {
	return ports.SystemView{LastBackupText: "Never", ScheduleText: "Off"}
}

func (s *stubSections) All(ctx context.Context) ports.Sections {
	return ports.Sections{Analytics: s.Analytics(ctx), Content: s.Content(ctx), System: s.System(ctx)}
}

func (s *stubSections) AddPackage(_ context.Context, actor string, in ports.PackageInput) (*domain.PremiumPackage, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.actor = actor
	return &domain.PremiumPackage{ID: "pkg-1", Name: in.Name, Price: in.Price, Duration: in.Duration, Active: true, CreatedBy: actor}, nil
}

func (s *stubSections) CreateBackup(_ context.Context, actor, kind string) (*domain.Backup, error) {
	s.actor, s.backupFor = actor, kind
	return &domain.Backup{ID: "b-1", Type: kind, Status: "in_progress", CreatedBy: actor}, nil
}

func (s *stubSections) SaveSettings(_ context.Context, actor string) error {
	s.actor, s.saved = actor, true
	return s.err
}
