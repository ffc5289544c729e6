package ports

import (
	"context"
	"io"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/stats"
	"github.com/dashblogger/admin-console/internal/core/view"
)

// CreateUserInput is the add-user form.
type CreateUserInput struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Role        string `json:"role" validate:"required,oneof=user premium admin"`
	Status      string `json:"status" validate:"required,oneof=active inactive suspended"`
}

// UpdateUserInput is the edit-user form.
type UpdateUserInput struct {
	DisplayName string `json:"displayName" validate:"max=100"`
	Role        string `json:"role" validate:"required,oneof=user premium admin"`
	Status      string `json:"status" validate:"required,oneof=active inactive suspended"`
}

// UserService issues admin writes to the users collection. Reads come from
// the mirror.
type UserService interface {
	Create(ctx context.Context, actor string, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor, id string, in UpdateUserInput) error
	Delete(ctx context.Context, id string) error
	Get(id string) (*domain.User, error)
}

// AdminService gates the dashboard to administrators.
type AdminService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error)
	// Enter runs on every dashboard open: it bootstraps or refreshes the
	// admin profile, or rejects non-admins with domain.ErrForbidden.
	Enter(ctx context.Context, identity *domain.Identity) (*domain.User, error)
	// Authorize checks admin rights without touching the profile.
	Authorize(ctx context.Context, uid string) (*domain.User, error)
	Logout(ctx context.Context, uid, token string) error
}

// DashboardService exposes one admin's dashboard view state.
type DashboardService interface {
	Frame(adminID string, withTable bool) view.Frame
	SetFilter(adminID string, f view.Filter) (view.Frame, error)
	GoToPage(adminID string, page int) (view.Frame, bool)
	ChangePage(adminID string, delta int) (view.Frame, bool)
	ShowSection(adminID string, s domain.Section) view.Frame
	Shortcut(adminID, code string, alt, ctrl, shift bool) (view.Frame, bool)
	Close(adminID string)
	Export(adminID string, w io.Writer) (int, error)
	Stats() stats.Summary
	Report(kind stats.ReportKind) (stats.Report, error)
}

// PackageInput is the add-package form.
type PackageInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"gt=0"`
	Duration    string  `json:"duration" validate:"required,oneof=monthly quarterly yearly lifetime"`
	Description string  `json:"description" validate:"max=500"`
}

// AnalyticsView is the analytics section with display strings.
type AnalyticsView struct {
	domain.AnalyticsSummary
	SessionTime string `json:"sessionTime"`
}

// SystemView is the system section with display strings.
type SystemView struct {
	domain.SystemSummary
	LastBackupText string `json:"lastBackupText"`
	ScheduleText   string `json:"scheduleText"`
}

// Sections is every non-user section loaded at once.
type Sections struct {
	Analytics AnalyticsView         `json:"analytics"`
	Content   domain.ContentSummary `json:"content"`
	System    SystemView            `json:"system"`
}

// SectionService loads and writes the non-user sections. Loads never fail:
// a failing node yields its zero summary.
type SectionService interface {
	Analytics(ctx context.Context) AnalyticsView
	Content(ctx context.Context) domain.ContentSummary
	System(ctx context.Context) SystemView
	All(ctx context.Context) Sections
	AddPackage(ctx context.Context, actor string, in PackageInput) (*domain.PremiumPackage, error)
	CreateBackup(ctx context.Context, actor, kind string) (*domain.Backup, error)
	SaveSettings(ctx context.Context, actor string) error
}
