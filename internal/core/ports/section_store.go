package ports

import (
	"context"
	"time"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

// SectionStore reads and writes the non-user nodes the dashboard shows.
type SectionStore interface {
	Analytics(ctx context.Context) (*domain.AnalyticsSummary, error)
	Articles(ctx context.Context) ([]domain.Article, error)
	Backups(ctx context.Context) (*domain.BackupInfo, error)
	// LogCounts returns the tally for the calendar day containing day.
	LogCounts(ctx context.Context, day time.Time) (*domain.LogCounts, error)

	PushPackage(ctx context.Context, pkg *domain.PremiumPackage) (string, error)
	PushBackup(ctx context.Context, b *domain.Backup) (string, error)
	// SaveSettings merges fields into the settings node.
	SaveSettings(ctx context.Context, fields map[string]any) error
}
