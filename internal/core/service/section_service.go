package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
	"github.com/dashblogger/admin-console/internal/core/view"
)

const (
	backupInProgress = "in_progress"
	articleDraft     = "draft"
)

// SectionService loads the analytics, content and system sections and
// handles the package, backup and settings actions.
type SectionService struct {
	store  ports.SectionStore
	now    func() time.Time
	logger zerolog.Logger
}

func NewSectionService(store ports.SectionStore, logger zerolog.Logger) *SectionService {
	return &SectionService{store: store, now: time.Now, logger: logger}
}

func (s *SectionService) Analytics(ctx context.Context) ports.AnalyticsView {
	a, err := s.store.Analytics(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load analytics failed")
		a = &domain.AnalyticsSummary{}
	}
	return ports.AnalyticsView{
		AnalyticsSummary: *a,
		SessionTime:      fmt.Sprintf("%d:%02d", a.AvgSessionDuration/60, a.AvgSessionDuration%60),
	}
}

func (s *SectionService) Content(ctx context.Context) domain.ContentSummary {
	articles, err := s.store.Articles(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load content failed")
		return domain.ContentSummary{}
	}

	now := s.now()
	var sum domain.ContentSummary
	var ratings float64
	for _, a := range articles {
		sum.TotalArticles++
		if a.Status == articleDraft {
			sum.DraftArticles++
		}
		if !a.PublishedAt.IsZero() {
			p := a.PublishedAt.In(now.Location())
			if p.Year() == now.Year() && p.Month() == now.Month() {
				sum.PublishedMonth++
			}
		}
		ratings += a.Rating
	}
	if sum.TotalArticles > 0 {
		sum.AvgRating = math.Round(ratings/float64(sum.TotalArticles)*10) / 10
	}
	return sum
}

func (s *SectionService) System(ctx context.Context) ports.SystemView {
	now := s.now()
	var out ports.SystemView

	if b, err := s.store.Backups(ctx); err != nil {
		s.logger.Error().Err(err).Msg("load backups failed")
	} else {
		out.Backups = *b
	}
	if l, err := s.store.LogCounts(ctx, now); err != nil {
		s.logger.Error().Err(err).Msg("load log counts failed")
	} else {
		out.LogsToday = *l
	}

	out.LastBackupText = "Never"
	if !out.Backups.LastBackup.IsZero() {
		out.LastBackupText = view.RelativeDate(out.Backups.LastBackup, now)
	}
	out.ScheduleText = out.Backups.Schedule
	if out.ScheduleText == "" {
		out.ScheduleText = "Off"
	}
	return out
}

// All loads the three sections concurrently. Each falls back to its zero
// summary independently.
func (s *SectionService) All(ctx context.Context) ports.Sections {
	var out ports.Sections
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { out.Analytics = s.Analytics(gctx); return nil })
	g.Go(func() error { out.Content = s.Content(gctx); return nil })
	g.Go(func() error { out.System = s.System(gctx); return nil })
	_ = g.Wait()
	return out
}

func (s *SectionService) AddPackage(ctx context.Context, actor string, in ports.PackageInput) (*domain.PremiumPackage, error) {
	pkg := &domain.PremiumPackage{
		Name:        in.Name,
		Price:       in.Price,
		Duration:    in.Duration,
		Description: in.Description,
		Active:      true,
		CreatedAt:   s.now().UTC(),
		CreatedBy:   actor,
	}
	id, err := s.store.PushPackage(ctx, pkg)
	if err != nil {
		return nil, fmt.Errorf("add package: %w", err)
	}
	pkg.ID = id
	s.logger.Info().Str("package", pkg.Name).Str("actor", actor).Msg("premium package added")
	return pkg, nil
}

// CreateBackup records a backup request; the backup itself runs elsewhere.
func (s *SectionService) CreateBackup(ctx context.Context, actor, kind string) (*domain.Backup, error) {
	if kind == "" {
		kind = domain.BackupFull
	}
	b := &domain.Backup{
		Type:      kind,
		Status:    backupInProgress,
		CreatedAt: s.now().UTC(),
		CreatedBy: actor,
	}
	id, err := s.store.PushBackup(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	b.ID = id
	s.logger.Info().Str("backup", id).Str("type", kind).Msg("backup requested")
	return b, nil
}

// SaveSettings stamps the settings node with the saving admin.
func (s *SectionService) SaveSettings(ctx context.Context, actor string) error {
	fields := map[string]any{
		"last_updated": s.now().UTC(),
		"updated_by":   actor,
	}
	if err := s.store.SaveSettings(ctx, fields); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
