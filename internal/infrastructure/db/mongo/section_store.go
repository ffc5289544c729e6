package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

const (
	collectionAnalytics = "analytics"
	collectionArticles  = "content"
	collectionSystem    = "system"
	collectionLogs      = "system_logs"
	collectionPackages  = "premium_packages"
	collectionBackups   = "backups"
	collectionSettings  = "settings"

	analyticsDocID = "summary"
	backupsDocID   = "backups"
	settingsDocID  = "global"
)

// SectionStore implements ports.SectionStore. Singleton nodes live as
// documents with fixed ids; list nodes are collections.
type SectionStore struct {
	db *mongo.Database
}

func NewSectionStore(db *mongo.Database) *SectionStore {
	return &SectionStore{db: db}
}

func (s *SectionStore) Analytics(ctx context.Context) (*domain.AnalyticsSummary, error) {
	var a domain.AnalyticsSummary
	if err := s.findSingleton(ctx, collectionAnalytics, analyticsDocID, &a); err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	return &a, nil
}

func (s *SectionStore) Articles(ctx context.Context) ([]domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.db.Collection(collectionArticles).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("articles: %w", err)
	}
	defer cur.Close(ctx)

	var articles []domain.Article
	if err := cur.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	return articles, nil
}

func (s *SectionStore) Backups(ctx context.Context) (*domain.BackupInfo, error) {
	var b domain.BackupInfo
	if err := s.findSingleton(ctx, collectionSystem, backupsDocID, &b); err != nil {
		return nil, fmt.Errorf("backups: %w", err)
	}
	return &b, nil
}

// LogCounts reads the tally document of the UTC day containing day.
func (s *SectionStore) LogCounts(ctx context.Context, day time.Time) (*domain.LogCounts, error) {
	var l domain.LogCounts
	if err := s.findSingleton(ctx, collectionLogs, day.UTC().Format("2006-01-02"), &l); err != nil {
		return nil, fmt.Errorf("log counts: %w", err)
	}
	return &l, nil
}

// findSingleton decodes the document with the given id. A missing document
// leaves out at its zero value.
func (s *SectionStore) findSingleton(ctx context.Context, coll, id string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := s.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}

func (s *SectionStore) PushPackage(ctx context.Context, pkg *domain.PremiumPackage) (string, error) {
	doc := *pkg
	return s.push(ctx, collectionPackages, func(id string) any { doc.ID = id; return &doc })
}

func (s *SectionStore) PushBackup(ctx context.Context, b *domain.Backup) (string, error) {
	doc := *b
	return s.push(ctx, collectionBackups, func(id string) any { doc.ID = id; return &doc })
}

func (s *SectionStore) push(ctx context.Context, coll string, withID func(id string) any) (string, error) {
	key, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	id := key.String()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.db.Collection(coll).InsertOne(ctx, withID(id)); err != nil {
		return "", fmt.Errorf("push %s: %w", coll, err)
	}
	return id, nil
}

func (s *SectionStore) SaveSettings(ctx context.Context, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.Collection(collectionSettings).UpdateOne(ctx,
		bson.M{"_id": settingsDocID},
		bson.M{"$set": bson.M(fields)},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
