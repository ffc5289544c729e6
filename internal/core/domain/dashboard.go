package domain

import "time"

// RegistrationEvent is appended to analytics/registrations on sign-up.
type RegistrationEvent struct {
	UID       string    `json:"uid"`
	Method    string    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// AnalyticsSummary is the analytics node of the data store.
type AnalyticsSummary struct {
	PageViews          int64 `json:"pageViews" bson:"page_views"`
	UniqueVisitors     int64 `json:"uniqueVisitors" bson:"unique_visitors"`
	AvgSessionDuration int64 `json:"avgSessionDuration" bson:"avg_session_duration"` // seconds
	MobilePercentage   int   `json:"mobilePercentage" bson:"mobile_percentage"`
}

// Article is one entry of the content node.
type Article struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Status      string    `json:"status" bson:"status"`
	PublishedAt time.Time `json:"publishedAt,omitzero" bson:"published_at,omitempty"`
	Rating      float64   `json:"rating" bson:"rating"`
}

// ContentSummary aggregates the content node.
type ContentSummary struct {
	TotalArticles  int     `json:"totalArticles"`
	DraftArticles  int     `json:"draftArticles"`
	PublishedMonth int     `json:"publishedMonth"`
	AvgRating      float64 `json:"avgRating"`
}

// BackupInfo is the backups part of the system node.
type BackupInfo struct {
	Total       int       `json:"total" bson:"total"`
	StorageUsed float64   `json:"storageUsed" bson:"storage_used"` // GB
	LastBackup  time.Time `json:"lastBackup,omitzero" bson:"last_backup,omitempty"`
	Schedule    string    `json:"schedule" bson:"schedule"`
}

// LogCounts is the per-day log tally of the system node.
type LogCounts struct {
	Total    int64 `json:"total" bson:"total"`
	Warnings int64 `json:"warnings" bson:"warnings"`
	Errors   int64 `json:"errors" bson:"errors"`
}

// SystemSummary is the system node for the current day.
type SystemSummary struct {
	Backups   BackupInfo `json:"backups"`
	LogsToday LogCounts  `json:"logsToday"`
}

// PremiumPackage is an entry of the packages node.
type PremiumPackage struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Duration    string    `json:"duration" bson:"duration"`
	Description string    `json:"description" bson:"description"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	CreatedBy   string    `json:"createdBy" bson:"created_by"`
}

const (
	BackupFull     = "full"
	BackupDatabase = "database"
)

// Backup is an entry of the backups node.
type Backup struct {
	ID        string    `json:"id" bson:"_id"`
	Type      string    `json:"type" bson:"type"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"timestamp" bson:"timestamp"`
	CreatedBy string    `json:"createdBy" bson:"created_by"`
}
