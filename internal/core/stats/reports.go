package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

var ErrUnknownReport = errors.New("unknown report")

// ReportKind names one of the on-demand reports.
type ReportKind string

const (
	ReportRevenue    ReportKind = "revenue"
	ReportEngagement ReportKind = "engagement"
	ReportFinancial  ReportKind = "financial"
)

// Report is the common result shape; Message is the one-line summary shown
// to the admin.
type Report struct {
	Kind    ReportKind     `json:"kind"`
	Message string         `json:"message"`
	Figures map[string]any `json:"figures"`
}

// RevenueReport sums spend over premium users (flag or role) and averages it
// to two decimals.
func RevenueReport(users []*domain.User) Report {
	count, total := premiumSpend(users)
	avg := 0.0
	if count > 0 {
		avg = round(total/float64(count), 2)
	}
	return Report{
		Kind: ReportRevenue,
		Message: fmt.Sprintf("Revenue Report: %d premium users, $%.2f total revenue, $%.2f average per user",
			count, total, avg),
		Figures: map[string]any{
			"premiumUsers":   count,
			"totalRevenue":   total,
			"averagePerUser": avg,
		},
	}
}

// EngagementReport counts users active in the trailing 24 hours and their
// share of all users to one decimal.
func EngagementReport(users []*domain.User, now time.Time) Report {
	dayAgo := now.Add(-ActiveWindow)
	active := 0
	for _, u := range users {
		if !u.LastLogin.IsZero() && u.LastLogin.After(dayAgo) {
			active++
		}
	}
	rate := 0.0
	if len(users) > 0 {
		rate = round(float64(active)/float64(len(users))*100, 1)
	}
	return Report{
		Kind:    ReportEngagement,
		Message: fmt.Sprintf("User engagement report: %d active users (%.1f%% engagement rate)", active, rate),
		Figures: map[string]any{
			"activeUsers":    active,
			"engagementRate": rate,
		},
	}
}

// FinancialReport states total premium revenue against subscription count.
func FinancialReport(users []*domain.User) Report {
	count, total := premiumSpend(users)
	return Report{
		Kind:    ReportFinancial,
		Message: fmt.Sprintf("Financial report: $%.2f total revenue from %d premium subscriptions", total, count),
		Figures: map[string]any{
			"premiumSubscriptions": count,
			"totalRevenue":         total,
		},
	}
}

// Generate dispatches on kind.
func Generate(kind ReportKind, users []*domain.User, now time.Time) (Report, error) {
	switch kind {
	case ReportRevenue:
		return RevenueReport(users), nil
	case ReportEngagement:
		return EngagementReport(users, now), nil
	case ReportFinancial:
		return FinancialReport(users), nil
	}
	return Report{}, fmt.Errorf("%w: %q", ErrUnknownReport, kind)
}

func premiumSpend(users []*domain.User) (int, float64) {
	count, total := 0, 0.0
	for _, u := range users {
		if u.Premium() {
			count++
			total += u.TotalSpent
		}
	}
	return count, total
}
