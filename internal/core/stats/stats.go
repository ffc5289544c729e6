// Package stats derives dashboard figures from the user mirror. Every function
// is pure and recomputes from scratch.
package stats

import (
	"math"
	"time"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

const (
	ActiveWindow   = 24 * time.Hour
	ExpiringWindow = 30 * 24 * time.Hour
)

// Summary holds the headline figures of the overview and premium sections.
type Summary struct {
	TotalUsers      int     `json:"totalUsers"`
	PremiumUsers    int     `json:"premiumUsers"`
	ActiveUsers     int     `json:"activeUsers"`
	TotalRevenue    float64 `json:"totalRevenue"`
	NewToday        int     `json:"newToday"`
	NewPremiumToday int     `json:"newPremiumToday"`
	// ConversionRate is the premium share of all users as a whole percent,
	// rounded down.
	ConversionRate int `json:"conversionRate"`
	// ExpiringSoon counts records whose premium expiry is at most 30 days
	// away, already lapsed ones included.
	ExpiringSoon        int `json:"expiringSoon"`
	PendingVerification int `json:"pendingVerification"`
}

// Compute evaluates the summary at now. "Today" starts at midnight in now's
// location.
func Compute(users []*domain.User, now time.Time) Summary {
	var s Summary
	s.TotalUsers = len(users)

	dayAgo := now.Add(-ActiveWindow)
	midnight := Midnight(now)
	horizon := now.Add(ExpiringWindow)

	for _, u := range users {
		premium := u.Premium()
		if premium {
			s.PremiumUsers++
		}
		if !u.LastLogin.IsZero() && u.LastLogin.After(dayAgo) {
			s.ActiveUsers++
		}
		// revenue follows the stored flag only; a premium role alone does not count
		if u.IsPremium {
			s.TotalRevenue += u.TotalSpent
		}
		if !u.CreatedAt.IsZero() && !u.CreatedAt.Before(midnight) {
			s.NewToday++
			if premium {
				s.NewPremiumToday++
			}
		}
		if !u.PremiumExpiry.IsZero() && !u.PremiumExpiry.After(horizon) {
			s.ExpiringSoon++
		}
		if !u.EmailVerified {
			s.PendingVerification++
		}
	}

	if s.TotalUsers > 0 {
		s.ConversionRate = s.PremiumUsers * 100 / s.TotalUsers
	}
	return s
}

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
