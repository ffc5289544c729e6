package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

var now = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func TestCompute_RevenueOnlyFromPremiumFlag(t *testing.T) {
	users := []*domain.User{
		{ID: "1", IsPremium: true, TotalSpent: 10},
		{ID: "2", IsPremium: false, TotalSpent: 999},
	}

	s := Compute(users, now)

	assert.Equal(t, 10.0, s.TotalRevenue)
}

func TestCompute_PremiumRoleCountsButDoesNotEarn(t *testing.T) {
	users := []*domain.User{
		{ID: "1", Role: domain.RolePremium, TotalSpent: 50},
		{ID: "2", Role: domain.RoleUser},
		{ID: "3", IsPremium: true, TotalSpent: 5},
	}

	s := Compute(users, now)

	assert.Equal(t, 2, s.PremiumUsers)
	assert.Equal(t, 5.0, s.TotalRevenue)
	assert.Equal(t, 66, s.ConversionRate)
}

func TestCompute_TimeWindows(t *testing.T) {
	midnight := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	users := []*domain.User{
		{ID: "active", LastLogin: now.Add(-23 * time.Hour), CreatedAt: midnight, IsPremium: true, EmailVerified: true},
		{ID: "stale", LastLogin: now.Add(-24 * time.Hour), CreatedAt: midnight.Add(-time.Second), EmailVerified: true},
		{ID: "never", CreatedAt: now},
		{ID: "expiring", PremiumExpiry: now.Add(29 * 24 * time.Hour), EmailVerified: true},
		{ID: "lapsed", PremiumExpiry: now.Add(-time.Hour), EmailVerified: true},
		{ID: "far", PremiumExpiry: now.Add(31 * 24 * time.Hour), EmailVerified: true},
	}

	s := Compute(users, now)

	assert.Equal(t, 6, s.TotalUsers)
	assert.Equal(t, 1, s.ActiveUsers)
	assert.Equal(t, 2, s.NewToday)
	assert.Equal(t, 1, s.NewPremiumToday)
	assert.Equal(t, 2, s.ExpiringSoon)
	assert.Equal(t, 1, s.PendingVerification)
}

func TestCompute_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Compute(nil, now))
}

func TestMidnight_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	got := Midnight(time.Date(2026, 3, 14, 1, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, loc), got)
}

func TestReports(t *testing.T) {
	users := []*domain.User{
		{ID: "1", IsPremium: true, TotalSpent: 10, LastLogin: now.Add(-time.Hour)},
		{ID: "2", Role: domain.RolePremium, TotalSpent: 5},
		{ID: "3", TotalSpent: 100},
	}

	rev := RevenueReport(users)
	assert.Equal(t, 2, rev.Figures["premiumUsers"])
	assert.Equal(t, 15.0, rev.Figures["totalRevenue"])
	assert.Equal(t, 7.5, rev.Figures["averagePerUser"])
	assert.Equal(t, "Revenue Report: 2 premium users, $15.00 total revenue, $7.50 average per user", rev.Message)

	eng := EngagementReport(users, now)
	assert.Equal(t, 1, eng.Figures["activeUsers"])
	assert.Equal(t, 33.3, eng.Figures["engagementRate"])

	fin := FinancialReport(users)
	assert.Equal(t, "Financial report: $15.00 total revenue from 2 premium subscriptions", fin.Message)
}

func TestGenerate(t *testing.T) {
	r, err := Generate(ReportEngagement, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Figures["engagementRate"])

	_, err = Generate("traffic", nil, now)
	assert.True(t, errors.Is(err, ErrUnknownReport))
}
