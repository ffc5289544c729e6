// Package view derives the filtered, paginated user table from the mirror
// and holds the per-admin dashboard state built on top of it.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

// StatusFilter selects users by premium state.
type StatusFilter string

const (
	StatusAll     StatusFilter = ""
	StatusPremium StatusFilter = "premium"
	StatusFree    StatusFilter = "free"
	StatusExpired StatusFilter = "expired"
)

// Valid reports whether s is a known selector.
func (s StatusFilter) Valid() bool {
	switch s {
	case StatusAll, StatusPremium, StatusFree, StatusExpired:
		return true
	}
	return false
}

// Filter is the pair of table inputs.
type Filter struct {
	Query  string       `json:"query"`
	Status StatusFilter `json:"status"`
}

// Normalized lowercases and trims the query.
func (f Filter) Normalized() Filter {
	f.Query = strings.ToLower(strings.TrimSpace(f.Query))
	return f
}

// Match reports whether u passes both predicates. f must be normalized.
func (f Filter) Match(u *domain.User, now time.Time) bool {
	return f.matchText(u) && f.matchStatus(u, now)
}

func (f Filter) matchText(u *domain.User) bool {
	if f.Query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.DisplayName), f.Query) ||
		strings.Contains(strings.ToLower(u.Email), f.Query)
}

func (f Filter) matchStatus(u *domain.User, now time.Time) bool {
	switch f.Status {
	case StatusPremium:
		return u.Premium()
	case StatusFree:
		return !u.Premium()
	case StatusExpired:
		return u.Expired(now)
	}
	return true
}

// Apply returns the users matching f, in input order.
func Apply(users []*domain.User, f Filter, now time.Time) []*domain.User {
	f = f.Normalized()
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if f.Match(u, now) {
			out = append(out, u)
		}
	}
	return out
}

// RelativeDate renders t the way the dashboard lists dates: "Yesterday",
// "N days ago", "N weeks ago" within a month, the date otherwise.
func RelativeDate(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	days := int((diff + 24*time.Hour - 1) / (24 * time.Hour))
	switch {
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	}
	return t.Format("2006-01-02")
}
