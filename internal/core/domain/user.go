package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RolePremium = "premium"
)

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

const (
	MethodEmail  = "email"
	MethodGoogle = "google"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrSessionExpired     = errors.New("session expired")
)

// User is the denormalized profile record kept under users/<id>.
type User struct {
	ID                 string    `json:"uid" bson:"_id"`
	Email              string    `json:"email" bson:"email"`
	DisplayName        string    `json:"displayName,omitempty" bson:"display_name,omitempty"`
	FirstName          string    `json:"firstName,omitempty" bson:"first_name,omitempty"`
	LastName           string    `json:"lastName,omitempty" bson:"last_name,omitempty"`
	Role               string    `json:"role" bson:"role"`
	IsPremium          bool      `json:"isPremium" bson:"is_premium"`
	IsAdmin            bool      `json:"isAdmin,omitempty" bson:"is_admin,omitempty"`
	Status             string    `json:"status,omitempty" bson:"status,omitempty"`
	EmailVerified      bool      `json:"emailVerified" bson:"email_verified"`
	MarketingEmails    bool      `json:"marketingEmails" bson:"marketing_emails"`
	PhotoURL           string    `json:"photoURL,omitempty" bson:"photo_url,omitempty"`
	TotalSpent         float64   `json:"totalSpent,omitempty" bson:"total_spent,omitempty"`
	PremiumExpiry      time.Time `json:"premiumExpiry,omitzero" bson:"premium_expiry,omitempty"`
	CreatedAt          time.Time `json:"createdAt" bson:"created_at"`
	LastLogin          time.Time `json:"lastLogin,omitzero" bson:"last_login,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitzero" bson:"updated_at,omitempty"`
	CreatedBy          string    `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	UpdatedBy          string    `json:"updatedBy,omitempty" bson:"updated_by,omitempty"`
	RegistrationMethod string    `json:"registrationMethod,omitempty" bson:"registration_method,omitempty"`
	Provider           string    `json:"provider,omitempty" bson:"provider,omitempty"`
	LoginMethod        string    `json:"loginMethod,omitempty" bson:"login_method,omitempty"`
	Version            int64     `json:"version" bson:"version"`
}

// Premium reports whether the user counts as premium: either flag or role.
func (u *User) Premium() bool {
	return u.IsPremium || u.Role == RolePremium
}

// Expired reports whether the user has a premium expiry strictly before now.
func (u *User) Expired(now time.Time) bool {
	return !u.PremiumExpiry.IsZero() && u.PremiumExpiry.Before(now)
}

// Administrator reports whether the profile grants dashboard access.
func (u *User) Administrator() bool {
	return u.Role == RoleAdmin || u.IsAdmin
}

// NameOrDefault returns the display name, or "No Name" when blank.
func (u *User) NameOrDefault() string {
	if strings.TrimSpace(u.DisplayName) == "" {
		return "No Name"
	}
	return u.DisplayName
}

// UserPatch is a merge update. Nil fields are left untouched.
type UserPatch struct {
	DisplayName *string
	Role        *string
	Status      *string
	LastLogin   *time.Time
	LoginMethod *string
	UpdatedAt   *time.Time
	UpdatedBy   *string
	Version     *int64
}

// IsValidRole reports whether role is one of the enumerated user roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RolePremium:
		return true
	}
	return false
}
