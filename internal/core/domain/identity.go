package domain

import "time"

// Credential is the auth-side account record, separate from the profile.
type Credential struct {
	UID              string
	Email            string
	PasswordHash     string
	DisplayName      string
	PhotoURL         string
	Provider         string
	EmailVerified    bool
	VerificationSent time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Identity is the authenticated principal as reported by the auth provider.
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName,omitempty"`
	PhotoURL      string `json:"photoURL,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	Provider      string `json:"provider,omitempty"`
	Role          string `json:"role,omitempty"`
}

// Session is a signed-in identity plus its bearer token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Identity  Identity  `json:"user"`
	// NewAccount is true when a federated sign-in created the account.
	NewAccount bool `json:"newAccount,omitempty"`
}

// VerificationMessage asks the mailer to send a verification link.
type VerificationMessage struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	RequestedAt time.Time `json:"requestedAt"`
}
