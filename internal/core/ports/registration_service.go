package ports

import (
	"context"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

// RegistrationForm is the sign-up form as submitted.
type RegistrationForm struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeTerms      bool   `json:"agreeTerms"`
	MarketingEmails bool   `json:"marketingEmails"`
	UserAgent       string `json:"-"`
}

// FederatedRequest carries an identity-provider token from the sign-in popup.
type FederatedRequest struct {
	IDToken         string `json:"idToken"`
	MarketingEmails bool   `json:"marketingEmails"`
	UserAgent       string `json:"-"`
}

// RegistrationResult is returned after a successful sign-up or federated
// sign-in. Message is the banner shown to the user.
type RegistrationResult struct {
	User       *domain.User    `json:"user"`
	Session    *domain.Session `json:"session,omitempty"`
	NewAccount bool            `json:"newAccount"`
	Message    string          `json:"message"`
}

// FieldCheck is the live validation result for a single form field.
type FieldCheck struct {
	Field   string `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type RegistrationService interface {
	RegisterWithEmail(ctx context.Context, form RegistrationForm) (*RegistrationResult, error)
	RegisterWithFederated(ctx context.Context, req FederatedRequest) (*RegistrationResult, error)
	// CheckField validates one field of form the way the form does on blur.
	CheckField(form RegistrationForm, field string) (FieldCheck, error)
}
