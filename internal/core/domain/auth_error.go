package domain

import "fmt"

// AuthCode is an error code reported by the authentication provider.
type AuthCode string

const (
	AuthEmailInUse          AuthCode = "auth/email-already-in-use"
	AuthInvalidEmail        AuthCode = "auth/invalid-email"
	AuthOperationNotAllowed AuthCode = "auth/operation-not-allowed"
	AuthWeakPassword        AuthCode = "auth/weak-password"
	AuthNetworkFailed       AuthCode = "auth/network-request-failed"
	AuthPopupClosed         AuthCode = "auth/popup-closed-by-user"
	AuthPopupBlocked        AuthCode = "auth/popup-blocked"
	AuthPopupCancelled      AuthCode = "auth/cancelled-popup-request"
	AuthDifferentCredential AuthCode = "auth/account-exists-with-different-credential"
	AuthUserNotFound        AuthCode = "auth/user-not-found"
	AuthWrongPassword       AuthCode = "auth/wrong-password"
	AuthInvalidIDToken      AuthCode = "auth/invalid-id-token"
	AuthUserTokenExpired    AuthCode = "auth/user-token-expired"
)

// AuthError wraps a provider error code. Cause is optional.
type AuthError struct {
	Code  AuthCode
	Cause error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return string(e.Code)
}

func (e *AuthError) Unwrap() error { return e.Cause }

// NewAuthError builds an AuthError for code.
func NewAuthError(code AuthCode, cause error) *AuthError {
	return &AuthError{Code: code, Cause: cause}
}

// AuthMessage is the user-facing rendering of an AuthCode. Field is empty for
// form-level errors.
type AuthMessage struct {
	Form       string
	Field      string
	FieldError string
}

var authMessages = map[AuthCode]AuthMessage{
	AuthEmailInUse: {
		Form:       "This email is already registered. Please use a different email or try logging in.",
		Field:      "email",
		FieldError: "Email already in use",
	},
	AuthInvalidEmail: {
		Form:       "Please enter a valid email address.",
		Field:      "email",
		FieldError: "Invalid email format",
	},
	AuthOperationNotAllowed: {Form: "Email registration is not enabled. Please contact support."},
	AuthWeakPassword: {
		Form:       "Password is too weak. Please choose a stronger password.",
		Field:      "password",
		FieldError: "Password too weak",
	},
	AuthNetworkFailed:       {Form: "Network error. Please check your connection and try again."},
	AuthPopupClosed:         {Form: "Registration cancelled. Please try again."},
	AuthPopupBlocked:        {Form: "Popup blocked. Please allow popups for this site and try again."},
	AuthPopupCancelled:      {Form: "Registration cancelled. Please try again."},
	AuthDifferentCredential: {Form: "An account with this email already exists using a different sign-in method. Please try logging in instead."},
	AuthUserNotFound:        {Form: "No account found for this email."},
	AuthWrongPassword:       {Form: "Incorrect email or password."},
	AuthInvalidIDToken:      {Form: "The identity token could not be verified."},
	AuthUserTokenExpired:    {Form: "Your session has expired. Please sign in again."},
}

// DescribeAuthError maps a provider code to its messages. Unknown codes fall
// back to fallback as the form message.
func DescribeAuthError(code AuthCode, fallback string) AuthMessage {
	if m, ok := authMessages[code]; ok {
		return m
	}
	return AuthMessage{Form: fallback}
}
