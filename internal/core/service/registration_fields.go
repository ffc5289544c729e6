package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/password"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldTerms           = "terms"

	minAcceptedStrength = 50
	weakPasswordMessage = "Password is too weak. Please choose a stronger password"
)

var formEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// fieldRule is one row of the registration form table.
type fieldRule struct {
	value    func(f ports.RegistrationForm) string
	required string
	// tag is checked against the value; other, when set, supplies the
	// comparison value for cross-field tags.
	tag     string
	other   func(f ports.RegistrationForm) string
	invalid string
	success string
}

var fieldOrder = []string{FieldFirstName, FieldLastName, FieldEmail, FieldPassword, FieldConfirmPassword}

var fieldRules = map[string]fieldRule{
	FieldFirstName: {
		value:    func(f ports.RegistrationForm) string { return strings.TrimSpace(f.FirstName) },
		required: "First name is required",
		tag:      "min=2,max=50",
		invalid:  "Must be 2-50 characters long",
		success:  "Looks good!",
	},
	FieldLastName: {
		value:    func(f ports.RegistrationForm) string { return strings.TrimSpace(f.LastName) },
		required: "Last name is required",
		tag:      "min=2,max=50",
		invalid:  "Must be 2-50 characters long",
		success:  "Looks good!",
	},
	FieldEmail: {
		value:    func(f ports.RegistrationForm) string { return strings.TrimSpace(f.Email) },
		required: "Email is required",
		tag:      "form_email",
		invalid:  "Please enter a valid email address",
		success:  "Valid email address",
	},
	FieldPassword: {
		value:    func(f ports.RegistrationForm) string { return f.Password },
		required: "Password is required",
		tag:      "min=8",
		invalid:  "Password must be at least 8 characters long",
		success:  "Password meets requirements",
	},
	FieldConfirmPassword: {
		value:    func(f ports.RegistrationForm) string { return f.ConfirmPassword },
		required: "Please confirm your password",
		tag:      "eqfield",
		other:    func(f ports.RegistrationForm) string { return f.Password },
		invalid:  "Passwords do not match",
		success:  "Passwords match",
	},
}

const termsMessage = "You must agree to the Terms of Service and Privacy Policy"

// formValidator runs the field table through go-playground/validator.
type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New()
	_ = v.RegisterValidation("form_email", func(fl validator.FieldLevel) bool {
		return formEmailPattern.MatchString(fl.Field().String())
	})
	return &formValidator{v: v}
}

func (fv *formValidator) passes(rule fieldRule, f ports.RegistrationForm, value string) bool {
	if rule.other != nil {
		return fv.v.VarWithValue(value, rule.other(f), rule.tag) == nil
	}
	return fv.v.Var(value, rule.tag) == nil
}

// validate checks the whole form on submit. The password must also reach a
// strength of 50.
func (fv *formValidator) validate(f ports.RegistrationForm) error {
	verr := &domain.ValidationError{}
	for _, name := range fieldOrder {
		rule := fieldRules[name]
		value := rule.value(f)
		switch {
		case value == "":
			verr.Add(name, rule.required)
		case !fv.passes(rule, f, value):
			verr.Add(name, rule.invalid)
		case name == FieldPassword && password.Estimate(value).Score < minAcceptedStrength:
			verr.Add(name, weakPasswordMessage)
		}
	}
	if !f.AgreeTerms {
		verr.Add(FieldTerms, termsMessage)
	}
	return verr.OrNil()
}

// check validates one field as typed. Empty values carry no message. A
// confirmation only passes once the password itself is long enough.
func (fv *formValidator) check(f ports.RegistrationForm, name string) (ports.FieldCheck, error) {
	if name == FieldTerms {
		if f.AgreeTerms {
			return ports.FieldCheck{Field: name, Valid: true}, nil
		}
		return ports.FieldCheck{Field: name, Message: termsMessage}, nil
	}

	rule, ok := fieldRules[name]
	if !ok {
		return ports.FieldCheck{}, ErrUnknownField
	}
	value := rule.value(f)
	if value == "" {
		return ports.FieldCheck{Field: name}, nil
	}

	ok = fv.passes(rule, f, value)
	if name == FieldConfirmPassword {
		ok = ok && fv.passes(fieldRules[FieldPassword], f, value)
	}
	if !ok {
		return ports.FieldCheck{Field: name, Message: rule.invalid}, nil
	}
	return ports.FieldCheck{Field: name, Valid: true, Message: rule.success}, nil
}
