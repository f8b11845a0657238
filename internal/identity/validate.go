package identity

import (
	"errors"
	"regexp"
	"unicode"
)

// Validation errors for registration input.
var (
	ErrUsernameLength  = errors.New("username must be between 3 and 30 characters")
	ErrUsernameInvalid = errors.New("username can only contain letters, numbers, and underscores")
	ErrEmailInvalid    = errors.New("invalid email format")
	ErrMobileInvalid   = errors.New("mobile number must be exactly 10 digits")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters and include uppercase, lowercase, and digits")
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	mobilePattern   = regexp.MustCompile(`^\d{10}$`)
)

// ValidateRegistration checks all registration input, returning the first
// violation found.
func ValidateRegistration(username, email, password, mobileNo string) error {
	if len(username) < 3 || len(username) > 30 {
		return ErrUsernameLength
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	if !mobilePattern.MatchString(mobileNo) {
		return ErrMobileInvalid
	}
	if !strongPassword(password) {
		return ErrPasswordTooWeak
	}
	return nil
}

// strongPassword requires length >= 8 with at least one digit, one upper
// and one lower case letter.
func strongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasDigit, hasUpper, hasLower bool
	for _, c := range password {
		switch {
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		}
	}
	return hasDigit && hasUpper && hasLower
}
