package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
)

const (
	passwordMinLength = 6
	passwordMaxLength = 64
	// passwordMaxBytes is the longest input bcrypt accepts.
	passwordMaxBytes = 72
	// passwordSymbols is the punctuation set accepted as a password symbol.
	passwordSymbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9\-]+(\.[a-zA-Z0-9\-]+)*\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
)

// VerifyEmailFormat reports whether s looks like local@domain.tld.
// Deliverability is not checked.
func VerifyEmailFormat(s string) bool {
	return emailPattern.MatchString(s)
}

// VerifyUsernameFormat reports whether s is 3 to 30 letters, digits or underscores.
func VerifyUsernameFormat(s string) bool {
	return usernamePattern.MatchString(s)
}

// ValidName rejects names that parse as a URL, and names containing
// punctuation or symbols unless the policy allows special characters.
func ValidName(name string, policy config.Policy) bool {
	if looksLikeURL(name) {
		return false
	}
	if policy.SpecialCharsEnabled {
		return true
	}
	for _, r := range name {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

func looksLikeURL(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "www.") {
		return true
	}
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// CheckName validates a first or last name. field is used in messages.
func CheckName(field, name string, policy config.Policy) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.Validation(fmt.Sprintf("You must enter your %s", field))
	}
	if !ValidName(name, policy) {
		return apperrors.Validation(fmt.Sprintf("Your %s contains invalid characters", field))
	}
	if utf8.RuneCountInString(name) < policy.NameMinLength {
		return apperrors.Validation(fmt.Sprintf("Your %s must be at least %d characters long. Please try another", field, policy.NameMinLength))
	}
	return nil
}

// CheckPassword returns a validation error naming the first violated rule.
// Rules run in order: too short, too long (in characters, then in encoded
// bytes), then, when complexity is required, uppercase, lowercase, digit and
// symbol.
func CheckPassword(password string, policy config.Policy) error {
	n := utf8.RuneCountInString(password)
	if n < passwordMinLength {
		return apperrors.Validation(fmt.Sprintf("Your password must be at least %d characters long. Please try another", passwordMinLength))
	}
	if n > passwordMaxLength {
		return apperrors.Validation(fmt.Sprintf("Your password must be less than %d characters long. Please try another", passwordMaxLength))
	}
	if len(password) > passwordMaxBytes {
		return apperrors.Validation("Your password is too long. Please use fewer accented or special characters")
	}
	if !policy.PasswordComplexityEnabled {
		return nil
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	switch {
	case !upper:
		return apperrors.Validation("Your password must contain at least one uppercase letter")
	case !lower:
		return apperrors.Validation("Your password must contain at least one lowercase letter")
	case !digit:
		return apperrors.Validation("Your password must contain at least one number")
	case !symbol:
		return apperrors.Validation("Your password must contain at least one special character")
	}
	return nil
}
