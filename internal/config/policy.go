package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedReservedList is returned when the reserved usernames setting cannot be parsed.
var ErrMalformedReservedList = errors.New("malformed reserved usernames list")

// Policy is the site-wide registration and authentication policy.
// It is passed by value; components never mutate a shared copy.
type Policy struct {
	RegistrationEnabled       bool
	ActivationEnabled         bool
	UsersApprovalEnabled      bool
	SpecialCharsEnabled       bool
	NameMinLength             int
	PasswordComplexityEnabled bool
	ReservedUsernamesEnabled  bool
	// ReservedUsernames is the raw comma separated list as configured by the admin.
	ReservedUsernames       string
	BruteForceEnabled       bool
	BruteForceBadLoginLimit int
	// BruteForceLockoutTime is expressed in minutes.
	BruteForceLockoutTime int
	PackagesEnabled       bool
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		RegistrationEnabled:       true,
		ActivationEnabled:         false,
		UsersApprovalEnabled:      false,
		SpecialCharsEnabled:       false,
		NameMinLength:             3,
		PasswordComplexityEnabled: false,
		ReservedUsernamesEnabled:  true,
		ReservedUsernames:         "admin,administrator,root,support,help,api,settings,signin,signup",
		BruteForceEnabled:         true,
		BruteForceBadLoginLimit:   5,
		BruteForceLockoutTime:     10,
		PackagesEnabled:           false,
	}
}

// ParseReservedUsernames splits the raw reserved list into lower-cased entries.
// Empty entries, such as a trailing comma, are skipped.
func ParseReservedUsernames(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		for _, r := range item {
			if !isUsernameRune(r) {
				return nil, fmt.Errorf("%w: invalid character %q in %q", ErrMalformedReservedList, r, item)
			}
		}
		out = append(out, strings.ToLower(item))
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func isUsernameRune(r rune) bool {
	return r == '_' || r == '.' || r == '-' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
