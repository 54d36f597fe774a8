package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// IdentityService resolves users by email or username and enforces the
// blacklist and reserved name rules.
type IdentityService interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string, kind model.EntityKind) (uint, error)
	ReservedUsername(username string, policy config.Policy) bool
}

type identityService struct {
	users     repository.UserRepository
	blacklist repository.BlacklistRepository
	logger    *slog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(users repository.UserRepository, blacklist repository.BlacklistRepository, logger *slog.Logger) IdentityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &identityService{users: users, blacklist: blacklist, logger: logger}
}

// GetUserByEmail rejects blacklisted domains, then returns the matching user.
// An absent user is reported as a NotFound error.
func (s *identityService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	banned, err := s.blacklist.IsBlacklisted(ctx, model.BlacklistEmail, emailDomains(email)...)
	if err != nil {
		return nil, apperrors.Internal("check email blacklist", err)
	}
	if banned {
		return nil, apperrors.Validation("Sorry but this email domain is not allowed")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("find user by email", err)
	}
	return user, nil
}

// GetUserByUsername rejects blacklisted usernames, then returns the id owning
// username within kind. An absent owner is reported as a NotFound error.
func (s *identityService) GetUserByUsername(ctx context.Context, username string, kind model.EntityKind) (uint, error) {
	banned, err := s.blacklist.IsBlacklisted(ctx, model.BlacklistUsername, strings.ToLower(username))
	if err != nil {
		return 0, apperrors.Internal("check username blacklist", err)
	}
	if banned {
		return 0, apperrors.Validation("Sorry but this username is not allowed")
	}

	id, err := s.users.FindNameOwner(ctx, kind, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NotFound(string(kind) + " not found")
		}
		return 0, apperrors.Internal("find name owner", err)
	}
	return id, nil
}

// ReservedUsername reports whether username is on the reserved list.
// A malformed list is logged and treated as empty so that it never
// blocks registration.
func (s *identityService) ReservedUsername(username string, policy config.Policy) bool {
	if !policy.ReservedUsernamesEnabled {
		return false
	}
	reserved, err := config.ParseReservedUsernames(policy.ReservedUsernames)
	if err != nil {
		s.logger.Warn("ignoring malformed reserved usernames list", "error", err)
		return false
	}
	name := strings.ToLower(username)
	for _, r := range reserved {
		if r == name {
			return true
		}
	}
	return false
}

// emailDomains returns the full domain of email and its registrable
// domain (last two labels), deduplicated and lower-cased.
func emailDomains(email string) []string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return nil
	}
	domain := strings.ToLower(email[at+1:])
	labels := strings.Split(domain, ".")
	if len(labels) <= 2 {
		return []string{domain}
	}
	return []string{domain, strings.Join(labels[len(labels)-2:], ".")}
}
