package service

import (
	"context"
	"log/slog"
	"time"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// SessionIssuer creates persisted sessions and their bearer tokens.
type SessionIssuer interface {
	IssueSession(ctx context.Context, user *model.User, remember bool, client model.ClientInfo) (string, error)
}

type sessionIssuer struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	jwt      *auth.JWTService
	policy   config.Policy
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionIssuer creates a new session issuer.
func NewSessionIssuer(
	sessions repository.SessionRepository,
	users repository.UserRepository,
	jwtService *auth.JWTService,
	policy config.Policy,
	logger *slog.Logger,
) SessionIssuer {
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionIssuer{
		sessions: sessions,
		users:    users,
		jwt:      jwtService,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

// IssueSession inserts exactly one session row and returns a signed token
// carrying the user id, role and session token. Sessions are never deduplicated.
func (s *sessionIssuer) IssueSession(ctx context.Context, user *model.User, remember bool, client model.ClientInfo) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", apperrors.Internal("generate session token", err)
	}

	now := s.now()
	session := &model.Session{
		Token:      token,
		UserID:     user.ID,
		CreatedAt:  now,
		IP:         client.IP,
		Browser:    client.Browser,
		OS:         client.OS,
		OSVersion:  client.OSVersion,
		DeviceName: client.DeviceName,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", apperrors.Internal("create session", err)
	}

	signed, err := s.jwt.GenerateToken(user.ID, user.Role(), token, remember, now)
	if err != nil {
		return "", apperrors.Internal("sign session token", err)
	}

	if s.policy.BruteForceEnabled {
		if err := s.users.ResetFailedLogins(ctx, user.ID, now); err != nil {
			s.logger.WarnContext(ctx, "failed to reset failed login counter", "user_id", user.ID, "error", err)
		}
	}

	return signed, nil
}
