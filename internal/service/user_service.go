package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialnet/internal/cache"
	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/mailer"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes profile and account activation operations.
type UserService interface {
	Me(ctx context.Context, userID uint) (*model.PublicUser, error)
	Activate(ctx context.Context, userID uint, code string) error
	ResendActivation(ctx context.Context, userID uint) error
}

type userService struct {
	repo     repository.UserRepository
	packages PackageService
	mailer   mailer.Mailer
	cache    cache.Store
	policy   config.Policy
	logger   *slog.Logger
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(
	repo repository.UserRepository,
	packages PackageService,
	m mailer.Mailer,
	store cache.Store,
	policy config.Policy,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{repo: repo, packages: packages, mailer: m, cache: store, policy: policy, logger: logger}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Me returns the redacted profile of the user, served from cache when possible.
func (s *userService) Me(ctx context.Context, userID uint) (*model.PublicUser, error) {
	var cached model.PublicUser
	if s.cache != nil && s.cache.GetJSON(ctx, s.cacheKey(userID), &cached) {
		return &cached, nil
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	if s.policy.PackagesEnabled && s.packages != nil {
		status := s.packages.Status(ctx, user)
		public.WithPackage(status.Active, status.Name)
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, s.cacheKey(userID), public, userCacheTTL)
	}
	return public, nil
}

// Activate consumes the email verification code.
func (s *userService) Activate(ctx context.Context, userID uint, code string) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if user.Activated {
		return apperrors.Validation("Your account is already activated")
	}
	if code == "" {
		return apperrors.Validation("Invalid activation code")
	}

	ok, err := s.repo.Activate(ctx, userID, code, !s.policy.UsersApprovalEnabled)
	if err != nil {
		return apperrors.Internal("activate user", err)
	}
	if !ok {
		return apperrors.Validation("Invalid activation code")
	}

	if s.cache != nil {
		s.cache.Delete(ctx, s.cacheKey(userID))
	}
	s.logger.InfoContext(ctx, "user activated", "user_id", userID)
	return nil
}

// ResendActivation replaces the verification code and mails it again.
func (s *userService) ResendActivation(ctx context.Context, userID uint) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if user.Activated {
		return apperrors.Validation("Your account is already activated")
	}

	code := uuid.NewString()
	if err := s.repo.SetVerificationCode(ctx, userID, code); err != nil {
		return apperrors.Internal("store verification code", err)
	}
	user.EmailVerificationCode = &code

	if err := sendActivationEmail(ctx, s.mailer, user); err != nil {
		return apperrors.Internal("send activation email", err)
	}
	return nil
}

func (s *userService) load(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("find user", err)
	}
	return user, nil
}

func sendActivationEmail(ctx context.Context, m mailer.Mailer, user *model.User) error {
	code := ""
	if user.EmailVerificationCode != nil {
		code = *user.EmailVerificationCode
	}
	return m.Send(ctx, mailer.Message{
		To:       user.Email,
		Subject:  "Just one more step to get started",
		Template: mailer.TemplateActivation,
		Vars: map[string]any{
			"Name":   user.Firstname,
			"UserID": user.ID,
			"Code":   code,
		},
	})
}
