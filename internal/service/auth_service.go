package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/mailer"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// SignupInput is the registration request.
type SignupInput struct {
	Firstname string
	Lastname  string
	Username  string
	Email     string
	Password  string
	Client    model.ClientInfo
}

// SigninInput is the login request. Email takes precedence over Username.
type SigninInput struct {
	Email    string
	Username string
	Password string
	Remember bool
	Client   model.ClientInfo
}

// AuthResult is a signed session token and the redacted user it belongs to.
type AuthResult struct {
	Token string            `json:"token"`
	User  *model.PublicUser `json:"user"`
}

// AuthService handles registration and authentication.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Signin(ctx context.Context, in SigninInput) (*AuthResult, error)
	UsernameAvailable(ctx context.Context, username string, kind model.EntityKind) (bool, error)
}

type authService struct {
	users    repository.UserRepository
	identity IdentityService
	sessions SessionIssuer
	packages PackageService
	hasher   *auth.Hasher
	mailer   mailer.Mailer
	policy   config.Policy
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	identity IdentityService,
	sessions SessionIssuer,
	packages PackageService,
	hasher *auth.Hasher,
	m mailer.Mailer,
	policy config.Policy,
	logger *slog.Logger,
) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		users:    users,
		identity: identity,
		sessions: sessions,
		packages: packages,
		hasher:   hasher,
		mailer:   m,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

// Signup validates everything before writing the user row, then issues a session.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if !s.policy.RegistrationEnabled {
		return nil, apperrors.Authorization("Registration is closed right now")
	}

	if err := CheckName("first name", in.Firstname, s.policy); err != nil {
		return nil, err
	}
	if err := CheckName("last name", in.Lastname, s.policy); err != nil {
		return nil, err
	}

	if err := s.checkUsername(ctx, in.Username); err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, in.Email); err != nil {
		return nil, err
	}
	if err := CheckPassword(in.Password, s.policy); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.Internal("hash password", err)
	}

	code := uuid.NewString()
	user := &model.User{
		Group:                 model.GroupUser,
		Username:              in.Username,
		Email:                 in.Email,
		PasswordHash:          hash,
		Firstname:             titleCase(strings.TrimSpace(in.Firstname)),
		Lastname:              titleCase(strings.TrimSpace(in.Lastname)),
		Activated:             !s.policy.ActivationEnabled,
		Approved:              !s.policy.UsersApprovalEnabled,
		EmailVerificationCode: &code,
		Registered:            s.now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Validation("Sorry, it looks like this username or email belongs to an existing account")
		}
		return nil, apperrors.Internal("create user", err)
	}

	if s.policy.ActivationEnabled {
		if err := sendActivationEmail(ctx, s.mailer, user); err != nil {
			s.logger.ErrorContext(ctx, "failed to send activation email", "user_id", user.ID, "error", err)
		}
	} else {
		s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	}

	token, err := s.sessions.IssueSession(ctx, user, false, in.Client)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

func (s *authService) checkUsername(ctx context.Context, username string) error {
	if !VerifyUsernameFormat(username) {
		return apperrors.Validation("Please enter a valid username (a-z0-9_.) with minimum 3 characters long")
	}
	if s.identity.ReservedUsername(username, s.policy) {
		return apperrors.Validation(fmt.Sprintf("You can't use %s as username", username))
	}
	_, err := s.identity.GetUserByUsername(ctx, username, model.EntityUser)
	switch {
	case err == nil:
		return apperrors.Validation(fmt.Sprintf("Sorry, it looks like %s belongs to an existing account", username))
	case apperrors.Is(err, apperrors.KindNotFound):
		return nil
	default:
		return err
	}
}

// UsernameAvailable reports whether username is free within kind. A malformed
// name is a validation error; reserved and blacklisted names are unavailable.
func (s *authService) UsernameAvailable(ctx context.Context, username string, kind model.EntityKind) (bool, error) {
	if !VerifyUsernameFormat(username) {
		return false, apperrors.Validation("Please enter a valid username (a-z0-9_.) with minimum 3 characters long")
	}
	if s.identity.ReservedUsername(username, s.policy) {
		return false, nil
	}
	_, err := s.identity.GetUserByUsername(ctx, username, kind)
	switch {
	case err == nil:
		return false, nil
	case apperrors.Is(err, apperrors.KindNotFound):
		return true, nil
	case apperrors.Is(err, apperrors.KindValidation):
		return false, nil
	default:
		return false, err
	}
}

func (s *authService) checkEmail(ctx context.Context, email string) error {
	if !VerifyEmailFormat(email) {
		return apperrors.Validation("Please enter a valid email address")
	}
	_, err := s.identity.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return apperrors.Validation(fmt.Sprintf("Sorry, it looks like %s belongs to an existing account", email))
	case apperrors.Is(err, apperrors.KindNotFound):
		return nil
	default:
		return err
	}
}

// Signin authenticates by email or username, enforcing approval and the
// brute force lockout, and issues a session.
func (s *authService) Signin(ctx context.Context, in SigninInput) (*AuthResult, error) {
	user, err := s.findForSignin(ctx, in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	lockout := time.Duration(s.policy.BruteForceLockoutTime) * time.Minute
	windowOpen := user.FirstFailedLogin != nil && now.Sub(*user.FirstFailedLogin) < lockout

	if s.policy.BruteForceEnabled && windowOpen && user.FailedLoginCount >= s.policy.BruteForceBadLoginLimit {
		return nil, apperrors.Authorization(fmt.Sprintf(
			"Your account currently locked out, Please try again later after %d minutes", s.policy.BruteForceLockoutTime))
	}

	if !s.hasher.Matches(user.PasswordHash, in.Password) {
		if s.policy.BruteForceEnabled {
			count, first := 1, now
			if windowOpen {
				count, first = user.FailedLoginCount+1, *user.FirstFailedLogin
			}
			if err := s.users.RecordFailedLogin(ctx, user.ID, count, first); err != nil {
				s.logger.WarnContext(ctx, "failed to record failed login", "user_id", user.ID, "error", err)
			}
		}
		return nil, apperrors.Validation("Please re-enter your password, the password you entered is incorrect")
	}

	if s.policy.UsersApprovalEnabled && !user.Approved {
		return nil, apperrors.Authorization("Your account is pending admin approval")
	}

	token, err := s.sessions.IssueSession(ctx, user, in.Remember, in.Client)
	if err != nil {
		return nil, err
	}

	public := user.Public()
	if s.policy.PackagesEnabled && s.packages != nil {
		status := s.packages.Status(ctx, user)
		public.WithPackage(status.Active, status.Name)
	} else {
		public.WithPackage(false, "")
	}

	s.logger.InfoContext(ctx, "user signed in", "user_id", user.ID)
	return &AuthResult{Token: token, User: public}, nil
}

func (s *authService) findForSignin(ctx context.Context, in SigninInput) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	switch {
	case in.Email != "":
		if !VerifyEmailFormat(in.Email) {
			return nil, apperrors.Validation("Please enter a valid email address")
		}
		user, err = s.users.FindByEmail(ctx, in.Email)
	case in.Username != "":
		user, err = s.users.FindByUsername(ctx, in.Username)
	default:
		return nil, apperrors.Validation("You must enter your email or username")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("The email or username you entered does not belong to any account")
		}
		return nil, apperrors.Internal("find user", err)
	}
	return user, nil
}

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	start := true
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if start {
			r = unicode.ToUpper(r)
		}
		start = unicode.IsSpace(r)
		b.WriteRune(r)
	}
	return b.String()
}
