package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"gorm.io/gorm"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/mailer"
	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// OTPExpiry is how long a password reset code stays valid.
const OTPExpiry = 10 * time.Minute

// OTPService drives the password reset flow.
type OTPService interface {
	SendOTP(ctx context.Context, email string) error
	ResendOTP(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, otp, password string) error
}

type otpService struct {
	users    repository.UserRepository
	hasher   *auth.Hasher
	mailer   mailer.Mailer
	policy   config.Policy
	logger   *slog.Logger
	now      func() time.Time
	generate func() (string, error)
}

// NewOTPService creates a new OTP service.
func NewOTPService(
	users repository.UserRepository,
	hasher *auth.Hasher,
	m mailer.Mailer,
	policy config.Policy,
	logger *slog.Logger,
) OTPService {
	if logger == nil {
		logger = slog.Default()
	}
	return &otpService{
		users:    users,
		hasher:   hasher,
		mailer:   m,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
		generate: GenerateOTP,
	}
}

// GenerateOTP returns a random code between 1000 and 9999.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}

// SendOTP stores a fresh code for the user, overwriting any previous one,
// and mails it. A delivery failure fails the request.
func (s *otpService) SendOTP(ctx context.Context, email string) error {
	return s.issue(ctx, email)
}

// ResendOTP regenerates and re-sends the code exactly like SendOTP.
func (s *otpService) ResendOTP(ctx context.Context, email string) error {
	return s.issue(ctx, email)
}

func (s *otpService) issue(ctx context.Context, email string) error {
	user, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}

	code, err := s.generate()
	if err != nil {
		return apperrors.Internal("generate otp", err)
	}
	expires := s.now().Add(OTPExpiry)
	if err := s.users.SetPasswordResetOTP(ctx, user.ID, code, expires); err != nil {
		return apperrors.Internal("store otp", err)
	}

	err = s.mailer.Send(ctx, mailer.Message{
		To:       user.Email,
		Subject:  "Password reset code",
		Template: mailer.TemplateResetOTP,
		Vars: map[string]any{
			"Name":             user.Firstname,
			"OTP":              code,
			"ExpiresInMinutes": int(OTPExpiry / time.Minute),
		},
	})
	if err != nil {
		return apperrors.Internal("send otp email", err)
	}

	s.logger.InfoContext(ctx, "password reset otp issued", "user_id", user.ID)
	return nil
}

// ForgotPassword verifies email and otp without consuming the code.
func (s *otpService) ForgotPassword(ctx context.Context, email, otp string) error {
	_, err := s.verify(ctx, email, otp)
	return err
}

// ResetPassword verifies the code, then replaces the password hash and
// clears the code in a single conditional update.
func (s *otpService) ResetPassword(ctx context.Context, email, otp, password string) error {
	user, err := s.verify(ctx, email, otp)
	if err != nil {
		return err
	}
	if err := CheckPassword(password, s.policy); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.Internal("hash password", err)
	}

	ok, err := s.users.ResetPassword(ctx, user.ID, otp, hash, s.now())
	if err != nil {
		return apperrors.Internal("reset password", err)
	}
	if !ok {
		// consumed or expired between verify and update
		return apperrors.Validation("Invalid or expired OTP")
	}

	s.logger.InfoContext(ctx, "password reset", "user_id", user.ID)
	return nil
}

func (s *otpService) verify(ctx context.Context, email, otp string) (*model.User, error) {
	if !isOTPFormat(otp) {
		return nil, apperrors.Validation("OTP must be exactly 4 digits")
	}
	user, err := s.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.PasswordResetOTP == nil || subtle.ConstantTimeCompare([]byte(*user.PasswordResetOTP), []byte(otp)) != 1 {
		return nil, apperrors.Validation("Invalid OTP")
	}
	if user.PasswordResetExpires == nil || s.now().After(*user.PasswordResetExpires) {
		return nil, apperrors.Validation("OTP has expired")
	}
	return user, nil
}

func (s *otpService) lookup(ctx context.Context, email string) (*model.User, error) {
	if !VerifyEmailFormat(email) {
		return nil, apperrors.Validation("Please enter a valid email address")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("Sorry, it looks like " + email + " doesn't belong to any account")
		}
		return nil, apperrors.Internal("find user by email", err)
	}
	return user, nil
}

func isOTPFormat(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
