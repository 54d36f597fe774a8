package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"socialnet/internal/model"
)

// UserRepository defines persistence operations on users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// FindNameOwner returns the id of the user, page or group owning name.
	FindNameOwner(ctx context.Context, kind model.EntityKind, name string) (uint, error)
	SetPasswordResetOTP(ctx context.Context, userID uint, otp string, expires time.Time) error
	// ResetPassword stores the new hash and clears the OTP in one statement.
	// It reports false when the OTP no longer matches or has expired.
	ResetPassword(ctx context.Context, userID uint, otp, passwordHash string, now time.Time) (bool, error)
	RecordFailedLogin(ctx context.Context, userID uint, count int, first time.Time) error
	ResetFailedLogins(ctx context.Context, userID uint, now time.Time) error
	SetVerificationCode(ctx context.Context, userID uint, code string) error
	// Activate marks the account activated and clears the verification code
	// when code matches. It reports false otherwise.
	Activate(ctx context.Context, userID uint, code string, approve bool) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("user_email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("user_name = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindNameOwner(ctx context.Context, kind model.EntityKind, name string) (uint, error) {
	db := r.db.WithContext(ctx)
	switch kind {
	case model.EntityUser:
		var user model.User
		if err := db.Select("user_id").Where("user_name = ?", name).First(&user).Error; err != nil {
			return 0, err
		}
		return user.ID, nil
	case model.EntityPage:
		var page model.Page
		if err := db.Select("page_id").Where("page_name = ?", name).First(&page).Error; err != nil {
			return 0, err
		}
		return page.ID, nil
	case model.EntityGroup:
		var group model.Group
		if err := db.Select("group_id").Where("group_name = ?", name).First(&group).Error; err != nil {
			return 0, err
		}
		return group.ID, nil
	default:
		return 0, fmt.Errorf("unsupported entity kind %q", kind)
	}
}

func (r *userRepository) SetPasswordResetOTP(ctx context.Context, userID uint, otp string, expires time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"password_reset_otp":     otp,
			"password_reset_expires": expires,
		}).Error
}

func (r *userRepository) ResetPassword(ctx context.Context, userID uint, otp, passwordHash string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ? AND password_reset_otp = ? AND password_reset_expires >= ?", userID, otp, now).
		Updates(map[string]interface{}{
			"user_password":          passwordHash,
			"password_reset_otp":     nil,
			"password_reset_expires": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) RecordFailedLogin(ctx context.Context, userID uint, count int, first time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"user_failed_login_count": count,
			"user_first_failed_login": first,
		}).Error
}

func (r *userRepository) ResetFailedLogins(ctx context.Context, userID uint, now time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"user_failed_login_count": 0,
			"user_first_failed_login": nil,
			"user_last_login":         now,
		}).Error
}

func (r *userRepository) SetVerificationCode(ctx context.Context, userID uint, code string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("user_email_verification_code", code).Error
}

func (r *userRepository) Activate(ctx context.Context, userID uint, code string, approve bool) (bool, error) {
	updates := map[string]interface{}{
		"user_activated":               true,
		"user_email_verification_code": nil,
	}
	if approve {
		updates["user_approved"] = true
	}
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ? AND user_email_verification_code = ?", userID, code).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
