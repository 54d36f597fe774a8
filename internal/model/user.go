package model

import "time"

// User group ids as stored in users.user_group.
const (
	GroupAdmin     = 1
	GroupModerator = 2
	GroupUser      = 3
)

// Role is the computed authorization role encoded in session tokens.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// RoleForGroup maps the numeric user group to a role.
func RoleForGroup(group int) Role {
	switch group {
	case GroupAdmin:
		return RoleAdmin
	case GroupUser:
		return RoleUser
	default:
		return RoleModerator
	}
}

// User represents a registered account.
// Secret columns are never serialized; clients only ever receive PublicUser.
type User struct {
	ID                    uint       `json:"user_id" gorm:"column:user_id;primaryKey"`
	Group                 int        `json:"user_group" gorm:"column:user_group;not null;default:3"`
	Username              string     `json:"user_name" gorm:"column:user_name;size:64;uniqueIndex;not null"`
	Email                 string     `json:"user_email" gorm:"column:user_email;size:191;uniqueIndex;not null"`
	PasswordHash          string     `json:"-" gorm:"column:user_password;size:255;not null"`
	Firstname             string     `json:"user_firstname" gorm:"column:user_firstname;size:255;not null"`
	Lastname              string     `json:"user_lastname" gorm:"column:user_lastname;size:255;not null"`
	Picture               string     `json:"user_picture" gorm:"column:user_picture;size:255"`
	Activated             bool       `json:"user_activated" gorm:"column:user_activated;not null;default:false"`
	Approved              bool       `json:"user_approved" gorm:"column:user_approved;not null;default:false"`
	EmailVerificationCode *string    `json:"-" gorm:"column:user_email_verification_code;size:64"`
	TwoFactorKey          *string    `json:"-" gorm:"column:user_two_factor_key;size:64"`
	ResetKey              *string    `json:"-" gorm:"column:user_reset_key;size:64"`
	PasswordResetOTP      *string    `json:"-" gorm:"column:password_reset_otp;size:4"`
	PasswordResetExpires  *time.Time `json:"-" gorm:"column:password_reset_expires"`
	FailedLoginCount      int        `json:"-" gorm:"column:user_failed_login_count;not null;default:0"`
	FirstFailedLogin      *time.Time `json:"-" gorm:"column:user_first_failed_login"`
	Subscribed            bool       `json:"-" gorm:"column:user_subscribed;not null;default:false"`
	PackageID             *uint      `json:"-" gorm:"column:user_package"`
	SubscriptionDate      *time.Time `json:"-" gorm:"column:user_subscription_date"`
	Registered            time.Time  `json:"user_registered" gorm:"column:user_registered;autoCreateTime"`
	LastLogin             *time.Time `json:"-" gorm:"column:user_last_login"`
}

// TableName overrides the default table name.
func (User) TableName() string {
	return "users"
}

// Role returns the role derived from the user's group.
func (u *User) Role() Role {
	return RoleForGroup(u.Group)
}

// PublicUser is the redacted view of a user returned to clients.
// It has no field for password hashes, verification codes, two-factor
// secrets, reset keys or OTPs, so they cannot leak through it.
type PublicUser struct {
	ID            uint      `json:"user_id"`
	Group         int       `json:"user_group"`
	Role          Role      `json:"role"`
	Username      string    `json:"user_name"`
	Email         string    `json:"user_email"`
	Firstname     string    `json:"user_firstname"`
	Lastname      string    `json:"user_lastname"`
	Fullname      string    `json:"user_fullname"`
	Picture       string    `json:"user_picture"`
	Activated     bool      `json:"user_activated"`
	Approved      bool      `json:"user_approved"`
	Registered    time.Time `json:"user_registered"`
	PackageActive *bool     `json:"packageactive,omitempty"`
	PackageName   string    `json:"packageName,omitempty"`
}

// Public returns the redacted representation of u.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:         u.ID,
		Group:      u.Group,
		Role:       u.Role(),
		Username:   u.Username,
		Email:      u.Email,
		Firstname:  u.Firstname,
		Lastname:   u.Lastname,
		Fullname:   u.Firstname + " " + u.Lastname,
		Picture:    u.Picture,
		Activated:  u.Activated,
		Approved:   u.Approved,
		Registered: u.Registered,
	}
}

// WithPackage augments the public user with package status fields.
func (p *PublicUser) WithPackage(active bool, name string) *PublicUser {
	p.PackageActive = &active
	p.PackageName = name
	return p
}
