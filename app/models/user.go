package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account holder. Role starts as "user" and can be
// promoted to "seller" or "admin" by an administrator.
type User struct {
	gorm.Model
	Name          string `gorm:"size:255;not null" json:"name"`
	Email         string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone         string `gorm:"size:32;index" json:"phone"`
	Password      string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role          string `gorm:"size:50;default:user;index" json:"role"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`
	Blocked       bool   `gorm:"default:false" json:"blocked"`
	Address       string `gorm:"size:500" json:"address"`
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool { return u.Role == "admin" }

// IsSeller reports whether the account has the seller role.
func (u *User) IsSeller() bool { return u.Role == "seller" }

// PendingRegistration holds a signup that has not verified its email
// yet. The account row is only created after OTP verification.
type PendingRegistration struct {
	gorm.Model
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}
