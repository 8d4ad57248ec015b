package models

import (
	"time"

	"gorm.io/gorm"
)

// EmailOtp is an active email verification code. Codes are stored as
// SHA-256 hashes, one active row per address; issuing a new code
// replaces the previous one.
type EmailOtp struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CodeHash  string    `gorm:"size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}

// Expired reports whether the code's window has closed.
func (o *EmailOtp) Expired(now time.Time) bool { return now.After(o.ExpiresAt) }

// PhoneOtp is an active phone verification code. Same contract as
// EmailOtp with its own, longer validity window.
type PhoneOtp struct {
	gorm.Model
	Phone     string    `gorm:"uniqueIndex;size:32;not null" json:"phone"`
	CodeHash  string    `gorm:"size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}

// Expired reports whether the code's window has closed.
func (o *PhoneOtp) Expired(now time.Time) bool { return now.After(o.ExpiresAt) }
