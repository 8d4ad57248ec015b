package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is an in-app inbox row created by the database
// notification channel.
type Notification struct {
	gorm.Model
	UserID uint       `gorm:"not null;index" json:"user_id"`
	Type   string     `gorm:"size:191;not null" json:"type"`
	Data   []byte     `gorm:"type:text" json:"data"`
	ReadAt *time.Time `json:"read_at"`
}

// Read reports whether the user has opened the notification.
func (n *Notification) Read() bool { return n.ReadAt != nil }
