package models

import "gorm.io/gorm"

// Seller application states.
const (
	SellerApplicationPending  = "pending"
	SellerApplicationApproved = "approved"
	SellerApplicationRejected = "rejected"
)

// SellerApplication is a user's request to sell on the marketplace.
// Approval promotes the user's role to "seller".
type SellerApplication struct {
	gorm.Model
	UserID     uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	ShopName   string `gorm:"size:255;not null" json:"shop_name"`
	PermitPath string `gorm:"size:500" json:"permit_path"`
	Status     string `gorm:"size:50;default:pending;index" json:"status"`
	Reason     string `gorm:"size:500" json:"reason"`
	User       User   `gorm:"foreignKey:UserID" json:"-"`
}
