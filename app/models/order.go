package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Any status may be assigned at any time by a seller
// or admin; there is no enforced transition order.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusReady      = "ready"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists every accepted status value.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a known status.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order is a placed checkout. Reference is the customer-facing ID.
type Order struct {
	gorm.Model
	Reference             string      `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	UserID                uint        `gorm:"not null;index" json:"user_id"`
	Status                string      `gorm:"size:50;default:pending;index" json:"status"`
	Total                 float64     `gorm:"not null;default:0" json:"total"`
	ShippingAddress       string      `gorm:"size:500" json:"shipping_address"`
	TrackingNumber        string      `gorm:"size:100" json:"tracking_number"`
	Courier               string      `gorm:"size:100" json:"courier"`
	EstimatedDeliveryDate *time.Time  `json:"estimated_delivery_date"`
	Items                 []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	User                  User        `gorm:"foreignKey:UserID" json:"-"`
}

// OrderItem is one product line within an order. UnitPrice is copied
// at checkout so later price edits do not rewrite history.
type OrderItem struct {
	gorm.Model
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	SellerID  uint    `gorm:"not null;index" json:"seller_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TrackingEvent is one append-only entry in an order's tracking
// history. The history is independent of the order's status field:
// recording an event never changes Order.Status and vice versa.
type TrackingEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	Status      string    `gorm:"size:50;not null" json:"status"`
	Location    string    `gorm:"size:255" json:"location"`
	Description string    `gorm:"size:500" json:"description"`
	RecordedBy  uint      `gorm:"index" json:"recorded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
