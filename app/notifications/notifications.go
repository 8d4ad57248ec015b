// Package notifications defines the user-facing notices the services
// send through the notification dispatcher.
package notifications

import (
	"fmt"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/notification"
)

// OrderStatusChanged tells a buyer their order moved to a new status.
type OrderStatusChanged struct {
	User   models.User
	Order  models.Order
	Status string
}

func (n OrderStatusChanged) Via() []string {
	return []string{notification.ChannelDatabase, notification.ChannelMail}
}

func (n OrderStatusChanged) ToMail() notification.MailData {
	return notification.MailData{
		To:      []string{n.User.Email},
		Subject: fmt.Sprintf("Order %s is now %s", n.Order.Reference, n.Status),
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your order <b>%s</b> is now <b>%s</b>.</p>",
			n.User.Name, n.Order.Reference, n.Status,
		),
	}
}

func (n OrderStatusChanged) ToDatabase() notification.DatabaseData {
	return notification.DatabaseData{
		UserID: n.User.ID,
		Type:   "order.status_changed",
		Data: map[string]interface{}{
			"order_id":  n.Order.ID,
			"reference": n.Order.Reference,
			"status":    n.Status,
		},
	}
}

// SellerReviewed tells an applicant the outcome of their review.
type SellerReviewed struct {
	User     models.User
	ShopName string
	Approved bool
	Reason   string
}

func (n SellerReviewed) Via() []string {
	return []string{notification.ChannelDatabase, notification.ChannelMail}
}

func (n SellerReviewed) ToMail() notification.MailData {
	if n.Approved {
		return notification.MailData{
			To:      []string{n.User.Email},
			Subject: "Your seller application was approved",
			Body: fmt.Sprintf(
				"<p>Hi %s,</p><p>Congratulations! <b>%s</b> can now sell on Lawlaw Delights.</p>",
				n.User.Name, n.ShopName,
			),
		}
	}
	return notification.MailData{
		To:      []string{n.User.Email},
		Subject: "Your seller application was not approved",
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>We could not approve <b>%s</b> at this time.</p><p>%s</p>",
			n.User.Name, n.ShopName, n.Reason,
		),
	}
}

func (n SellerReviewed) ToDatabase() notification.DatabaseData {
	return notification.DatabaseData{
		UserID: n.User.ID,
		Type:   "seller.reviewed",
		Data: map[string]interface{}{
			"shop_name": n.ShopName,
			"approved":  n.Approved,
			"reason":    n.Reason,
		},
	}
}

// LargeOrderPlaced pings the ops channel about a high-value checkout.
type LargeOrderPlaced struct {
	Order models.Order
}

func (n LargeOrderPlaced) Via() []string {
	return []string{notification.ChannelSlack}
}

func (n LargeOrderPlaced) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("Large order placed: %s", n.Order.Reference),
		Attachments: []notification.SlackAttachment{{
			Color: "#36a64f",
			Title: fmt.Sprintf("₱%.2f, %d items", n.Order.Total, len(n.Order.Items)),
		}},
	}
}
