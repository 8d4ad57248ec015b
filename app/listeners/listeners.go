// Package listeners wires domain events to notifications and the live
// order feed. Register is called once at boot, after the hub and the
// notification store are configured.
package listeners

import (
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/notifications"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/repositories"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/services"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/event"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/notification"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/ws"
)

// largeOrderThreshold is the order total above which ops gets a Slack
// ping.
const largeOrderThreshold = 10000.0

// Register hooks every listener up. hub may be nil in worker processes
// that have no websocket surface.
func Register(hub *ws.Hub) {
	users := repositories.NewUserRepository()

	event.Listen("order.placed", func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		if hub != nil {
			hub.Broadcast("orders", "placed", orderSummary(order))
		}
		if order.Total >= largeOrderThreshold {
			notification.SendAsync(notifications.LargeOrderPlaced{Order: order})
		}
	})

	event.Listen("order.status_changed", func(payload interface{}) {
		change, ok := payload.(services.StatusChange)
		if !ok {
			return
		}
		if hub != nil {
			hub.Broadcast("orders", "status_changed", map[string]interface{}{
				"order_id":  change.Order.ID,
				"reference": change.Order.Reference,
				"status":    change.Status,
			})
		}
		buyer, err := users.FindByID(change.Order.UserID)
		if err != nil {
			logger.Warn("status notification skipped, buyer lookup failed",
				"order_id", change.Order.ID, "error", err)
			return
		}
		notification.SendAsync(notifications.OrderStatusChanged{
			User:   buyer,
			Order:  change.Order,
			Status: change.Status,
		})
	})

	event.Listen("order.tracking_added", func(payload interface{}) {
		added, ok := payload.(services.TrackingAdded)
		if !ok {
			return
		}
		if hub != nil {
			hub.Broadcast("orders", "tracking_added", map[string]interface{}{
				"order_id":    added.Order.ID,
				"reference":   added.Order.Reference,
				"status":      added.Event.Status,
				"location":    added.Event.Location,
				"description": added.Event.Description,
			})
		}
	})

	event.Listen("user.registered", func(payload interface{}) {
		user, ok := payload.(models.User)
		if !ok {
			return
		}
		logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	})

	event.Listen("seller.applied", func(payload interface{}) {
		application, ok := payload.(models.SellerApplication)
		if !ok {
			return
		}
		logger.Info("seller application submitted",
			"application_id", application.ID, "user_id", application.UserID)
	})
}

func orderSummary(o models.Order) map[string]interface{} {
	return map[string]interface{}{
		"order_id":  o.ID,
		"reference": o.Reference,
		"total":     o.Total,
		"status":    o.Status,
	}
}
