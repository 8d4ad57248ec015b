package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/repositories"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/middleware"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/resource"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
)

// NotificationController serves the in-app notification feed.
type NotificationController struct {
	notifications *repositories.NotificationRepository
}

func NewNotificationController() *NotificationController {
	return &NotificationController{notifications: repositories.NewNotificationRepository()}
}

// Index lists the caller's notifications, newest first.
func (c *NotificationController) Index(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	page, limit := pageParams(r)
	notifications, pagination, err := c.notifications.ForUser(userID, page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, resource.Slice(notifications, notificationOut), pagination)
}

// UnreadCount returns the caller's unread counter for the bell badge.
func (c *NotificationController) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	count, err := c.notifications.UnreadCount(userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.Map{"unread": count})
}

// MarkRead marks one notification read. Scoped to the caller so a user
// cannot mark another user's notification.
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid notification id")
		return
	}

	if err := c.notifications.MarkRead(userID, id); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.Map{"read": true})
}

// MarkAllRead clears the caller's unread counter.
func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	if err := c.notifications.MarkAllRead(userID); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, resource.Map{"read": true})
}

func notificationOut(n models.Notification) resource.Map {
	var payload interface{}
	if len(n.Data) > 0 {
		if err := json.Unmarshal(n.Data, &payload); err != nil {
			payload = string(n.Data)
		}
	}
	return resource.Map{
		"id":         n.ID,
		"type":       n.Type,
		"payload":    payload,
		"read_at":    n.ReadAt,
		"created_at": n.CreatedAt,
	}
}
