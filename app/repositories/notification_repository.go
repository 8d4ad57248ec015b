package repositories

import (
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
)

// NotificationRepository handles in-app inbox rows.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// Create persists an inbox row. Wired to the database notification
// channel at boot.
func (r *NotificationRepository) Create(userID uint, notificationType string, payload []byte) error {
	defer observe("notifications.create")()
	return orm.DB().Create(&models.Notification{
		UserID: userID,
		Type:   notificationType,
		Data:   payload,
	})
}

// ForUser returns one page of a user's notifications, newest first.
func (r *NotificationRepository) ForUser(userID uint, page, limit int) ([]models.Notification, orm.Pagination, error) {
	defer observe("notifications.for_user")()
	var notifications []models.Notification
	pagination, err := orm.DB().Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Order("id DESC").
		GetWithPagination(&notifications, page, limit)
	return notifications, pagination, err
}

// UnreadCount returns how many rows the user has not opened.
func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	defer observe("notifications.unread_count")()
	return orm.DB().Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).Count()
}

// MarkRead stamps a single row as read, scoped to its owner.
func (r *NotificationRepository) MarkRead(userID, id uint) error {
	defer observe("notifications.mark_read")()
	now := time.Now().UTC()
	return orm.DB().Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"read_at": &now})
}

// MarkAllRead stamps every unread row for the user.
func (r *NotificationRepository) MarkAllRead(userID uint) error {
	defer observe("notifications.mark_all_read")()
	now := time.Now().UTC()
	return orm.DB().Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Updates(map[string]interface{}{"read_at": &now})
}
