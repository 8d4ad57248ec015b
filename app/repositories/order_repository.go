package repositories

import (
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
)

// OrderRepository handles orders, their items, and the append-only
// tracking history.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// CreateInTx persists an order with its items inside the caller's
// checkout transaction.
func (r *OrderRepository) CreateInTx(tx *orm.Query, order *models.Order) error {
	defer observe("orders.create")()
	return tx.Create(order)
}

// FindByID loads an order with its items and products.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	defer observe("orders.find")()
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").Preload("Items.Product").
		Where("id = ?", id).First(&order)
	return order, err
}

// ForUser returns one page of a buyer's orders, newest first.
func (r *OrderRepository) ForUser(userID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	defer observe("orders.for_user")()
	var orders []models.Order
	pagination, err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("id DESC").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// ForSeller returns one page of orders containing at least one of the
// seller's items.
func (r *OrderRepository) ForSeller(sellerID uint, status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	defer observe("orders.for_seller")()
	q := orm.DB().Model(&models.Order{}).
		Preload("Items").Preload("Items.Product").
		Where("id IN (?)", orm.DB().Gorm().Model(&models.OrderItem{}).
			Select("order_id").Where("seller_id = ?", sellerID))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	pagination, err := q.Order("id DESC").GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// All returns one page of every order, optionally filtered by status.
func (r *OrderRepository) All(status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	defer observe("orders.all")()
	q := orm.DB().Model(&models.Order{}).Preload("Items")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	pagination, err := q.Order("id DESC").GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// SetStatus overwrites the order's status field. The tracking history
// is a separate table and is not touched here.
func (r *OrderRepository) SetStatus(orderID uint, status string) error {
	defer observe("orders.set_status")()
	return orm.DB().Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{"status": status})
}

// AppendTracking adds one history entry. Entries are never updated or
// deleted.
func (r *OrderRepository) AppendTracking(eventRow *models.TrackingEvent) error {
	defer observe("tracking_events.append")()
	return orm.DB().Create(eventRow)
}

// TrackingHistory returns an order's history oldest first.
func (r *OrderRepository) TrackingHistory(orderID uint) ([]models.TrackingEvent, error) {
	defer observe("tracking_events.list")()
	var history []models.TrackingEvent
	err := orm.DB().Model(&models.TrackingEvent{}).
		Where("order_id = ?", orderID).
		Order("id ASC").Get(&history)
	return history, err
}

// SellerOwnsItem reports whether the seller has at least one item in
// the order.
func (r *OrderRepository) SellerOwnsItem(orderID, sellerID uint) (bool, error) {
	defer observe("order_items.seller_owns")()
	n, err := orm.DB().Model(&models.OrderItem{}).
		Where("order_id = ? AND seller_id = ?", orderID, sellerID).Count()
	return n > 0, err
}

// CountByStatus returns order counts keyed by status.
func (r *OrderRepository) CountByStatus() (map[string]int64, error) {
	defer observe("orders.count_by_status")()
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := orm.DB().Gorm().Model(&models.Order{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[string]int64{}
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}

// Since returns every order created at or after the cutoff, oldest
// first. Feeds the dashboard's per-day grouping.
func (r *OrderRepository) Since(cutoff time.Time) ([]models.Order, error) {
	defer observe("orders.since")()
	var orders []models.Order
	err := orm.DB().Gorm().Model(&models.Order{}).
		Where("created_at >= ?", cutoff).
		Order("created_at ASC").Find(&orders).Error
	return orders, err
}

// Revenue sums delivered order totals.
func (r *OrderRepository) Revenue() (float64, error) {
	defer observe("orders.revenue")()
	var total float64
	err := orm.DB().Gorm().Model(&models.Order{}).
		Where("status = ?", models.OrderStatusDelivered).
		Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	return total, err
}
