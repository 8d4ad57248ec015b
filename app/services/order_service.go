package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/repositories"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/event"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/metrics"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/orm"
)

// CheckoutItem is one requested order line.
type CheckoutItem struct {
	ProductID uint `json:"product_id" validate:"required,numeric"`
	Quantity  int  `json:"quantity" validate:"required,gte=1"`
}

// StatusChange is the payload fired on "order.status_changed".
type StatusChange struct {
	Order  models.Order
	Status string
	Actor  uint
}

// TrackingAdded is the payload fired on "order.tracking_added".
type TrackingAdded struct {
	Order models.Order
	Event models.TrackingEvent
}

// OrderService covers checkout, buyer queries, status assignment, and
// the tracking timeline.
type OrderService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:   repositories.NewOrderRepository(),
		products: repositories.NewProductRepository(),
	}
}

// Checkout places an order. Stock rows are locked and decremented in
// one transaction so two buyers cannot oversell a product.
func (s *OrderService) Checkout(userID uint, address string, items []CheckoutItem) (models.Order, error) {
	if len(items) == 0 {
		return models.Order{}, ErrInvalid
	}

	order := models.Order{
		Reference:       uuid.NewString(),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		ShippingAddress: address,
	}

	err := orm.Transaction(func(tx *orm.Query) error {
		for _, item := range items {
			if item.Quantity < 1 {
				return ErrInvalid
			}
			product, err := s.products.LockForUpdate(tx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if !product.Published {
				return ErrNotFound
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
			}

			product.Stock -= item.Quantity
			if err := tx.Save(&product); err != nil {
				return err
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID: product.ID,
				SellerID:  product.SellerID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
			order.Total += product.Price * float64(item.Quantity)
		}
		return s.orders.CreateInTx(tx, &order)
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrdersPlacedTotal.WithLabelValues().Inc()
	event.Fire("order.placed", order)
	return order, nil
}

// ForBuyer returns one page of the buyer's own orders.
func (s *OrderService) ForBuyer(userID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.ForUser(userID, page, limit)
}

// Detail returns an order with its items and tracking timeline,
// visible to its buyer, a seller with an item in it, or an admin.
func (s *OrderService) Detail(orderID, actorID uint, role string) (models.Order, []models.TrackingEvent, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, nil, ErrNotFound
		}
		return models.Order{}, nil, err
	}

	if err := s.authorize(order, actorID, role); err != nil {
		return models.Order{}, nil, err
	}

	history, err := s.orders.TrackingHistory(orderID)
	if err != nil {
		return models.Order{}, nil, err
	}
	return order, history, nil
}

// ForSeller returns one page of orders containing the seller's items.
func (s *OrderService) ForSeller(sellerID uint, status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, orm.Pagination{}, ErrBadStatus
	}
	return s.orders.ForSeller(sellerID, status, page, limit)
}

// All returns one page of every order. Admin surface.
func (s *OrderService) All(status string, page, limit int) ([]models.Order, orm.Pagination, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, orm.Pagination{}, ErrBadStatus
	}
	return s.orders.All(status, page, limit)
}

// SetStatus assigns any enumerated status to the order. Sellers may
// only touch orders that contain their items; admins may touch any.
// The tracking timeline is not written here.
func (s *OrderService) SetStatus(orderID uint, status string, actorID uint, role string) (models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return models.Order{}, ErrBadStatus
	}

	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}
	if err := s.authorizeWrite(order, actorID, role); err != nil {
		return models.Order{}, err
	}

	if err := s.orders.SetStatus(orderID, status); err != nil {
		return models.Order{}, err
	}
	order.Status = status

	metrics.OrderStatusTotal.WithLabelValues(status).Inc()
	event.Fire("order.status_changed", StatusChange{Order: order, Status: status, Actor: actorID})
	return order, nil
}

// AddTrackingUpdate appends one timeline entry. It never modifies the
// order's status field.
func (s *OrderService) AddTrackingUpdate(orderID uint, status, location, description string, actorID uint, role string) (models.TrackingEvent, error) {
	if !models.ValidOrderStatus(status) {
		return models.TrackingEvent{}, ErrBadStatus
	}

	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TrackingEvent{}, ErrNotFound
		}
		return models.TrackingEvent{}, err
	}
	if err := s.authorizeWrite(order, actorID, role); err != nil {
		return models.TrackingEvent{}, err
	}

	entry := models.TrackingEvent{
		OrderID:     orderID,
		Status:      status,
		Location:    location,
		Description: description,
		RecordedBy:  actorID,
	}
	if err := s.orders.AppendTracking(&entry); err != nil {
		return models.TrackingEvent{}, err
	}

	event.Fire("order.tracking_added", TrackingAdded{Order: order, Event: entry})
	return entry, nil
}

// SetShippingDetails records the courier handoff data on the order.
func (s *OrderService) SetShippingDetails(orderID uint, trackingNumber, courier string, eta *time.Time, actorID uint, role string) (models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}
	if err := s.authorizeWrite(order, actorID, role); err != nil {
		return models.Order{}, err
	}

	order.TrackingNumber = trackingNumber
	order.Courier = courier
	order.EstimatedDeliveryDate = eta
	if err := orm.DB().Save(&order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *OrderService) authorize(order models.Order, actorID uint, role string) error {
	if role == auth.RoleAdmin || order.UserID == actorID {
		return nil
	}
	if role == auth.RoleSeller {
		owns, err := s.orders.SellerOwnsItem(order.ID, actorID)
		if err != nil {
			return err
		}
		if owns {
			return nil
		}
	}
	return ErrForbidden
}

// authorizeWrite limits status and tracking writes to admins and
// sellers with an item in the order. Buyers never write.
func (s *OrderService) authorizeWrite(order models.Order, actorID uint, role string) error {
	if role == auth.RoleAdmin {
		return nil
	}
	if role == auth.RoleSeller {
		owns, err := s.orders.SellerOwnsItem(order.ID, actorID)
		if err != nil {
			return err
		}
		if owns {
			return nil
		}
	}
	return ErrForbidden
}
