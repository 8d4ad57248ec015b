package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/database"
)

func seedProduct(t *testing.T, sellerID uint, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		SellerID:  sellerID,
		Name:      name,
		Slug:      slugify(name),
		Price:     price,
		Stock:     stock,
		Published: true,
	}
	require.NoError(t, database.DB.Create(&product).Error)
	return product
}

func TestCheckoutDecrementsStockAndTotals(t *testing.T) {
	setupDB(t)
	s := NewOrderService()
	buyer := seedUser(t, "buyer@example.com", "", "user", true)
	merchant := seedUser(t, "seller@example.com", "", "seller", true)
	bottled := seedProduct(t, merchant.ID, "Bottled Lawlaw", 150, 10)
	dried := seedProduct(t, merchant.ID, "Dried Lawlaw", 80, 5)

	order, err := s.Checkout(buyer.ID, "Bulan, Sorsogon", []CheckoutItem{
		{ProductID: bottled.ID, Quantity: 2},
		{ProductID: dried.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.Reference)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 380, order.Total, 0.001)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, merchant.ID, order.Items[0].SellerID)

	var reloaded models.Product
	require.NoError(t, database.DB.First(&reloaded, bottled.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	setupDB(t)
	s := NewOrderService()
	buyer := seedUser(t, "buyer@example.com", "", "user", true)
	merchant := seedUser(t, "seller@example.com", "", "seller", true)
	bottled := seedProduct(t, merchant.ID, "Bottled Lawlaw", 150, 10)
	dried := seedProduct(t, merchant.ID, "Dried Lawlaw", 80, 1)

	_, err := s.Checkout(buyer.ID, "Bulan, Sorsogon", []CheckoutItem{
		{ProductID: bottled.ID, Quantity: 2},
		{ProductID: dried.ID, Quantity: 3},
	})
	assert.ErrorIs(t, err, ErrOutOfStock)

	// The whole transaction rolled back, including the first line's
	// stock decrement.
	var reloaded models.Product
	require.NoError(t, database.DB.First(&reloaded, bottled.ID).Error)
	assert.Equal(t, 10, reloaded.Stock)

	var orders int64
	database.DB.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestCheckoutUnknownProduct(t *testing.T) {
	setupDB(t)
	s := NewOrderService()
	buyer := seedUser(t, "buyer@example.com", "", "user", true)

	_, err := s.Checkout(buyer.ID, "Bulan", []CheckoutItem{{ProductID: 999, Quantity: 1}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatusFreeAssignment(t *testing.T) {
	setupDB(t)
	s := NewOrderService()
	buyer := seedUser(t, "buyer@example.com", "", "user", true)
	merchant := seedUser(t, "seller@example.com", "", "seller", true)
	product := seedProduct(t, merchant.ID, "Bottled Lawlaw", 150, 10)

	order, err := s.Checkout(buyer.ID, "Bulan", []CheckoutItem{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	// No transition table: delivered straight from pending, then back
	// to processing, is accepted.
	updated, err := s.SetStatus(order.ID, models.OrderStatusDelivered, merchant.ID, "seller")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	updated, err = s.SetStatus(order.ID, models.OrderStatusProcessing, merchant.ID, "seller")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	setupDB(t)
	s := NewOrderService()
	_, err := s.SetStatus(1, "teleported", 1, "admin")
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestSetStatusAuthorization(t *testing.T) {
	setupDB(t)
	s := NewOrderService()
	buyer := seedUser(t, "buyer@example.com", "", "user", true)
	merchant := seedUser(t, "seller@example.com", "", "seller", true)
	outsider := seedUser(t, "other@example.com", "", "seller", true)
	adminUser := seedUser(t, "admin@example.com", "", "admin", true)
	product := seedProduct(t, merchant.ID, "Bottled Lawlaw", 150, 10)

	order, err := s.Checkout(buyer.ID, "Bulan", []CheckoutItem{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	// The buyer never writes status, even on their own order.
	_, err = s.SetStatus(order.ID, models.OrderStatusShipped, buyer.ID, "user")
	assert.ErrorIs(t, err, ErrForbidden)

	// A seller with no item in the order is rejected.
	_, err = s.SetStatus(order.ID, models.OrderStatusShipped, outsider.ID, "seller")
	assert.ErrorIs(t, err, ErrForbidden)

	// The owning seller and any admin may write.
	_, err = s.SetStatus(order.ID, models.OrderStatusShipped, merchant.ID, "seller")
	require.NoError(t, err)
	_, err = s.SetStatus(order.ID, models.OrderStatusReady, adminUser.ID, "admin")
	require.NoError(t, err)
}

func TestTrackingIndependentOfStatus(t *testing.T) {
	setupDB(t)
	s := NewOrderService()
	buyer := seedUser(t, "buyer@example.com", "", "user", true)
	merchant := seedUser(t, "seller@example.com", "", "seller", true)
	product := seedProduct(t, merchant.ID, "Bottled Lawlaw", 150, 10)

	order, err := s.Checkout(buyer.ID, "Bulan", []CheckoutItem{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	// Tracking entries accumulate without touching the status field.
	_, err = s.AddTrackingUpdate(order.ID, models.OrderStatusShipped, "Sorsogon hub", "Left the facility", merchant.ID, "seller")
	require.NoError(t, err)
	_, err = s.AddTrackingUpdate(order.ID, models.OrderStatusDelivered, "Bulan", "Handed to recipient", merchant.ID, "seller")
	require.NoError(t, err)

	var reloaded models.Order
	require.NoError(t, database.DB.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status,
		"tracking writes never mutate the status field")

	// And a status write never grows the timeline.
	_, err = s.SetStatus(order.ID, models.OrderStatusCancelled, merchant.ID, "seller")
	require.NoError(t, err)

	_, history, err := s.Detail(order.ID, buyer.ID, "user")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.OrderStatusShipped, history[0].Status)
	assert.Equal(t, models.OrderStatusDelivered, history[1].Status)
	assert.Equal(t, "Sorsogon hub", history[0].Location)
}

func TestDetailVisibility(t *testing.T) {
	setupDB(t)
	s := NewOrderService()
	buyer := seedUser(t, "buyer@example.com", "", "user", true)
	merchant := seedUser(t, "seller@example.com", "", "seller", true)
	stranger := seedUser(t, "stranger@example.com", "", "user", true)
	product := seedProduct(t, merchant.ID, "Bottled Lawlaw", 150, 10)

	order, err := s.Checkout(buyer.ID, "Bulan", []CheckoutItem{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	_, _, err = s.Detail(order.ID, buyer.ID, "user")
	require.NoError(t, err)
	_, _, err = s.Detail(order.ID, merchant.ID, "seller")
	require.NoError(t, err)
	_, _, err = s.Detail(order.ID, stranger.ID, "user")
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = s.Detail(999, buyer.ID, "user")
	assert.ErrorIs(t, err, ErrNotFound)
}
