package controllers

import (
	"net/http"
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/models"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/services"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/bind"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/middleware"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/resource"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/validate"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/ws"
)

// OrderController serves checkout, buyer orders, and the seller/admin
// fulfilment surface.
type OrderController struct {
	orders *services.OrderService
	hub    *ws.Hub
}

func NewOrderController(hub *ws.Hub) *OrderController {
	return &OrderController{orders: services.NewOrderService(), hub: hub}
}

type checkoutInput struct {
	ShippingAddress string                  `json:"shipping_address" validate:"required,max=500"`
	Items           []services.CheckoutItem `json:"items"`
}

// Checkout places an order for the caller.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in checkoutInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}
	if len(in.Items) == 0 {
		response.ValidationError(w, map[string]string{"items": "at least one item is required"})
		return
	}

	order, err := c.orders.Checkout(userID, in.ShippingAddress, in.Items)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, orderOut(order))
}

// Mine lists the caller's own orders.
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	page, limit := pageParams(r)
	orders, pagination, err := c.orders.ForBuyer(userID, page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, resource.Slice(orders, orderOut), pagination)
}

// Detail shows one order with its tracking timeline.
func (c *OrderController) Detail(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid order id")
		return
	}

	order, history, err := c.orders.Detail(id, claims.UserID, claims.Role)
	if err != nil {
		fail(w, r, err)
		return
	}

	out := orderOut(order)
	out["tracking_history"] = resource.Slice(history, trackingOut)
	response.Success(w, out)
}

// SellerOrders lists orders containing the caller's items.
func (c *OrderController) SellerOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	page, limit := pageParams(r)
	orders, pagination, err := c.orders.ForSeller(userID, r.URL.Query().Get("status"), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, resource.Slice(orders, orderOut), pagination)
}

// All lists every order. Admin surface.
func (c *OrderController) All(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	orders, pagination, err := c.orders.All(r.URL.Query().Get("status"), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, resource.Slice(orders, orderOut), pagination)
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

// SetStatus assigns a status. Seller (owner) or admin only.
func (c *OrderController) SetStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid order id")
		return
	}

	var in statusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.SetStatus(id, in.Status, claims.UserID, claims.Role)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orderOut(order))
}

type trackingInput struct {
	Status      string `json:"status" validate:"required"`
	Location    string `json:"location" validate:"nullable,max=255"`
	Description string `json:"description" validate:"required,max=500"`
}

// AddTracking appends a timeline entry without touching the status
// field.
func (c *OrderController) AddTracking(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid order id")
		return
	}

	var in trackingInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	entry, err := c.orders.AddTrackingUpdate(id, in.Status, in.Location, in.Description, claims.UserID, claims.Role)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, trackingOut(entry))
}

type shippingInput struct {
	TrackingNumber        string `json:"tracking_number" validate:"required,max=100"`
	Courier               string `json:"courier" validate:"required,max=100"`
	EstimatedDeliveryDate string `json:"estimated_delivery_date" validate:"nullable"`
}

// SetShipping records courier handoff details.
func (c *OrderController) SetShipping(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := urlID(r)
	if !ok {
		response.BadRequest(w, "invalid order id")
		return
	}

	var in shippingInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, "malformed request body")
		return
	} else if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	var eta *time.Time
	if in.EstimatedDeliveryDate != "" {
		parsed, err := time.Parse("2006-01-02", in.EstimatedDeliveryDate)
		if err != nil {
			response.ValidationError(w, map[string]string{
				"estimated_delivery_date": "must be a YYYY-MM-DD date",
			})
			return
		}
		eta = &parsed
	}

	order, err := c.orders.SetShippingDetails(id, in.TrackingNumber, in.Courier, eta, claims.UserID, claims.Role)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orderOut(order))
}

// Feed upgrades the connection to the live order feed. Sellers and
// admins subscribe to the orders topic.
func (c *OrderController) Feed(w http.ResponseWriter, r *http.Request) {
	if err := c.hub.Upgrade(w, r, "orders"); err != nil {
		response.BadRequest(w, "websocket upgrade failed")
	}
}

func orderOut(o models.Order) resource.Map {
	return resource.Map{
		"id":                      o.ID,
		"reference":               o.Reference,
		"user_id":                 o.UserID,
		"status":                  o.Status,
		"total":                   o.Total,
		"shipping_address":        o.ShippingAddress,
		"tracking_number":         o.TrackingNumber,
		"courier":                 o.Courier,
		"estimated_delivery_date": o.EstimatedDeliveryDate,
		"items":                   resource.Slice(o.Items, orderItemOut),
		"created_at":              o.CreatedAt,
	}
}

func orderItemOut(i models.OrderItem) resource.Map {
	out := resource.Map{
		"id":         i.ID,
		"product_id": i.ProductID,
		"seller_id":  i.SellerID,
		"quantity":   i.Quantity,
		"unit_price": i.UnitPrice,
	}
	if i.Product.ID != 0 {
		out["product_name"] = i.Product.Name
	}
	return out
}

func trackingOut(e models.TrackingEvent) resource.Map {
	return resource.Map{
		"id":          e.ID,
		"status":      e.Status,
		"location":    e.Location,
		"description": e.Description,
		"created_at":  e.CreatedAt,
	}
}
