// Package routes assembles the HTTP surface. Route paths line up with
// the access classifier's prefix lists; a path added here that needs
// protection must also appear in the classifier.
package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/access"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/controllers"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/auth"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/metrics"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/middleware"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/rbac"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/reqid"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/router"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/session"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/ws"
)

// Register builds the full route table on r.
func Register(r *router.Router, hub *ws.Hub) {
	r.Use(
		metrics.Middleware(routePattern),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(corsOptions()),
		middleware.RateLimit(120, time.Minute),
		session.Middleware(session.DefaultOptions()),
		middleware.ResolveClaims,
		access.Middleware,
	)

	authC := controllers.NewAuthController()
	otpC := controllers.NewOtpController()
	productC := controllers.NewProductController()
	orderC := controllers.NewOrderController(hub)
	sellerC := controllers.NewSellerController()
	adminC := controllers.NewAdminController()
	notificationC := controllers.NewNotificationController()

	// Public storefront.
	r.Get("/products", "products.index", productC.Storefront)
	r.Get("/products/{slug}", "products.show", productC.Show)
	r.Get("/categories", "categories.index", productC.Categories)

	// Auth pages. Access middleware bounces verified logged-in callers
	// to /profile.
	r.Post("/register", "auth.register", authC.Register)
	r.Post("/login", "auth.login", authC.Login)
	r.Post("/logout", "auth.logout", authC.Logout)
	r.Post("/refresh", "auth.refresh", authC.Refresh)

	// OTP issuance and verification.
	otp := r.Group("/verify-otp")
	otp.Post("/email/send", "otp.email.send", otpC.SendEmail)
	otp.Post("/email", "otp.email.verify", otpC.VerifyEmail)
	otp.Post("/phone/send", "otp.phone.send", otpC.SendPhone)
	otp.Post("/phone", "otp.phone.verify", otpC.VerifyPhone)

	// Signed-in surface.
	me := r.Group("", middleware.RequireAuth)
	me.Get("/profile", "profile.show", authC.Profile)
	me.Post("/checkout", "orders.checkout", orderC.Checkout, middleware.RequireVerified)
	me.Get("/orders", "orders.mine", orderC.Mine)
	me.Get("/orders/{id}", "orders.show", orderC.Detail)

	notif := me.Group("/notifications")
	notif.Get("", "notifications.index", notificationC.Index)
	notif.Get("/unread-count", "notifications.unread", notificationC.UnreadCount)
	notif.Post("/{id}/read", "notifications.read", notificationC.MarkRead)
	notif.Post("/read-all", "notifications.read_all", notificationC.MarkAllRead)

	// Seller application, then the seller catalogue and fulfilment
	// surface once approved.
	seller := r.Group("/seller", middleware.RequireAuth, middleware.RequireVerified)
	seller.Post("/apply", "seller.apply", sellerC.Apply)
	seller.Get("/application", "seller.application", sellerC.Status)

	selling := seller.Group("", rbac.HasRole(auth.RoleSeller, auth.RoleAdmin))
	selling.Get("/products", "seller.products.index", productC.Mine)
	selling.Post("/products", "seller.products.create", productC.Create)
	selling.Put("/products/{id}", "seller.products.update", productC.Update)
	selling.Delete("/products/{id}", "seller.products.delete", productC.Delete)
	selling.Post("/products/{id}/image", "seller.products.image", productC.UploadImage)
	selling.Get("/orders", "seller.orders.index", orderC.SellerOrders)
	selling.Patch("/orders/{id}/status", "seller.orders.status", orderC.SetStatus)
	selling.Post("/orders/{id}/tracking", "seller.orders.tracking", orderC.AddTracking)
	selling.Patch("/orders/{id}/shipping", "seller.orders.shipping", orderC.SetShipping)

	// Admin surface.
	admin := r.Group("/admin", middleware.RequireAuth, middleware.RequireVerified, rbac.HasRole(auth.RoleAdmin))
	admin.Get("/users", "admin.users.index", adminC.Users)
	admin.Patch("/users/{id}/role", "admin.users.role", adminC.SetRole)
	admin.Patch("/users/{id}/block", "admin.users.block", adminC.SetBlocked)
	admin.Patch("/users/{id}/credentials", "admin.users.credentials", adminC.ResetCredentials)
	admin.Get("/stats", "admin.stats", adminC.Stats)
	admin.Get("/orders", "admin.orders.index", orderC.All)
	admin.Patch("/orders/{id}/status", "admin.orders.status", orderC.SetStatus)
	admin.Post("/orders/{id}/tracking", "admin.orders.tracking", orderC.AddTracking)
	admin.Post("/categories", "admin.categories.create", productC.CreateCategory)
	admin.Get("/sellers/applications", "admin.sellers.index", sellerC.Review)
	admin.Post("/sellers/applications/{id}/approve", "admin.sellers.approve", sellerC.Approve)
	admin.Post("/sellers/applications/{id}/reject", "admin.sellers.reject", sellerC.Reject)

	// Live order feed for sellers and admins.
	r.Get("/ws/orders", "ws.orders", orderC.Feed,
		middleware.RequireAuth, rbac.HasRole(auth.RoleSeller, auth.RoleAdmin))

	// Prometheus scrape endpoint.
	r.Get("/metrics", "metrics", metrics.Handler().ServeHTTP)
}

// routePattern labels request metrics with the chi pattern instead of
// the raw path so /orders/17 and /orders/94 share a series.
// corsOptions honours CORS_ORIGINS ("https://a.test,https://b.test")
// when set and falls back to the permissive development defaults.
func corsOptions() middleware.CORSOptions {
	opts := middleware.DefaultCORSOptions()
	if origins := config.Get("CORS_ORIGINS", ""); origins != "" {
		opts.AllowedOrigins = strings.Split(origins, ",")
	}
	return opts
}

func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
