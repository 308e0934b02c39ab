package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                             // Echo web framework for routing
	"github.com/prometheus/client_golang/prometheus/promhttp" // Prometheus metrics handler

	"github.com/ticketbox/ticketbox/internal/handler"    // handlers implementing the endpoints
	"github.com/ticketbox/ticketbox/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers the operational endpoints that carry no
// authentication: the health check used by load balancers and the
// Prometheus metrics scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers registration and login under /v1/auth plus the
// authenticated /v1/me echo endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated storefront: event browse
// and detail (cached), checkout, gate check-in and the payment flow.
// Orders stay open to guests because the checkout form collects buyer
// details without requiring an account; check-in is called by gate
// scanner devices that hold no user session.
func RegisterPublic(e *echo.Echo, ev *handler.PublicEventHandler, o *handler.OrderHandler, p *handler.PaymentHandler, cache echo.MiddlewareFunc) {
	browse := e.Group("/v1", cache)
	browse.GET("/events", ev.ListEvents)
	browse.GET("/events/:id", ev.GetEventDetail)

	e.POST("/v1/orders", o.CreateOrder)
	e.POST("/v1/tickets/check-in", o.CheckInTicket)

	e.GET("/v1/payment/qr/:orderId", p.GetQR)
	e.POST("/v1/payment/confirm/:orderId", p.Confirm)
}
