package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ticketbox/ticketbox/internal/handler"
	"github.com/ticketbox/ticketbox/internal/middleware"
)

// RegisterCustomer registers the account-scoped endpoints under /v1.
// All routes require a valid JWT; the handlers additionally pin profile
// routes to the token's own subject.
func RegisterCustomer(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.GET("/users/:id", u.GetProfile)
	g.PUT("/users/:id", u.UpdateProfile)
	g.GET("/my/tickets", u.MyTickets)
}
