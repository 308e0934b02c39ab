package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ticketbox/ticketbox/internal/handler"
	"github.com/ticketbox/ticketbox/internal/middleware"
)

// RegisterAdmin registers event management, session management and
// reporting under /v1.
//
// Creating an event needs only a valid JWT: the handler grants the
// ORGANIZER capability inside its own transaction, so a fresh CUSTOMER
// can publish their first event.  Every other management route demands
// an organizer-capable role up front.
func RegisterAdmin(e *echo.Echo, ev *handler.AdminEventHandler, s *handler.AdminSessionHandler, r *handler.ReportHandler, jwtSecret string) {
	authed := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	authed.POST("/admin/events", ev.CreateEvent)
	authed.GET("/my/events", ev.MyEvents)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireOrganizer(),
	)

	// ---- Events ----
	g.GET("/admin/events", ev.ListEvents)
	g.PUT("/admin/events/:id", ev.UpdateEvent)
	g.DELETE("/admin/events/:id", ev.DeleteEvent)

	// ---- Sessions ----
	g.GET("/admin/sessions", s.ListSessions)
	g.POST("/admin/sessions", s.CreateSession)
	g.PUT("/admin/sessions/:id", s.UpdateSession)
	g.DELETE("/admin/sessions/:id", s.DeleteSession)

	// ---- Reports ----
	g.GET("/admin/reports/open-sessions", r.OpenSessions)
	g.GET("/admin/reports/event-revenue", r.EventRevenue)
	g.GET("/admin/functions/organizer-revenue", r.OrganizerRevenue)
	g.GET("/admin/functions/customer-ticket-count", r.CustomerTicketCount)
	g.GET("/admin/stats/revenue", r.RevenueStats)
}
