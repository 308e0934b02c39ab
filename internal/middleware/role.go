package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ticketbox/ticketbox/internal/model"
)

// RequireOrganizer aborts with 403 unless the authenticated user's role
// claim grants organizer rights.  The BOTH role qualifies, since a user
// who upgraded to organizer keeps their customer membership.  Assumes
// JWTAuth already stored the role claim under "role".
func RequireOrganizer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !model.Role(role).CanOrganize() {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "organizer role required"})
			}
			return next(c)
		}
	}
}

// RequireCustomer aborts with 403 unless the role claim grants customer
// rights.  CUSTOMER and BOTH qualify; a pure ORGANIZER token does not,
// though the order endpoints upgrade the stored role on first purchase
// rather than relying on the stale claim.
func RequireCustomer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !model.Role(role).CanPurchase() {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "customer role required"})
			}
			return next(c)
		}
	}
}
