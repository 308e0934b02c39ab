package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ticketbox/ticketbox/internal/repository"
)

// PublicEventHandler serves the unauthenticated browse and detail
// pages.  Responses on these routes are cached by the Redis response
// cache middleware.
type PublicEventHandler struct {
	Events *repository.EventRepo
}

func NewPublicEventHandler(e *repository.EventRepo) *PublicEventHandler {
	if e == nil {
		panic("nil repository passed to NewPublicEventHandler")
	}
	return &PublicEventHandler{Events: e}
}

// ListEvents handles GET /v1/events.  Every event is returned with its
// earliest session date and cheapest configured price, soonest first
// and undated events last.
func (h *PublicEventHandler) ListEvents(c echo.Context) error {
	items, err := h.Events.ListPublic(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load events"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetEventDetail handles GET /v1/events/:id.  Returns the event, its
// sessions with venues, and the per-session effective tier prices.
func (h *PublicEventHandler) GetEventDetail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid event id"})
	}
	det, err := h.Events.GetDetail(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load event"})
	}
	return c.JSON(http.StatusOK, det)
}
