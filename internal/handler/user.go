package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ticketbox/ticketbox/internal/repository"
)

// UserHandler serves profile reads/updates and the customer's ticket
// wallet.  Profile routes are keyed by path id but restricted to the
// authenticated user; there is no admin override.
type UserHandler struct {
	Users   *repository.UserRepo
	Tickets *repository.TicketRepo
}

func NewUserHandler(u *repository.UserRepo, t *repository.TicketRepo) *UserHandler {
	if u == nil || t == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Users: u, Tickets: t}
}

// GetProfile handles GET /v1/users/:id.  Users can only read their own
// profile; a mismatched id yields 403 rather than leaking existence.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
	}
	if id != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	}
	return c.JSON(http.StatusOK, u)
}

type updateProfileReq struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone_number"`
	Gender   string `json:"gender"`
	Birthday string `json:"birthday"` // YYYY-MM-DD, empty clears the field
}

// UpdateProfile handles PUT /v1/users/:id.  The password is never
// updated here.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
	}
	if id != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "full_name required"})
	}
	var birth *time.Time
	if s := strings.TrimSpace(req.Birthday); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid birthday, expected YYYY-MM-DD"})
		}
		birth = &t
	}
	if err := h.Users.UpdateProfile(c.Request().Context(), id, req.FullName, req.Phone, req.Gender, birth); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

// MyTickets handles GET /v1/my/tickets.  Lists the authenticated
// customer's tickets joined with their session, event and order, newest
// order first.  An account with no purchases gets an empty array.
func (h *UserHandler) MyTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	items, err := h.Tickets.ListByCustomer(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load tickets"})
	}
	return c.JSON(http.StatusOK, items)
}
