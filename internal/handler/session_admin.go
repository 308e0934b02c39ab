package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ticketbox/ticketbox/internal/model"
	"github.com/ticketbox/ticketbox/internal/repository"
)

// AdminSessionHandler serves session CRUD.  Create, update and delete
// delegate to the store's session procedures, which own the
// schedule-validity rules; a procedure rejection surfaces as 400 with
// the procedure's message so the admin UI can show the reason.
type AdminSessionHandler struct {
	Sessions *repository.SessionRepo
}

func NewAdminSessionHandler(s *repository.SessionRepo) *AdminSessionHandler {
	if s == nil {
		panic("nil repository passed to NewAdminSessionHandler")
	}
	return &AdminSessionHandler{Sessions: s}
}

// ListSessions handles GET /v1/admin/sessions?eventId=.  Sessions are
// joined with their venue and ordered by start date.
func (h *AdminSessionHandler) ListSessions(c echo.Context) error {
	var eventID uint64
	if raw := c.QueryParam("eventId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid eventId"})
		}
		eventID = id
	}
	items, err := h.Sessions.List(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load sessions"})
	}
	return c.JSON(http.StatusOK, items)
}

type sessionReq struct {
	EventID        uint64  `json:"event_id"`
	VenueID        uint64  `json:"venue_id"`
	StartDatetime  string  `json:"start_datetime"`
	EndDatetime    string  `json:"end_datetime"`
	OpenDate       *string `json:"open_date"`
	CloseDate      *string `json:"close_date"`
	AvailableSeats int     `json:"available_seats_count"`
	SessionStatus  string  `json:"session_status"`
}

func (r sessionReq) toModel() model.Session {
	return model.Session{
		EventID:        r.EventID,
		VenueID:        r.VenueID,
		StartDate:      r.StartDatetime,
		EndDate:        r.EndDatetime,
		OpenDate:       r.OpenDate,
		CloseDate:      r.CloseDate,
		AvailableSeats: r.AvailableSeats,
		Status:         r.SessionStatus,
	}
}

// CreateSession handles POST /v1/admin/sessions through
// sp_InsertEventSession and returns the procedure's new session id.
func (h *AdminSessionHandler) CreateSession(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.EventID == 0 || req.VenueID == 0 || req.StartDatetime == "" || req.EndDatetime == "" || req.SessionStatus == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing required fields"})
	}
	s := req.toModel()
	newID, err := h.Sessions.CallInsert(c.Request().Context(), &s)
	if err != nil {
		// Procedure SIGNALs carry the validation reason in the error text.
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":        "session created",
		"new_session_id": newID,
	})
}

// UpdateSession handles PUT /v1/admin/sessions/:id through
// sp_UpdateEventSession.
func (h *AdminSessionHandler) UpdateSession(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid session id"})
	}
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.EventID == 0 || req.VenueID == 0 || req.StartDatetime == "" || req.EndDatetime == "" || req.SessionStatus == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing required fields"})
	}
	s := req.toModel()
	s.ID = id
	if err := h.Sessions.CallUpdate(c.Request().Context(), &s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "session updated"})
}

// DeleteSession handles DELETE /v1/admin/sessions/:id through
// sp_DeleteEventSession.
func (h *AdminSessionHandler) DeleteSession(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid session id"})
	}
	if err := h.Sessions.CallDelete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "session deleted"})
}
