package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ticketbox/ticketbox/internal/model"
	"github.com/ticketbox/ticketbox/internal/repository"
)

// defaultSessionSeats is the seat budget assigned to sessions created
// through the event form, which collects dates and times but not venue
// capacities.  The session admin endpoints can adjust it afterwards.
const defaultSessionSeats = 100

// defaultVenueID is used for event-form sessions until venue selection
// is added to the form.
// TODO: take venue_id per session in the create-event payload once the
// admin UI sends it.
const defaultVenueID = 1

// AdminEventHandler serves the organizer's event management endpoints.
// Creating an event implicitly grants the ORGANIZER capability to the
// caller within the same transaction.
type AdminEventHandler struct {
	Events   *repository.EventRepo
	Sessions *repository.SessionRepo
	Pricing  *repository.PricingRepo
	Users    *repository.UserRepo
}

func NewAdminEventHandler(e *repository.EventRepo, s *repository.SessionRepo, p *repository.PricingRepo, u *repository.UserRepo) *AdminEventHandler {
	if e == nil || s == nil || p == nil || u == nil {
		panic("nil repository passed to NewAdminEventHandler")
	}
	return &AdminEventHandler{Events: e, Sessions: s, Pricing: p, Users: u}
}

// MyEvents handles GET /v1/my/events.  Lists the authenticated
// organizer's events with browse aggregates, newest first.
func (h *AdminEventHandler) MyEvents(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	items, err := h.Events.ListByOrganizer(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load events"})
	}
	return c.JSON(http.StatusOK, items)
}

// ListEvents handles GET /v1/admin/events with optional keyword and
// category filters.
func (h *AdminEventHandler) ListEvents(c echo.Context) error {
	keyword := strings.TrimSpace(c.QueryParam("keyword"))
	category := strings.TrimSpace(c.QueryParam("category"))
	items, err := h.Events.ListAdmin(c.Request().Context(), keyword, category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load events"})
	}
	return c.JSON(http.StatusOK, items)
}

type eventSessionReq struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
}

type ticketTypeReq struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type createEventReq struct {
	Name        string            `json:"event_name"`
	Description string            `json:"event_description"`
	Category    string            `json:"event_category"`
	Duration    int               `json:"event_duration"`
	Language    string            `json:"primary_language"`
	Privacy     string            `json:"privacy_level"`
	IsOnline    bool              `json:"is_online_event"`
	PosterImage string            `json:"poster_image"`
	Sessions    []eventSessionReq `json:"sessions"`
	TicketTypes []ticketTypeReq   `json:"ticket_types"`
}

// CreateEvent handles POST /v1/admin/events.  In one transaction it
// grants the caller the ORGANIZER capability, inserts the event, creates
// a pricing tier per ticket type, creates each session, and binds every
// tier to every session at its base price.  A failure anywhere leaves no
// partial event behind.
func (h *AdminEventHandler) CreateEvent(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "event_name required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Events.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := h.Users.EnsureRoleTx(ctx, tx, userID, model.RoleOrganizer); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to grant organizer role"})
	}

	ev := model.Event{
		OrganizerID: userID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
		Language:    req.Language,
		Privacy:     req.Privacy,
		IsOnline:    req.IsOnline,
	}
	if p := strings.TrimSpace(req.PosterImage); p != "" {
		ev.PosterImage = &p
	}
	if err := h.Events.CreateTx(ctx, tx, &ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create event"})
	}

	// Tiers first; entries without a name or price are skipped the way
	// the admin form allows blank rows.
	type tier struct {
		id    uint64
		price float64
	}
	tiers := make([]tier, 0, len(req.TicketTypes))
	for _, tt := range req.TicketTypes {
		name := strings.TrimSpace(tt.Name)
		if name == "" || tt.Price <= 0 {
			continue
		}
		id, err := h.Pricing.CreateTierTx(ctx, tx, name, tt.Price)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create pricing tier"})
		}
		tiers = append(tiers, tier{id: id, price: tt.Price})
	}

	for _, sr := range req.Sessions {
		if sr.Date == "" || sr.StartTime == "" || sr.EndTime == "" {
			continue
		}
		sess := model.Session{
			EventID:        ev.ID,
			VenueID:        defaultVenueID,
			StartDate:      sr.Date + " " + sr.StartTime + ":00",
			EndDate:        sr.Date + " " + sr.EndTime + ":00",
			AvailableSeats: defaultSessionSeats,
			Status:         model.SessionScheduled,
		}
		if err := h.Sessions.CreateTx(ctx, tx, &sess); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create session"})
		}
		for _, t := range tiers {
			if err := h.Pricing.BindTierTx(ctx, tx, sess.ID, t.id, t.price); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to bind pricing"})
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "event created",
		"event_id": ev.ID,
	})
}

type updateEventReq struct {
	Name        string `json:"event_name"`
	Description string `json:"event_description"`
	Category    string `json:"event_category"`
	Duration    int    `json:"event_duration"`
	Language    string `json:"primary_language"`
	Privacy     string `json:"privacy_level"`
	IsOnline    bool   `json:"is_online_event"`
	PosterImage string `json:"poster_image"`
}

// UpdateEvent handles PUT /v1/admin/events/:id.  Rewrites the editable
// event columns; sessions and pricing are managed through their own
// endpoints.
func (h *AdminEventHandler) UpdateEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid event id"})
	}
	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	ev := model.Event{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
		Language:    req.Language,
		Privacy:     req.Privacy,
		IsOnline:    req.IsOnline,
	}
	if p := strings.TrimSpace(req.PosterImage); p != "" {
		ev.PosterImage = &p
	}
	if err := h.Events.Update(c.Request().Context(), &ev); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update event"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "event updated"})
}

// DeleteEvent handles DELETE /v1/admin/events/:id.  Dependent sessions,
// pricing and tickets cascade per the schema's foreign keys.
func (h *AdminEventHandler) DeleteEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid event id"})
	}
	if err := h.Events.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to delete event"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "event deleted"})
}
