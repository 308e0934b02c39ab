package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ticketbox/ticketbox/internal/repository"
)

// ReportHandler exposes the store's reporting procedures and functions.
// The aggregation logic lives in the procedures; these endpoints only
// validate parameters and relay rows.  Procedure errors surface as 400
// because they signal bad parameters, not server faults.
type ReportHandler struct {
	Reports *repository.ReportRepo
}

func NewReportHandler(r *repository.ReportRepo) *ReportHandler {
	if r == nil {
		panic("nil repository passed to NewReportHandler")
	}
	return &ReportHandler{Reports: r}
}

func queryUint(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// OpenSessions handles GET /v1/admin/reports/open-sessions?eventId=
// through sp_GetOpenSessions.
func (h *ReportHandler) OpenSessions(c echo.Context) error {
	eventID, ok := queryUint(c, "eventId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "eventId required"})
	}
	rows, err := h.Reports.OpenSessions(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// EventRevenue handles GET /v1/admin/reports/event-revenue?eventId=&minRevenue=
// through cal_revenue.
func (h *ReportHandler) EventRevenue(c echo.Context) error {
	eventID, ok := queryUint(c, "eventId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "eventId required"})
	}
	minRevenue := 0.0
	if raw := c.QueryParam("minRevenue"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid minRevenue"})
		}
		minRevenue = v
	}
	rows, err := h.Reports.EventRevenue(c.Request().Context(), eventID, minRevenue)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// OrganizerRevenue handles
// GET /v1/admin/functions/organizer-revenue?organizerId=&start=&end=
// through calculate_organizer_revenue.  start and end may be omitted to
// cover all time.
func (h *ReportHandler) OrganizerRevenue(c echo.Context) error {
	organizerID, ok := queryUint(c, "organizerId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "organizerId required"})
	}
	var start, end *string
	if s := strings.TrimSpace(c.QueryParam("start")); s != "" {
		start = &s
	}
	if e := strings.TrimSpace(c.QueryParam("end")); e != "" {
		end = &e
	}
	total, err := h.Reports.OrganizerRevenue(c.Request().Context(), organizerID, start, end)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"total_revenue": total})
}

// CustomerTicketCount handles
// GET /v1/admin/functions/customer-ticket-count?customerId=&start=&end=
// through count_customer_tickets.  Unlike the revenue function, the
// period is mandatory here.
func (h *ReportHandler) CustomerTicketCount(c echo.Context) error {
	customerID, ok := queryUint(c, "customerId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "customerId required"})
	}
	start := strings.TrimSpace(c.QueryParam("start"))
	end := strings.TrimSpace(c.QueryParam("end"))
	if start == "" || end == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "start and end required"})
	}
	count, err := h.Reports.CustomerTicketCount(c.Request().Context(), customerID, start, end)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket_count": count})
}

// RevenueStats handles GET /v1/admin/stats/revenue?eventId=.  Reuses
// cal_revenue with a zero floor and sums the revenue column for the
// dashboard headline number.
func (h *ReportHandler) RevenueStats(c echo.Context) error {
	eventID, ok := queryUint(c, "eventId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "eventId required"})
	}
	rows, err := h.Reports.EventRevenue(c.Request().Context(), eventID, 0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	total := 0.0
	for _, row := range rows {
		total += revenueOf(row)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_revenue": total,
		"detail":        rows,
	})
}

// revenueOf extracts the procedure's revenue column, tolerating the
// numeric and textual forms the driver may hand back.
func revenueOf(row repository.Row) float64 {
	v, ok := row["Doanh_Thu"]
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return 0
}
