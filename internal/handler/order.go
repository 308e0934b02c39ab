package handler

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ticketbox/ticketbox/internal/model"
	"github.com/ticketbox/ticketbox/internal/monitoring"
	"github.com/ticketbox/ticketbox/internal/repository"
	"github.com/ticketbox/ticketbox/internal/utils"
)

// OrderHandler serves checkout and gate check-in.  Both operations run
// inside a single transaction: an order is never visible without its
// tickets, and a check-in either fully transitions the ticket or leaves
// it untouched.
type OrderHandler struct {
	Orders   *repository.OrderRepo
	Tickets  *repository.TicketRepo
	Sessions *repository.SessionRepo
	Pricing  *repository.PricingRepo
	Users    *repository.UserRepo
}

func NewOrderHandler(o *repository.OrderRepo, t *repository.TicketRepo, s *repository.SessionRepo, p *repository.PricingRepo, u *repository.UserRepo) *OrderHandler {
	if o == nil || t == nil || s == nil || p == nil || u == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: o, Tickets: t, Sessions: s, Pricing: p, Users: u}
}

type createOrderReq struct {
	CustomerID uint64            `json:"customer_id"` // 0 = guest checkout
	SessionID  uint64            `json:"session_id"`
	Tickets    map[string]int    `json:"tickets"`  // tier id -> quantity
	Customer   map[string]string `json:"customer"` // buyer contact block, accepted but not persisted
}

// CreateOrder handles POST /v1/orders.  The cart is a tier->quantity
// map; unit prices are always resolved server-side from the session's
// configured pricing, never taken from the client.  In one transaction
// the handler upgrades the buyer's role, reserves seats against the
// session's remaining-seats counter, creates the PENDING order and
// issues one UNPAID ticket per seat with a fresh redemption code.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.SessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "session_id required"})
	}

	// Normalize the cart: parse tier ids, drop zero quantities, reject
	// negatives, and order entries deterministically.
	type cartLine struct {
		tierID uint64
		qty    int
	}
	lines := make([]cartLine, 0, len(req.Tickets))
	for rawTier, qty := range req.Tickets {
		if qty == 0 {
			continue
		}
		if qty < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "negative quantity"})
		}
		tierID, err := strconv.ParseUint(rawTier, 10, 64)
		if err != nil || tierID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid tier id"})
		}
		lines = append(lines, cartLine{tierID: tierID, qty: qty})
	}
	if len(lines) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "select at least one ticket"})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].tierID < lines[j].tierID })

	ctx := c.Request().Context()
	tx, err := h.Orders.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if req.CustomerID != 0 {
		if _, err := h.Users.EnsureRoleTx(ctx, tx, req.CustomerID, model.RoleCustomer); err != nil {
			if err == repository.ErrUserNotFound {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown customer"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to grant customer role"})
		}
	}

	// Resolve every tier before touching counters so a mispriced cart
	// fails the whole order.
	items := make([]model.LineItem, 0, len(lines))
	total := decimal.Zero
	seatCount := 0
	for _, ln := range lines {
		tp, err := h.Pricing.ResolveTierPriceTx(ctx, tx, req.SessionID, ln.tierID)
		if err != nil {
			if err == repository.ErrTierNotPriced {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "tier not priced for this session"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to resolve price"})
		}
		items = append(items, model.LineItem{
			TierID:    ln.tierID,
			TierName:  tp.TierName,
			Quantity:  ln.qty,
			UnitPrice: tp.Price,
		})
		total = total.Add(decimal.NewFromFloat(tp.Price).Mul(decimal.NewFromInt(int64(ln.qty))))
		seatCount += ln.qty
	}
	if total.IsNegative() {
		total = decimal.Zero
	}

	if err := h.Sessions.ReserveSeatsTx(ctx, tx, req.SessionID, seatCount); err != nil {
		if err == repository.ErrSoldOut {
			monitoring.OrdersSoldOut.Inc()
			return c.JSON(http.StatusConflict, echo.Map{"message": "not enough seats remaining"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to reserve seats"})
	}

	order := model.Order{Total: total.InexactFloat64()}
	if req.CustomerID != 0 {
		cid := req.CustomerID
		order.CustomerID = &cid
	}
	if err := h.Orders.CreateTx(ctx, tx, &order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create order"})
	}

	tickets := make([]model.Ticket, 0, seatCount)
	for _, it := range items {
		for i := 0; i < it.Quantity; i++ {
			code, err := utils.NewTicketCode(order.ID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to generate ticket code"})
			}
			tickets = append(tickets, model.Ticket{
				SessionID: req.SessionID,
				OrderID:   order.ID,
				Type:      it.TierName,
				Price:     it.UnitPrice,
				Code:      code,
			})
		}
	}
	if err := h.Tickets.CreateBulkTx(ctx, tx, tickets); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create tickets"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to commit transaction"})
	}
	committed = true
	monitoring.OrdersCreated.Inc()

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "order created",
		"order_id":     order.ID,
		"total_amount": order.Total,
	})
}

type checkInReq struct {
	TicketID uint64 `json:"ticket_id"`
	OrderID  uint64 `json:"order_id"` // optional cross-check from the QR payload
}

// CheckInTicket handles POST /v1/tickets/check-in.  The precondition
// ladder: the ticket must exist (404); everything else is a conflict
// (409): a mismatched order id, an order that is not PAID, and a ticket
// already CHECKED_IN or CANCELLED.  The final transition is a
// conditional update, so two concurrent scans of the same code admit
// exactly one.
func (h *OrderHandler) CheckInTicket(c echo.Context) error {
	var req checkInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.TicketID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "ticket_id required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Orders.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	info, err := h.Tickets.GetForCheckInTx(ctx, tx, req.TicketID)
	if err != nil {
		if err == repository.ErrTicketNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load ticket"})
	}
	if req.OrderID != 0 && info.Ticket.OrderID != req.OrderID {
		return c.JSON(http.StatusConflict, echo.Map{"message": "ticket does not belong to this order"})
	}
	if info.OrderStatus != model.OrderPaid {
		return c.JSON(http.StatusConflict, echo.Map{
			"message":        "ticket is not paid",
			"current_status": info.OrderStatus,
		})
	}
	switch info.Ticket.Status {
	case model.TicketCheckedIn:
		return c.JSON(http.StatusConflict, echo.Map{"message": "ticket already checked in"})
	case model.TicketCancelled:
		return c.JSON(http.StatusConflict, echo.Map{"message": "ticket is cancelled"})
	}

	changed, err := h.Tickets.CheckInTx(ctx, tx, req.TicketID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to check in"})
	}
	if !changed {
		// Lost the race to a concurrent scan of the same code.
		return c.JSON(http.StatusConflict, echo.Map{"message": "ticket already checked in"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to commit transaction"})
	}
	committed = true
	monitoring.TicketsCheckedIn.Inc()

	return c.JSON(http.StatusOK, echo.Map{
		"message": "checked in",
		"ticket": echo.Map{
			"ticket_id":    info.Ticket.ID,
			"ticket_type":  info.Ticket.Type,
			"session_date": info.SessionStart,
			"price":        info.Ticket.Price,
		},
	})
}
