package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ticketbox/ticketbox/internal/model"
	"github.com/ticketbox/ticketbox/internal/monitoring"
	"github.com/ticketbox/ticketbox/internal/payment"
	"github.com/ticketbox/ticketbox/internal/queue"
	"github.com/ticketbox/ticketbox/internal/repository"
	queue_publisher "github.com/ticketbox/ticketbox/internal/service"
)

// PaymentHandler serves payment QR generation and the manual payment
// confirmation flow.  Confirmation is idempotent: the PENDING->PAID
// conditional update decides whether the audit row, the ticket rollup
// and the broker event happen at all.
type PaymentHandler struct {
	Orders   *repository.OrderRepo
	Tickets  *repository.TicketRepo
	Payments *repository.PaymentRepo
	QR       *payment.Service
}

func NewPaymentHandler(o *repository.OrderRepo, t *repository.TicketRepo, p *repository.PaymentRepo, qr *payment.Service) *PaymentHandler {
	if o == nil || t == nil || p == nil || qr == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Orders: o, Tickets: t, Payments: p, QR: qr}
}

// GetQR handles GET /v1/payment/qr/:orderId?method=.  The method
// defaults to BANK_TRANSFER.  Wallet gateway failures never surface as
// errors here; the customer always receives a scannable code.
func (h *PaymentHandler) GetQR(c echo.Context) error {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order id"})
	}
	method := c.QueryParam("method")
	if method == "" {
		method = model.MethodBankTransfer
	}
	if !model.ValidMethod(method) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payment method"})
	}

	ctx := c.Request().Context()
	order, err := h.Orders.GetByID(ctx, orderID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load order"})
	}

	res, err := h.QR.QR(ctx, method, order.ID, order.Total)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payment method"})
	}
	if res.Fallback {
		monitoring.GatewayFallbacks.WithLabelValues(method).Inc()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"order_id":       order.ID,
		"total_amount":   order.Total,
		"payment_method": method,
		"qr_url":         res.URL,
		"bank_info":      res.Bank,
	})
}

type confirmReq struct {
	PaymentMethod string `json:"payment_method"`
}

// Confirm handles POST /v1/payment/confirm/:orderId.  In one
// transaction: the order moves PENDING->PAID, its UNPAID tickets move
// to PAID (CANCELLED ones stay put), and a Payment audit row is
// written.  When the order is already PAID the call reports success
// without a second audit row.  The broker event is published after
// commit and its failure never affects the response.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order id"})
	}
	var req confirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	method := req.PaymentMethod
	if method == "" {
		method = model.MethodBankTransfer
	}
	if !model.ValidMethod(method) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payment method"})
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

	order, err := h.Orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load order"})
	}

	changed, err := h.Orders.MarkPaidTx(ctx, tx, orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update order"})
	}
	if !changed {
		// Already PAID: confirm is idempotent, no second audit row.
		return c.JSON(http.StatusOK, echo.Map{
			"success":  true,
			"message":  "payment already confirmed",
			"order_id": orderID,
		})
	}

	if err := h.Tickets.MarkPaidByOrderTx(ctx, tx, orderID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update tickets"})
	}
	if err := h.Payments.CreateTx(ctx, tx, orderID, method); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to record payment"})
	}
	ticketCount, err := h.Tickets.CountByOrderTx(ctx, tx, orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to count tickets"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to commit transaction"})
	}
	committed = true
	monitoring.PaymentsConfirmed.WithLabelValues(method).Inc()

	ev := queue.PaymentConfirmedEvent{
		OrderID:       orderID,
		PaymentMethod: method,
		TotalAmount:   order.Total,
		TicketCount:   ticketCount,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if order.CustomerID != nil {
		ev.CustomerID = *order.CustomerID
	}
	// Detached context: the request may finish before the publish does.
	go func() { _ = queue_publisher.PublishPaymentConfirmed(context.Background(), ev) }()

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "payment confirmed",
		"order_id": orderID,
	})
}
