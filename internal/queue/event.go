// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentConfirmedEvent is published when an order's payment is
// confirmed.  It carries enough context for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type PaymentConfirmedEvent struct {
	OrderID       uint64  `json:"order_id"`
	CustomerID    uint64  `json:"customer_id"`
	PaymentMethod string  `json:"payment_method"`
	TotalAmount   float64 `json:"total_amount"`
	TicketCount   int     `json:"ticket_count"`
	ConfirmedAt   string  `json:"confirmed_at"`
}
