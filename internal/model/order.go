package model

import "time"

// Order statuses as stored in Order.Order_Status.
const (
	OrderPending = "PENDING"
	OrderPaid    = "PAID"
)

// Ticket statuses as stored in Ticket.Ticket_Status.
const (
	TicketUnpaid    = "UNPAID"
	TicketPaid      = "PAID"
	TicketCheckedIn = "CHECKED_IN"
	TicketCancelled = "CANCELLED"
)

// Order mirrors the `Order` table.  An order exclusively owns its
// tickets: both are created in the same transaction and a rollback
// leaves neither behind.
//
// Fields:
//  ID         – Order.Order_Id primary key.
//  CustomerID – Order.Customer_Id (nullable: guest checkout).
//  Total      – Order.Total_Amount computed at creation.
//  Status     – Order.Order_Status (PENDING or PAID).
//  CreatedAt  – Order.Order_Datetime.
type Order struct {
	ID         uint64    `json:"order_id"`
	CustomerID *uint64   `json:"customer_id"`
	Total      float64   `json:"total_amount"`
	Status     string    `json:"order_status"`
	CreatedAt  time.Time `json:"order_datetime"`
}

// Ticket mirrors the `Ticket` table.  One row per purchased seat; the
// tier label and unit price are copied at creation so later pricing
// changes never retroactively affect issued tickets.
//
// Fields:
//  ID        – Ticket.Ticket_Id primary key.
//  SessionID – Ticket.Session_Id session admitted to.
//  OrderID   – Ticket.Order_Id owning order.
//  Type      – Ticket.Ticket_type denormalized tier label.
//  Price     – Ticket.Ticket_Price unit price copied at creation.
//  Status    – Ticket.Ticket_Status.
//  Code      – Ticket.Unique_QR redemption code.
type Ticket struct {
	ID        uint64  `json:"ticket_id"`
	SessionID uint64  `json:"session_id"`
	OrderID   uint64  `json:"order_id"`
	Type      string  `json:"ticket_type"`
	Price     float64 `json:"ticket_price"`
	Status    string  `json:"ticket_status"`
	Code      string  `json:"unique_qr"`
}

// LineItem is one normalized cart entry: a pricing tier with the number
// of seats requested and the server-resolved unit price.
type LineItem struct {
	TierID    uint64
	TierName  string
	Quantity  int
	UnitPrice float64
}
