package repository

import (
	"context"
	"database/sql"

	"github.com/ticketbox/ticketbox/internal/model"
)

// TicketRepo provides access to the Ticket table: bulk creation during
// checkout, the check-in read/transition pair, payment status rollup and
// the customer's ticket listing.
type TicketRepo struct{ DB *sql.DB }

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// CreateBulkTx inserts one row per ticket in a single statement inside
// the order transaction.  Each ticket carries its own redemption code;
// the Unique_QR column's uniqueness constraint backstops the generator.
// Passing an empty slice has no effect and returns nil.
func (r *TicketRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO Ticket (Session_Id, Order_Id, Section_Id, Seat_Number,
								  Ticket_type, Ticket_Price, Ticket_Status, Unique_QR) VALUES `
	args := make([]interface{}, 0, len(tickets)*6)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, NULL, NULL, ?, ?, ?, ?)"
		args = append(args, t.SessionID, t.OrderID, t.Type, t.Price, model.TicketUnpaid, t.Code)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CheckInInfo is the canonical record the check-in precondition ladder
// evaluates: the ticket plus its order's payment status and the session
// start time, read in one joined query.
type CheckInInfo struct {
	Ticket       model.Ticket
	OrderStatus  string
	SessionStart string
}

// GetForCheckInTx loads a ticket with its order status and session start
// within the check-in transaction.  ErrTicketNotFound when absent.
func (r *TicketRepo) GetForCheckInTx(ctx context.Context, tx *sql.Tx, ticketID uint64) (CheckInInfo, error) {
	const q = `SELECT t.Ticket_Id, t.Session_Id, t.Order_Id, t.Ticket_type, t.Ticket_Price,
					  t.Ticket_Status, t.Unique_QR, o.Order_Status, es.Start_Date
			   FROM Ticket t
			   INNER JOIN ` + "`Order`" + ` o ON t.Order_Id = o.Order_Id
			   INNER JOIN Event_Session es ON t.Session_Id = es.Session_Id
			   WHERE t.Ticket_Id = ?`
	var info CheckInInfo
	err := tx.QueryRowContext(ctx, q, ticketID).Scan(
		&info.Ticket.ID, &info.Ticket.SessionID, &info.Ticket.OrderID, &info.Ticket.Type,
		&info.Ticket.Price, &info.Ticket.Status, &info.Ticket.Code,
		&info.OrderStatus, &info.SessionStart)
	if err == sql.ErrNoRows {
		return CheckInInfo{}, ErrTicketNotFound
	}
	if err != nil {
		return CheckInInfo{}, err
	}
	return info, nil
}

// CheckInTx transitions a ticket PAID -> CHECKED_IN.  The conditional
// WHERE makes the transition race-safe: two concurrent scans of the same
// code cannot both succeed, because only the first update affects a row.
func (r *TicketRepo) CheckInTx(ctx context.Context, tx *sql.Tx, ticketID uint64) (bool, error) {
	const q = "UPDATE Ticket SET Ticket_Status = ? WHERE Ticket_Id = ? AND Ticket_Status = ?"
	res, err := tx.ExecContext(ctx, q, model.TicketCheckedIn, ticketID, model.TicketPaid)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkPaidByOrderTx moves every UNPAID ticket of the order to PAID.
// CANCELLED tickets are deliberately excluded so a confirm never
// resurrects them.
func (r *TicketRepo) MarkPaidByOrderTx(ctx context.Context, tx *sql.Tx, orderID uint64) error {
	const q = "UPDATE Ticket SET Ticket_Status = ? WHERE Order_Id = ? AND Ticket_Status = ?"
	_, err := tx.ExecContext(ctx, q, model.TicketPaid, orderID, model.TicketUnpaid)
	return err
}

// CountByOrderTx returns the number of tickets attached to an order
// within the caller's transaction.
func (r *TicketRepo) CountByOrderTx(ctx context.Context, tx *sql.Tx, orderID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Ticket WHERE Order_Id = ?", orderID).Scan(&n)
	return n, err
}

// CustomerTicket is one row of the customer's ticket list, joined with
// session, event and order context for display.
type CustomerTicket struct {
	TicketID     uint64  `json:"ticket_id"`
	TicketType   string  `json:"ticket_type"`
	TicketPrice  float64 `json:"ticket_price"`
	TicketStatus string  `json:"ticket_status"`
	SessionID    uint64  `json:"session_id"`
	StartDate    string  `json:"start_date"`
	EventID      uint64  `json:"event_id"`
	EventName    string  `json:"event_name"`
	OrderID      uint64  `json:"order_id"`
	OrderDate    string  `json:"order_datetime"`
}

// ListByCustomer returns every ticket the customer has ordered, newest
// order first, with session and event names for display.
func (r *TicketRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]CustomerTicket, error) {
	const q = `SELECT t.Ticket_Id, t.Ticket_type, t.Ticket_Price, t.Ticket_Status,
					  es.Session_Id, es.Start_Date,
					  e.Event_Id, e.Event_name,
					  o.Order_Id, o.Order_Datetime
			   FROM Ticket t
			   JOIN ` + "`Order`" + ` o ON t.Order_Id = o.Order_Id
			   JOIN Event_Session es ON t.Session_Id = es.Session_Id
			   JOIN Event e ON es.Event_Id = e.Event_Id
			   WHERE o.Customer_Id = ?
			   ORDER BY o.Order_Datetime DESC`
	rows, err := r.DB.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CustomerTicket, 0)
	for rows.Next() {
		var t CustomerTicket
		if err := rows.Scan(&t.TicketID, &t.TicketType, &t.TicketPrice, &t.TicketStatus,
			&t.SessionID, &t.StartDate, &t.EventID, &t.EventName, &t.OrderID, &t.OrderDate); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
