package repository

import (
	"context"
	"database/sql"

	"github.com/ticketbox/ticketbox/internal/model"
)

// OrderRepo provides access to the Order table.  An order and its
// tickets are always created inside one transaction owned by the
// handler; the repository exposes the ...Tx pieces.
type OrderRepo struct{ DB *sql.DB }

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// CreateTx inserts a PENDING order and populates the generated id on the
// record.  Total is floored at zero by the caller before insert.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = "INSERT INTO `Order` (Customer_Id, Order_Datetime, Total_Amount, Order_Status) VALUES (?, NOW(), ?, ?)"
	res, err := tx.ExecContext(ctx, q, o.CustomerID, o.Total, model.OrderPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	o.Status = model.OrderPending
	return nil
}

// GetByID loads an order.  ErrOrderNotFound when absent.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	const q = "SELECT Order_Id, Customer_Id, Total_Amount, Order_Status, Order_Datetime FROM `Order` WHERE Order_Id = ?"
	var o model.Order
	var customer sql.NullInt64
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&o.ID, &customer, &o.Total, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	if customer.Valid {
		c := uint64(customer.Int64)
		o.CustomerID = &c
	}
	return o, nil
}

// GetByIDTx is GetByID within the caller's transaction, so confirm reads
// the order status consistently with its own writes.
func (r *OrderRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Order, error) {
	const q = "SELECT Order_Id, Customer_Id, Total_Amount, Order_Status, Order_Datetime FROM `Order` WHERE Order_Id = ?"
	var o model.Order
	var customer sql.NullInt64
	err := tx.QueryRowContext(ctx, q, id).Scan(&o.ID, &customer, &o.Total, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	if customer.Valid {
		c := uint64(customer.Int64)
		o.CustomerID = &c
	}
	return o, nil
}

// MarkPaidTx transitions the order PENDING -> PAID.  The conditional
// WHERE is the idempotency guard: it reports false without error when
// the order was already PAID, and repeated confirms then skip the
// Payment insert.
func (r *OrderRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	const q = "UPDATE `Order` SET Order_Status = ? WHERE Order_Id = ? AND Order_Status = ?"
	res, err := tx.ExecContext(ctx, q, model.OrderPaid, id, model.OrderPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
