package repository

import (
	"context"
	"database/sql"
)

// PaymentRepo provides access to the Payment audit table.  One row is
// written per confirmed order; the conditional order update in
// OrderRepo.MarkPaidTx decides whether a confirm attempt reaches the
// insert at all.
type PaymentRepo struct{ DB *sql.DB }

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

// CreateTx records a successful confirmation for the order within the
// confirm transaction.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, orderID uint64, method string) error {
	const q = `INSERT INTO Payment (Order_Id, Payment_Datetime, Payment_Status, Payment_Method)
			   VALUES (?, NOW(), 'SUCCESS', ?)`
	_, err := tx.ExecContext(ctx, q, orderID, method)
	return err
}
