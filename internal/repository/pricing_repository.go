package repository

import (
	"context"
	"database/sql"

	"github.com/ticketbox/ticketbox/internal/model"
)

// PricingRepo manages Pricing_Tier rows and the Define_Pricing join
// table that binds a tier to a session at an effective price.  Purchase
// paths resolve unit prices through ResolveTierPriceTx so the client
// never supplies a price.
type PricingRepo struct{ DB *sql.DB }

// NewPricingRepo returns a new PricingRepo bound to the given database.
func NewPricingRepo(db *sql.DB) *PricingRepo { return &PricingRepo{DB: db} }

// CreateTierTx inserts a named price point and returns its id.  Runs in
// the event-creation transaction.
func (r *PricingRepo) CreateTierTx(ctx context.Context, tx *sql.Tx, name string, basePrice float64) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO Pricing_Tier (Tier_Name, Base_Price) VALUES (?, ?)", name, basePrice)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// BindTierTx associates a tier with a session at the given price in the
// Define_Pricing join table.
func (r *PricingRepo) BindTierTx(ctx context.Context, tx *sql.Tx, sessionID, tierID uint64, price float64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO Define_Pricing (Session_Id, Tier_Id, Price) VALUES (?, ?, ?)",
		sessionID, tierID, price)
	return err
}

// ResolveTierPriceTx returns the tier's name and its effective unit
// price for the session, preferring the session-specific Define_Pricing
// value over the tier's base price.  ErrTierNotPriced is returned when
// the tier is not configured for the session at all; the caller fails
// the whole order.
func (r *PricingRepo) ResolveTierPriceTx(ctx context.Context, tx *sql.Tx, sessionID, tierID uint64) (model.TierPrice, error) {
	const q = `SELECT t.Tier_Id, t.Tier_Name, COALESCE(dp.Price, t.Base_Price)
			   FROM Pricing_Tier t
			   LEFT JOIN Define_Pricing dp ON dp.Tier_Id = t.Tier_Id AND dp.Session_Id = ?
			   WHERE t.Tier_Id = ?`
	tp := model.TierPrice{SessionID: sessionID}
	err := tx.QueryRowContext(ctx, q, sessionID, tierID).Scan(&tp.TierID, &tp.TierName, &tp.Price)
	if err == sql.ErrNoRows {
		return model.TierPrice{}, ErrTierNotPriced
	}
	if err != nil {
		return model.TierPrice{}, err
	}
	return tp, nil
}
