package model

import (
	"errors"
	"time"
)

// Payment methods accepted by the payment endpoints.
const (
	MethodBankTransfer = "BANK_TRANSFER"
	MethodMoMo         = "MOMO"
	MethodZaloPay      = "ZALOPAY"
)

// ErrUnknownMethod is returned when a payment method string is none of
// the accepted constants.
var ErrUnknownMethod = errors.New("unknown payment method")

// ValidMethod reports whether m names an accepted payment method.
func ValidMethod(m string) bool {
	switch m {
	case MethodBankTransfer, MethodMoMo, MethodZaloPay:
		return true
	}
	return false
}

// Payment mirrors the `Payment` table: one row per confirmed order,
// recording the method and confirmation time.
type Payment struct {
	ID        uint64    `json:"payment_id"`
	OrderID   uint64    `json:"order_id"`
	Method    string    `json:"payment_method"`
	Status    string    `json:"payment_status"`
	CreatedAt time.Time `json:"payment_datetime"`
}
