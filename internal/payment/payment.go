// Package payment builds payment QR codes for orders.  Bank transfers
// use a static VietQR image URL; MoMo and ZaloPay call the provider's
// create API and fall back to a VietQR image when the gateway rejects
// the request or cannot be reached, so checkout never dead-ends on a
// gateway outage.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/ticketbox/ticketbox/internal/config"
	"github.com/ticketbox/ticketbox/internal/model"
)

// fallbackAccountNo is the receiving account encoded into fallback
// VietQR images when a wallet gateway is unavailable.
const fallbackAccountNo = "0987654321"

// BankInfo is the manual-transfer block returned alongside the QR URL
// so the payment page can render account details next to the image.
type BankInfo struct {
	BankName        string `json:"bank_name"`
	AccountNo       string `json:"account_no,omitempty"`
	AccountName     string `json:"account_name"`
	TransferContent string `json:"transfer_content"`
}

// QRResult is the outcome of building a payment QR for an order.
type QRResult struct {
	URL      string
	Bank     BankInfo
	Fallback bool // true when a wallet gateway failed and a VietQR image was substituted
}

// Service resolves a payment method to a QR code.  The wallet clients
// are injectable so tests can point them at an httptest server.
type Service struct {
	bank    config.BankConfig
	momo    *MoMoClient
	zalopay *ZaloPayClient
}

// NewService wires the service from gateway configuration.
func NewService(cfg config.Config) *Service {
	return &Service{
		bank:    cfg.Bank,
		momo:    NewMoMoClient(cfg.MoMo),
		zalopay: NewZaloPayClient(cfg.ZaloPay),
	}
}

// TransferContent returns the reference string a payer must attach to
// the transfer so the payment can be matched to the order.
func TransferContent(orderID uint64) string {
	return fmt.Sprintf("TICKETBOX %d", orderID)
}

// roundAmount truncates the order total to whole currency units, which
// is what both the VietQR image service and the wallet gateways expect.
func roundAmount(total float64) int64 {
	return decimal.NewFromFloat(total).Round(0).IntPart()
}

// staticQR builds a VietQR image URL for a direct transfer to the given
// bank account.
func staticQR(bankID, accountNo, accountName, template string, amount int64, content string) string {
	return fmt.Sprintf("https://img.vietqr.io/image/%s-%s-%s.jpg?amount=%d&addInfo=%s&accountName=%s",
		bankID, accountNo, template, amount,
		url.QueryEscape(content), url.QueryEscape(accountName))
}

// QR builds the payment QR for an order using the requested method.
// model.ErrUnknownMethod is returned for unrecognized methods; wallet
// gateway failures are absorbed into a fallback result, never an error.
func (s *Service) QR(ctx context.Context, method string, orderID uint64, total float64) (QRResult, error) {
	amount := roundAmount(total)
	content := TransferContent(orderID)

	switch method {
	case model.MethodBankTransfer:
		return QRResult{
			URL: staticQR(s.bank.BankID, s.bank.AccountNo, s.bank.AccountName, "print", amount, content),
			Bank: BankInfo{
				BankName:        s.bank.BankName,
				AccountNo:       s.bank.AccountNo,
				AccountName:     s.bank.AccountName,
				TransferContent: content,
			},
		}, nil

	case model.MethodMoMo:
		res := QRResult{Bank: BankInfo{
			BankName:        "MoMo",
			AccountName:     s.bank.AccountName,
			TransferContent: content,
		}}
		qrURL, err := s.momo.CreatePayment(ctx, orderID, amount, content)
		if err != nil {
			res.URL = staticQR(s.momo.cfg.FallbackQR, fallbackAccountNo, s.bank.AccountName, "compact", amount, content)
			res.Fallback = true
			return res, nil
		}
		res.URL = qrURL
		return res, nil

	case model.MethodZaloPay:
		res := QRResult{Bank: BankInfo{
			BankName:        "ZaloPay",
			AccountName:     s.bank.AccountName,
			TransferContent: content,
		}}
		qrURL, err := s.zalopay.CreateOrder(ctx, orderID, amount, content)
		if err != nil {
			res.URL = staticQR(s.zalopay.cfg.FallbackQR, fallbackAccountNo, s.bank.AccountName, "compact", amount, content)
			res.Fallback = true
			return res, nil
		}
		res.URL = qrURL
		return res, nil
	}

	return QRResult{}, model.ErrUnknownMethod
}

// Hmac256 signs body with key and returns the hex digest.  Both wallet
// gateways authenticate requests this way.
func Hmac256(body, key []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
