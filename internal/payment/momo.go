package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ticketbox/ticketbox/internal/config"
)

// MoMoClient calls the MoMo create-payment API.  Requests are signed
// with an HMAC-SHA256 over an alphabetically ordered key=value string,
// which MoMo verifies against the partner's secret key.
type MoMoClient struct {
	cfg config.MoMoConfig
	hc  *http.Client
}

// NewMoMoClient creates a client from gateway configuration.
func NewMoMoClient(cfg config.MoMoConfig) *MoMoClient {
	return &MoMoClient{
		cfg: cfg,
		hc:  &http.Client{Timeout: 10 * time.Second},
	}
}

// momoRequest is the create-payment request body.
type momoRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      string `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

// CreatePayment asks MoMo for a payment link for the order and returns
// the QR code URL (or the pay URL when no QR variant is offered).
func (c *MoMoClient) CreatePayment(ctx context.Context, orderID uint64, amount int64, orderInfo string) (string, error) {
	req := momoRequest{
		PartnerCode: c.cfg.PartnerCode,
		AccessKey:   c.cfg.AccessKey,
		RequestID:   fmt.Sprintf("MOMO%d%d", orderID, time.Now().UnixMilli()),
		Amount:      fmt.Sprintf("%d", amount),
		OrderID:     fmt.Sprintf("MOMO%d", orderID),
		OrderInfo:   orderInfo,
		RedirectURL: c.cfg.RedirectURL,
		IPNURL:      c.cfg.IPNURL,
		RequestType: "captureWallet",
		ExtraData:   "",
		Lang:        "vi",
	}

	// MoMo's signature covers the request fields in alphabetical key
	// order, joined as a query string without escaping.
	raw := fmt.Sprintf("accessKey=%s&amount=%s&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		req.AccessKey, req.Amount, req.ExtraData, req.IPNURL, req.OrderID,
		req.OrderInfo, req.PartnerCode, req.RedirectURL, req.RequestID, req.RequestType)
	req.Signature = Hmac256([]byte(raw), []byte(c.cfg.SecretKey))

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("momo: marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("momo: new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("momo: do: %w", err)
	}
	defer resp.Body.Close()

	var reply struct {
		ResultCode int    `json:"resultCode"`
		Message    string `json:"message"`
		QRCodeURL  string `json:"qrCodeUrl"`
		PayURL     string `json:"payUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("momo: decode: %w", err)
	}
	if reply.ResultCode != 0 {
		return "", fmt.Errorf("momo: resultCode %d: %s", reply.ResultCode, reply.Message)
	}
	if reply.QRCodeURL != "" {
		return reply.QRCodeURL, nil
	}
	return reply.PayURL, nil
}
