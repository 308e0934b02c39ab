package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ticketbox/ticketbox/internal/config"
)

// ZaloPayClient calls the ZaloPay create-order API.  Requests are
// form-encoded and authenticated with an HMAC-SHA256 mac over a
// pipe-joined field string signed with key1.
type ZaloPayClient struct {
	cfg config.ZaloPayConfig
	hc  *http.Client

	// now is injectable so tests get deterministic app_trans_id values.
	now func() time.Time
}

// NewZaloPayClient creates a client from gateway configuration.
func NewZaloPayClient(cfg config.ZaloPayConfig) *ZaloPayClient {
	return &ZaloPayClient{
		cfg: cfg,
		hc:  &http.Client{Timeout: 10 * time.Second},
		now: time.Now,
	}
}

// CreateOrder asks ZaloPay for a payment order and returns its
// order_url, which doubles as the QR target.
func (c *ZaloPayClient) CreateOrder(ctx context.Context, orderID uint64, amount int64, description string) (string, error) {
	now := c.now()

	embedData, err := json.Marshal(map[string]string{"redirecturl": c.cfg.RedirectURL})
	if err != nil {
		return "", fmt.Errorf("zalopay: marshal embed_data: %w", err)
	}
	items, err := json.Marshal([]map[string]interface{}{{
		"itemid":       fmt.Sprintf("%d", orderID),
		"itemname":     description,
		"itemprice":    amount,
		"itemquantity": 1,
	}})
	if err != nil {
		return "", fmt.Errorf("zalopay: marshal item: %w", err)
	}

	// app_trans_id must be prefixed with the current date (yymmdd is
	// accepted as yyyymmdd by the sandbox) and unique per day.
	appTransID := fmt.Sprintf("%s_%d", now.Format("20060102"), now.UnixMilli())
	appTime := now.UnixMilli()

	form := url.Values{}
	form.Set("app_id", c.cfg.AppID)
	form.Set("app_trans_id", appTransID)
	form.Set("app_user", fmt.Sprintf("user%d", orderID))
	form.Set("app_time", fmt.Sprintf("%d", appTime))
	form.Set("item", string(items))
	form.Set("embed_data", string(embedData))
	form.Set("amount", fmt.Sprintf("%d", amount))
	form.Set("description", description)
	form.Set("bank_code", "")
	form.Set("callback_url", c.cfg.CallbackURL)

	// The mac covers app_id|app_trans_id|app_user|amount|app_time|
	// embed_data|item, signed with key1.
	mac := fmt.Sprintf("%s|%s|%s|%d|%d|%s|%s",
		c.cfg.AppID, appTransID, form.Get("app_user"), amount, appTime, embedData, items)
	form.Set("mac", Hmac256([]byte(mac), []byte(c.cfg.Key1)))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("zalopay: new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("zalopay: do: %w", err)
	}
	defer resp.Body.Close()

	var reply struct {
		ReturnCode    int    `json:"return_code"`
		ReturnMessage string `json:"return_message"`
		OrderURL      string `json:"order_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("zalopay: decode: %w", err)
	}
	if reply.ReturnCode != 1 {
		return "", fmt.Errorf("zalopay: return_code %d: %s", reply.ReturnCode, reply.ReturnMessage)
	}
	return reply.OrderURL, nil
}
