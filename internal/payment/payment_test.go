package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketbox/ticketbox/internal/config"
	"github.com/ticketbox/ticketbox/internal/model"
)

func testBank() config.BankConfig {
	return config.BankConfig{
		BankName:    "Techcombank",
		BankID:      "970407",
		AccountNo:   "131220056969",
		AccountName: "TRINH GIA HIEP",
	}
}

func TestTransferContent(t *testing.T) {
	assert.Equal(t, "TICKETBOX 123", TransferContent(123))
}

func TestRoundAmount(t *testing.T) {
	assert.EqualValues(t, 150000, roundAmount(150000.0))
	assert.EqualValues(t, 150000, roundAmount(149999.6))
	assert.EqualValues(t, 0, roundAmount(0.2))
}

func TestHmac256(t *testing.T) {
	// echo -n "data" | openssl dgst -sha256 -hmac "key"
	assert.Equal(t,
		"5031fe3d989c6d1537a013fa6e739da23463fdaec3b70137d828e36ace221bd0",
		Hmac256([]byte("data"), []byte("key")))
}

func TestStaticQR(t *testing.T) {
	got := staticQR("970407", "131220056969", "TRINH GIA HIEP", "print", 150000, "TICKETBOX 42")

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "img.vietqr.io", u.Host)
	assert.Equal(t, "/image/970407-131220056969-print.jpg", u.Path)
	assert.Equal(t, "150000", u.Query().Get("amount"))
	assert.Equal(t, "TICKETBOX 42", u.Query().Get("addInfo"))
	assert.Equal(t, "TRINH GIA HIEP", u.Query().Get("accountName"))
}

func TestQRBankTransfer(t *testing.T) {
	s := &Service{bank: testBank()}

	res, err := s.QR(context.Background(), model.MethodBankTransfer, 42, 150000)
	require.NoError(t, err)

	assert.False(t, res.Fallback)
	assert.Contains(t, res.URL, "970407-131220056969-print.jpg")
	assert.Contains(t, res.URL, "amount=150000")
	assert.Equal(t, "Techcombank", res.Bank.BankName)
	assert.Equal(t, "131220056969", res.Bank.AccountNo)
	assert.Equal(t, "TICKETBOX 42", res.Bank.TransferContent)
}

func TestQRUnknownMethod(t *testing.T) {
	s := &Service{bank: testBank()}

	_, err := s.QR(context.Background(), "PAYPAL", 42, 150000)
	assert.ErrorIs(t, err, model.ErrUnknownMethod)
}

func TestQRMoMoSuccess(t *testing.T) {
	momoCfg := config.MoMoConfig{
		PartnerCode: "MOMO",
		AccessKey:   "access",
		SecretKey:   "secret",
		RedirectURL: "http://localhost/return",
		IPNURL:      "http://localhost/ipn",
		FallbackQR:  "970422",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req momoRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "MOMO42", req.OrderID)
		assert.Equal(t, "150000", req.Amount)
		assert.Equal(t, "captureWallet", req.RequestType)

		// The server recomputes the signature the same way MoMo does.
		raw := "accessKey=" + req.AccessKey +
			"&amount=" + req.Amount +
			"&extraData=" + req.ExtraData +
			"&ipnUrl=" + req.IPNURL +
			"&orderId=" + req.OrderID +
			"&orderInfo=" + req.OrderInfo +
			"&partnerCode=" + req.PartnerCode +
			"&redirectUrl=" + req.RedirectURL +
			"&requestId=" + req.RequestID +
			"&requestType=" + req.RequestType
		assert.Equal(t, Hmac256([]byte(raw), []byte("secret")), req.Signature)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"resultCode": 0,
			"qrCodeUrl":  "https://momo.example/qr/42",
		})
	}))
	defer srv.Close()
	momoCfg.Endpoint = srv.URL

	s := &Service{bank: testBank(), momo: NewMoMoClient(momoCfg)}

	res, err := s.QR(context.Background(), model.MethodMoMo, 42, 150000)
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, "https://momo.example/qr/42", res.URL)
	assert.Equal(t, "MoMo", res.Bank.BankName)
}

func TestQRMoMoFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"resultCode": 41,
			"message":    "duplicate order",
		})
	}))
	defer srv.Close()

	momoCfg := config.MoMoConfig{Endpoint: srv.URL, FallbackQR: "970422"}
	s := &Service{bank: testBank(), momo: NewMoMoClient(momoCfg)}

	res, err := s.QR(context.Background(), model.MethodMoMo, 42, 150000)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.URL, "970422-0987654321-compact.jpg")
	assert.Contains(t, res.URL, "amount=150000")
}

func TestQRMoMoGatewayDown(t *testing.T) {
	momoCfg := config.MoMoConfig{Endpoint: "http://127.0.0.1:1/create", FallbackQR: "970422"}
	s := &Service{bank: testBank(), momo: NewMoMoClient(momoCfg)}

	res, err := s.QR(context.Background(), model.MethodMoMo, 42, 150000)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.URL, "970422-0987654321-compact.jpg")
}

func TestQRZaloPaySuccess(t *testing.T) {
	zpCfg := config.ZaloPayConfig{
		AppID:       "2553",
		Key1:        "key1",
		RedirectURL: "http://localhost/return",
		CallbackURL: "http://localhost/callback",
		FallbackQR:  "970415",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "2553", r.PostFormValue("app_id"))
		assert.Equal(t, "user42", r.PostFormValue("app_user"))
		assert.Equal(t, "150000", r.PostFormValue("amount"))

		raw := r.PostFormValue("app_id") + "|" + r.PostFormValue("app_trans_id") + "|" +
			r.PostFormValue("app_user") + "|" + r.PostFormValue("amount") + "|" +
			r.PostFormValue("app_time") + "|" + r.PostFormValue("embed_data") + "|" +
			r.PostFormValue("item")
		assert.Equal(t, Hmac256([]byte(raw), []byte("key1")), r.PostFormValue("mac"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"return_code": 1,
			"order_url":   "https://zalopay.example/order/42",
		})
	}))
	defer srv.Close()
	zpCfg.Endpoint = srv.URL

	zp := NewZaloPayClient(zpCfg)
	zp.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	s := &Service{bank: testBank(), zalopay: zp}

	res, err := s.QR(context.Background(), model.MethodZaloPay, 42, 150000)
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, "https://zalopay.example/order/42", res.URL)
	assert.Equal(t, "ZaloPay", res.Bank.BankName)
}

func TestQRZaloPayFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"return_code":    2,
			"return_message": "invalid mac",
		})
	}))
	defer srv.Close()

	zpCfg := config.ZaloPayConfig{Endpoint: srv.URL, FallbackQR: "970415"}
	s := &Service{bank: testBank(), zalopay: NewZaloPayClient(zpCfg)}

	res, err := s.QR(context.Background(), model.MethodZaloPay, 42, 150000)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.URL, "970415-0987654321-compact.jpg")
}

func TestZaloPayAppTransID(t *testing.T) {
	var gotTransID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotTransID = r.PostFormValue("app_trans_id")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"return_code": 1,
			"order_url":   "https://zalopay.example/order/1",
		})
	}))
	defer srv.Close()

	zp := NewZaloPayClient(config.ZaloPayConfig{Endpoint: srv.URL, AppID: "2553", Key1: "key1"})
	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	zp.now = func() time.Time { return fixed }

	_, err := zp.CreateOrder(context.Background(), 1, 1000, "TICKETBOX 1")
	require.NoError(t, err)
	assert.Equal(t, "20250601_1748772000000", gotTransID)
}
