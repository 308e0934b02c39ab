package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable, read once at startup and held for the
// lifetime of the process.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	Bank    BankConfig    // static bank-transfer QR constants
	MoMo    MoMoConfig    // MoMo wallet gateway settings
	ZaloPay ZaloPayConfig // ZaloPay wallet gateway settings
}

// BankConfig carries the fixed bank account constants used to build the
// static VietQR payment image for bank transfers.  No external call is
// made for this method.
type BankConfig struct {
	BankName    string // display name of the receiving bank
	BankID      string // NAPAS bank identifier
	AccountNo   string // receiving account number
	AccountName string // receiving account holder
}

// MoMoConfig carries MoMo gateway credentials and callback URLs.  The
// defaults point at the MoMo sandbox.
type MoMoConfig struct {
	Endpoint    string // create-payment API endpoint
	PartnerCode string
	AccessKey   string
	SecretKey   string // HMAC-SHA256 signing key
	RedirectURL string // browser return URL after payment
	IPNURL      string // server-to-server notification URL
	FallbackQR  string // VietQR bank id used when the gateway is unreachable
}

// ZaloPayConfig carries ZaloPay gateway credentials.  The defaults point
// at the ZaloPay sandbox.
type ZaloPayConfig struct {
	Endpoint    string // create-order API endpoint
	AppID       string
	Key1        string // HMAC-SHA256 signing key for requests
	Key2        string // HMAC key for callbacks (kept for completeness)
	RedirectURL string
	CallbackURL string
	FallbackQR  string // VietQR bank id used when the gateway is unreachable
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must(); gateway settings
// default to the providers' published sandbox values so a development
// instance works out of the box.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),
		Bank: BankConfig{
			BankName:    envStr("BANK_NAME", "Techcombank"),
			BankID:      envStr("BANK_ID", "970407"),
			AccountNo:   envStr("BANK_ACCOUNT_NO", "131220056969"),
			AccountName: envStr("BANK_ACCOUNT_NAME", "TRINH GIA HIEP"),
		},
		MoMo: MoMoConfig{
			Endpoint:    envStr("MOMO_ENDPOINT", "https://test-payment.momo.vn/v2/gateway/api/create"),
			PartnerCode: envStr("MOMO_PARTNER_CODE", "MOMO"),
			AccessKey:   envStr("MOMO_ACCESS_KEY", "F8BBA842ECF85"),
			SecretKey:   envStr("MOMO_SECRET_KEY", "K951B6PE1waDMi640xX08PD3vg6EkVlz"),
			RedirectURL: envStr("MOMO_REDIRECT_URL", "http://localhost:3000/payment-success"),
			IPNURL:      envStr("MOMO_IPN_URL", "http://localhost:5000/api/payment/momo/callback"),
			FallbackQR:  envStr("MOMO_FALLBACK_BANK_ID", "970422"),
		},
		ZaloPay: ZaloPayConfig{
			Endpoint:    envStr("ZALOPAY_ENDPOINT", "https://sb-openapi.zalopay.vn/v2/create"),
			AppID:       envStr("ZALOPAY_APP_ID", "2553"),
			Key1:        envStr("ZALOPAY_KEY1", "PcY4iZIKFCIdgZvA6ueMcMHHUbRLYjPL"),
			Key2:        envStr("ZALOPAY_KEY2", "kLtgPl8HHhfvMuDHPwKfgfsY4Ydm9eIz"),
			RedirectURL: envStr("ZALOPAY_REDIRECT_URL", "http://localhost:3000/payment-success"),
			CallbackURL: envStr("ZALOPAY_CALLBACK_URL", "http://localhost:5000/api/payment/zalopay/callback"),
			FallbackQR:  envStr("ZALOPAY_FALLBACK_BANK_ID", "970415"),
		},
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
