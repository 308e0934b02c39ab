package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketbox/ticketbox/internal/config"
)

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          60 * time.Second,
		KeyStrategy:  "route_query",
		Prefix:       "tb:cache",
		MaxBodyBytes: 1 << 20,
	}
}

func cacheCtx(e *echo.Echo, method, path, query string) (echo.Context, *httptest.ResponseRecorder) {
	target := path
	if query != "" {
		target += "?" + query
	}
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c, rec
}

func TestCacheKeyFrom(t *testing.T) {
	e := echo.New()
	cfg := cacheCfg()

	c1, _ := cacheCtx(e, http.MethodGet, "/v1/events", "category=music")
	c2, _ := cacheCtx(e, http.MethodGet, "/v1/events", "category=music")
	c3, _ := cacheCtx(e, http.MethodGet, "/v1/events", "category=theatre")

	k1 := cacheKeyFrom(cfg, c1)
	assert.True(t, strings.HasPrefix(k1, "tb:cache:"))
	assert.Equal(t, k1, cacheKeyFrom(cfg, c2))
	assert.NotEqual(t, k1, cacheKeyFrom(cfg, c3))

	// The route strategy ignores the query string.
	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, c1), cacheKeyFrom(cfg, c3))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte("short"))
	assert.False(t, ok)

	payload, err := encodePayload(http.StatusOK, http.Header{}, []byte("body"))
	require.NoError(t, err)
	_, _, _, ok = decodePayload(payload[:9])
	assert.False(t, ok)
}

func TestCacheDisabledPassthrough(t *testing.T) {
	e := echo.New()
	cfg := cacheCfg()
	cfg.Enabled = false

	mw := NewRedisCache(cfg, nil)
	c, rec := cacheCtx(e, http.MethodGet, "/v1/events", "")

	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "live") })
	require.NoError(t, h(c))
	assert.Equal(t, "live", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCacheSkipsUncachedMethod(t *testing.T) {
	e := echo.New()
	rdb, mock := redismock.NewClientMock()

	mw := NewRedisCache(cacheCfg(), rdb)
	c, rec := cacheCtx(e, http.MethodPost, "/v1/orders", "")

	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "created") })
	require.NoError(t, h(c))
	assert.Equal(t, "created", rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheMissStoresResponse(t *testing.T) {
	e := echo.New()
	cfg := cacheCfg()
	rdb, mock := redismock.NewClientMock()

	c, rec := cacheCtx(e, http.MethodGet, "/v1/events", "")
	key := cacheKeyFrom(cfg, c)

	expectedHdr := http.Header{
		"Content-Type": []string{"text/plain; charset=UTF-8"},
		"X-Cache":      []string{"MISS"},
	}
	payload, err := encodePayload(http.StatusOK, expectedHdr, []byte("hello"))
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSetEx(key, payload, cfg.TTL).SetVal("OK")

	mw := NewRedisCache(cfg, rdb)
	h := mw(func(c echo.Context) error { return c.String(http.StatusOK, "hello") })
	require.NoError(t, h(c))

	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheHitServesStoredResponse(t *testing.T) {
	e := echo.New()
	cfg := cacheCfg()
	rdb, mock := redismock.NewClientMock()

	c, rec := cacheCtx(e, http.MethodGet, "/v1/events", "")
	key := cacheKeyFrom(cfg, c)

	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"cached":true}`))
	require.NoError(t, err)
	mock.ExpectGet(key).SetVal(string(payload))

	mw := NewRedisCache(cfg, rdb)
	h := mw(func(c echo.Context) error {
		t.Fatal("handler must not run on a cache hit")
		return nil
	})
	require.NoError(t, h(c))

	assert.Equal(t, `{"cached":true}`, rec.Body.String())
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimitDisabledPassthrough(t *testing.T) {
	e := echo.New()
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	c, rec := cacheCtx(e, http.MethodGet, "/v1/events", "")
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	cfg := config.RateLimitConfig{Prefix: "tb:rl", KeyStrategy: "ip_route"}

	c, _ := cacheCtx(e, http.MethodGet, "/v1/events", "")
	key := buildRateKey(cfg, c)
	assert.True(t, strings.HasPrefix(key, "tb:rl:ip:"))
	assert.True(t, strings.HasSuffix(key, "GET /v1/events"))

	cfg.KeyStrategy = "user"
	c.Set("user_id", float64(12))
	assert.Equal(t, "tb:rl:user:12", buildRateKey(cfg, c))

	c2, _ := cacheCtx(e, http.MethodGet, "/v1/events", "")
	assert.Equal(t, "tb:rl:user:anon", buildRateKey(cfg, c2))
}
