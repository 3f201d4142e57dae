package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

func testConfig() *Config {
	return &Config{
		Addr:      "127.0.0.1:0",
		Sessions:  SessionsConfig{Max: 100, TTL: time.Minute},
		RateLimit: RateLimitConfig{Max: 1000, Window: time.Minute},
		CORS:      CORSConfig{Origins: []string{"*"}},
		Graceful:  GracefulConfig{ShutdownTimeout: time.Second},
	}
}

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv, err := NewServer(ctx, zap.NewNop(), tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider(), cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doRequest(t *testing.T, method, url, body string, header http.Header) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequestWithContext(context.Background(), method, url, nil)
	} else {
		req, err = http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	}
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_Probes(t *testing.T) {
	srv, ts := newTestServer(t, testConfig())

	resp := doRequest(t, http.MethodGet, ts.URL+"/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/readyz", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	srv.Health().SetReady(true)
	resp = doRequest(t, http.MethodGet, ts.URL+"/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON[struct {
		Status string `json:"status"`
	}](t, resp)
	assert.Equal(t, "ok", body.Status)
}

func TestServer_Middleware(t *testing.T) {
	_, ts := newTestServer(t, testConfig())

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/products", "", http.Header{
		"X-Request-Id": {"custom-request-id-12345"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "custom-request-id-12345", resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "1000", resp.Header.Get("X-RateLimit-Limit"))

	resp = doRequest(t, http.MethodOptions, ts.URL+"/api/sessions", "", http.Header{
		"Origin":                        {"http://example.com"},
		"Access-Control-Request-Method": {"POST"},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-Request-ID")
}

func TestServer_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Max = 2
	_, ts := newTestServer(t, cfg)

	for range 2 {
		resp := doRequest(t, http.MethodGet, ts.URL+"/livez", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := doRequest(t, http.MethodGet, ts.URL+"/livez", "", nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestServer_Checkout(t *testing.T) {
	_, ts := newTestServer(t, testConfig())

	resp := doRequest(t, http.MethodPost, ts.URL+"/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sid := decodeJSON[struct {
		ID string `json:"id"`
	}](t, resp).ID
	cartURL := ts.URL + "/api/sessions/" + sid + "/cart"

	type cartResponse struct {
		ItemCount int `json:"itemCount"`
		Totals    struct {
			Subtotal float64 `json:"subtotal"`
			Tax      float64 `json:"tax"`
			Shipping float64 `json:"shipping"`
			Total    float64 `json:"total"`
		} `json:"totals"`
	}

	for _, id := range []string{"6", "4", "6"} {
		resp = doRequest(t, http.MethodPost, cartURL+"/items", `{"productId":"`+id+`"}`, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, cartURL, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := decodeJSON[cartResponse](t, resp)
	assert.Equal(t, 3, c.ItemCount)
	// 2 x 89.99 + 49.99
	assert.InDelta(t, 229.97, c.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 18.40, c.Totals.Tax, 1e-9)
	assert.InDelta(t, 0, c.Totals.Shipping, 1e-9)
	assert.InDelta(t, 248.37, c.Totals.Total, 1e-9)

	resp = doRequest(t, http.MethodDelete, ts.URL+"/api/sessions/"+sid, "", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doRequest(t, http.MethodGet, cartURL, "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Serve(t *testing.T) {
	cfg := testConfig()
	srv, err := NewServer(context.Background(), zap.NewNop(), tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	require.Eventually(t, func() bool { return srv.Health().IsReady(context.Background()) },
		time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, srv.Health().IsReady(context.Background()))
}
