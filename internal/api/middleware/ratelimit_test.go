// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// hit sends one move request from addr and returns the recorder.
func hit(h http.Handler, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = addr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimit_RejectsWithJSONRPCBody(t *testing.T) {
	h := RateLimit(RateLimitConfig{RequestLimit: 3, WindowSize: time.Second})(okHandler)

	for i := range 3 {
		require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:12345").Code, "request %d", i+1)
	}
	rr := hit(h, "192.168.1.1:12345")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Error   struct {
			Code int `json:"code"`
			Data struct {
				Detail string `json:"detail"`
			} `json:"data"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "2.0", body.JSONRPC)
	assert.Equal(t, "null", string(body.ID))
	assert.Equal(t, -32603, body.Error.Code)
	assert.Equal(t, "rate limit exceeded", body.Error.Data.Detail)
}

func TestRateLimit_KeyedPerClient(t *testing.T) {
	h := RateLimit(RateLimitConfig{RequestLimit: 2, WindowSize: time.Second})(okHandler)

	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1").Code)
	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.1:2").Code)
	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.2:1").Code, "other client has its own window")
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.1:3").Code)
}

func TestRateLimit_WhitelistBypasses(t *testing.T) {
	h := RateLimit(RateLimitConfig{
		RequestLimit: 1,
		WindowSize:   time.Second,
		Whitelist:    []string{"192.168.0.0/16"},
	})(okHandler)

	for range 3 {
		assert.Equal(t, http.StatusOK, hit(h, "192.168.1.10:12345").Code)
	}
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1").Code)
}

func TestAPIRateLimit_Limits(t *testing.T) {
	tests := []struct {
		name      string
		perMinute int
		whitelist []string
		allowed   int
	}{
		{"configured", 60, nil, 60},
		{"default with bad whitelist entry", 0, []string{"not-an-ip"}, DefaultRequestsPerMinute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := APIRateLimit(tt.perMinute, tt.whitelist)(okHandler)
			for i := range tt.allowed {
				require.Equal(t, http.StatusOK, hit(h, "10.1.1.1:1").Code, "request %d", i+1)
			}
			assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.1.1.1:1").Code)
		})
	}
}

func TestWhitelisted(t *testing.T) {
	trusted := parseWhitelist([]string{"127.0.0.1", "10.0.0.0/8", "::1"})
	for addr, want := range map[string]bool{
		"127.0.0.1:5000":       true,
		"10.20.30.40:1":        true,
		"[::1]:80":             true,
		"[::ffff:10.0.0.1]:80": true,
		"192.168.1.1:80":       false,
		"garbage":              false,
	} {
		assert.Equal(t, want, whitelisted(trusted, addr), addr)
	}
}
