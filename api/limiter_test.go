package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"audit-quote/internal/config"
)

func TestParseTrustedProxies(t *testing.T) {
	proxies, invalid := parseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.5 ", "", "not-an-ip", "::1", "300.1.1.1/8"})
	assert.Len(t, proxies, 3)
	assert.Equal(t, []string{"not-an-ip", "300.1.1.1/8"}, invalid)
}

func TestClientIP(t *testing.T) {
	proxies, _ := parseTrustedProxies([]string{"10.0.0.0/8"})

	tests := []struct {
		name    string
		proxies trustedProxies
		remote  string
		headers map[string]string
		want    string
	}{
		{"peer only", nil, "203.0.113.7:4000", nil, "203.0.113.7"},
		{"untrusted peer ignores forwarded for", nil, "203.0.113.7:4000", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "203.0.113.7"},
		{"untrusted peer ignores real ip", nil, "203.0.113.7:4000", map[string]string{"X-Real-IP": "1.2.3.4"}, "203.0.113.7"},
		{"trusted peer uses forwarded for", proxies, "10.1.1.1:4000", map[string]string{"X-Forwarded-For": "198.51.100.9"}, "198.51.100.9"},
		{"spoofed leftmost hop is skipped", proxies, "10.1.1.1:4000", map[string]string{"X-Forwarded-For": "1.1.1.1, 198.51.100.9, 10.2.2.2"}, "198.51.100.9"},
		{"trusted peer falls back to real ip", proxies, "10.1.1.1:4000", map[string]string{"X-Real-IP": "198.51.100.10"}, "198.51.100.10"},
		{"garbage header keeps peer", proxies, "10.1.1.1:4000", map[string]string{"X-Forwarded-For": "nonsense"}, "10.1.1.1"},
		{"no port", nil, "203.0.113.7", nil, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, tt.proxies.clientIP(req))
		})
	}
}

func TestContactRateLimitIgnoresSpoofedHeaders(t *testing.T) {
	cfg := config.Default().Server
	cfg.ContactRatePerMinute = 1
	cfg.ContactBurst = 1
	s := NewServer("dev", cfg, WithLogger(zap.NewNop()), WithNotifier(&fakeNotifier{}))

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(validContact))
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("3.3.3.3"))
}

func TestContactRateLimitBehindTrustedProxy(t *testing.T) {
	cfg := config.Default().Server
	cfg.ContactRatePerMinute = 1
	cfg.ContactBurst = 1
	cfg.TrustedProxies = []string{"10.0.0.0/8"}
	s := NewServer("dev", cfg, WithLogger(zap.NewNop()), WithNotifier(&fakeNotifier{}))

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(validContact))
		req.RemoteAddr = "10.0.0.2:5555"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"))
}
