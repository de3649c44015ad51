package security

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonzxz12/Findr-sub000/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func testConfig() *config.Config {
	return &config.Config{
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{Enabled: true, Requests: 2, Window: 60},
	}
}

func TestSecurityHeaders(t *testing.T) {
	m := NewSecurityMiddleware(testConfig())
	defer m.Close()

	rec := httptest.NewRecorder()
	m.SecurityHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	assert.Equal(t, "deny", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestCORS(t *testing.T) {
	m := NewSecurityMiddleware(testConfig())
	defer m.Close()
	handler := m.CORS(okHandler())

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Client-ID")
	})
}

func TestCORS_Wildcard(t *testing.T) {
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"*", "http://localhost:3000"}
	m := NewSecurityMiddleware(cfg)
	defer m.Close()
	handler := m.CORS(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Origin", "https://any.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRateLimit(t *testing.T) {
	m := NewSecurityMiddleware(testConfig())
	defer m.Close()
	handler := m.RateLimit(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "other callers keep their own budget")
}

func TestRateLimit_ForwardedForFromUntrustedPeer(t *testing.T) {
	m := NewSecurityMiddleware(testConfig())
	defer m.Close()
	handler := m.RateLimit(okHandler())

	allowed := 0
	var last *httptest.ResponseRecorder
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.RemoteAddr = "198.51.100.9:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
		if last.Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed)
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
}

func TestRateLimit_TrustedProxyForwardsCaller(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.TrustedProxies = []string{"10.0.0.0/8"}
	m := NewSecurityMiddleware(cfg)
	defer m.Close()
	handler := m.RateLimit(okHandler())

	serve := func(caller string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.RemoteAddr = "10.1.2.3:4000"
		req.Header.Set("X-Forwarded-For", caller)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve("203.0.113.1"))
	assert.Equal(t, http.StatusOK, serve("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, serve("203.0.113.1"))
	assert.Equal(t, http.StatusOK, serve("203.0.113.2"), "callers behind the proxy keep separate budgets")
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enabled = false
	m := NewSecurityMiddleware(cfg)
	defer m.Close()

	handler := m.RateLimit(okHandler())
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestLimitBody(t *testing.T) {
	m := NewSecurityMiddleware(testConfig())
	defer m.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	m.LimitBody(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRateLimiter_RefillsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))

	current = current.Add(time.Minute)
	assert.True(t, rl.Allow("k"))
}

func TestRateLimiter_EvictsIdleCallers(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	rl.Allow("idle")
	current = current.Add(90 * time.Second)
	rl.Allow("recent")

	current = current.Add(60 * time.Second)
	rl.evictIdle()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	assert.NotContains(t, rl.visitors, "idle")
	assert.Contains(t, rl.visitors, "recent")
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(50, time.Hour)
	defer rl.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestProperty_RateLimiterNeverExceedsBudget(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("at most maxRequests are allowed inside one window", prop.ForAll(
		func(limit, attempts int) bool {
			rl := NewRateLimiter(limit, time.Hour)
			defer rl.Stop()

			allowed := 0
			for i := 0; i < attempts; i++ {
				if rl.Allow("caller") {
					allowed++
				}
			}
			want := attempts
			if limit < attempts {
				want = limit
			}
			return allowed == want
		},
		gen.IntRange(1, 50),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestClientIP(t *testing.T) {
	trusted := parseProxies([]string{"10.0.0.0/8", "192.0.2.50"})

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		realIP     string
		trusted    []*net.IPNet
		want       string
	}{
		{name: "peer address", remoteAddr: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "headers ignored without trusted proxies", remoteAddr: "192.0.2.1:1234", xff: "203.0.113.5", realIP: "203.0.113.6", want: "192.0.2.1"},
		{name: "headers ignored from untrusted peer", remoteAddr: "198.51.100.1:1234", xff: "203.0.113.5", trusted: trusted, want: "198.51.100.1"},
		{name: "forwarded caller from trusted peer", remoteAddr: "10.0.0.1:1234", xff: "203.0.113.5", trusted: trusted, want: "203.0.113.5"},
		{name: "spoofed leftmost hop skipped", remoteAddr: "10.0.0.1:1234", xff: "1.2.3.4, 203.0.113.5, 10.0.0.7", trusted: trusted, want: "203.0.113.5"},
		{name: "single trusted address", remoteAddr: "192.0.2.50:80", xff: "203.0.113.9", trusted: trusted, want: "203.0.113.9"},
		{name: "only trusted hops", remoteAddr: "10.0.0.1:1234", xff: "10.0.0.9, 10.0.0.8", trusted: trusted, want: "10.0.0.9"},
		{name: "real ip from trusted peer", remoteAddr: "10.0.0.1:1234", realIP: "203.0.113.6", trusted: trusted, want: "203.0.113.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, ClientIP(req, tt.trusted))
		})
	}
}

func TestParseProxies(t *testing.T) {
	nets := parseProxies([]string{"10.0.0.0/8", " 192.0.2.50 ", "::1", "not-an-ip"})
	require.Len(t, nets, 3)
	assert.True(t, nets[1].Contains(net.ParseIP("192.0.2.50")))
	assert.False(t, nets[1].Contains(net.ParseIP("192.0.2.51")))
	assert.True(t, nets[2].Contains(net.ParseIP("::1")))
}
