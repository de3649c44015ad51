package security

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/config"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// SecurityMiddleware provides security-related middleware
type SecurityMiddleware struct {
	rateLimiter    *RateLimiter
	trustedProxies []*net.IPNet
	corsConfig     CORSConfig
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// NewSecurityMiddleware creates the middleware from configuration. The rate
// limiter is nil when rate limiting is disabled.
func NewSecurityMiddleware(cfg *config.Config) *SecurityMiddleware {
	m := &SecurityMiddleware{
		corsConfig: CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-Client-ID", "X-Request-ID"},
			MaxAge:         86400,
		},
		trustedProxies: parseProxies(cfg.RateLimit.TrustedProxies),
	}
	if cfg.RateLimit.Enabled {
		m.rateLimiter = NewRateLimiter(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.Window)*time.Second)
	}
	return m
}

// Close stops background work
func (m *SecurityMiddleware) Close() {
	if m.rateLimiter != nil {
		m.rateLimiter.Stop()
	}
}

// SecurityHeaders adds security headers to responses
func (m *SecurityMiddleware) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "deny")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		next.ServeHTTP(w, r)
	})
}

// CORS handles Cross-Origin Resource Sharing
func (m *SecurityMiddleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case origin == "":
		case m.isOriginListed(origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		case m.allowsAnyOrigin():
			// Browsers refuse credentials with a wildcard origin.
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(m.corsConfig.AllowedMethods, ", "))
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(m.corsConfig.AllowedHeaders, ", "))
			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(m.corsConfig.MaxAge))
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LimitBody caps request body size and rejects non-JSON writes
func (m *SecurityMiddleware) LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
				writeRejection(w, http.StatusUnsupportedMediaType, "unsupported media type")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit applies per client IP rate limiting
func (m *SecurityMiddleware) RateLimit(next http.Handler) http.Handler {
	if m.rateLimiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.rateLimiter.Allow(ClientIP(r, m.trustedProxies)) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(m.rateLimiter.Window().Seconds())))
			writeRejection(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isOriginListed reports an exact match in the allowed list
func (m *SecurityMiddleware) isOriginListed(origin string) bool {
	for _, allowed := range m.corsConfig.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

func (m *SecurityMiddleware) allowsAnyOrigin() bool {
	for _, allowed := range m.corsConfig.AllowedOrigins {
		if allowed == "*" {
			return true
		}
	}
	return false
}

// ClientIP returns the caller address used as the rate limit key.
// Forwarding headers are only read when the peer is a trusted proxy; the
// X-Forwarded-For chain is then walked from the right, skipping trusted hops.
func ClientIP(r *http.Request, trusted []*net.IPNet) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	if !isTrusted(peer, trusted) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if i == 0 || !isTrusted(hop, trusted) {
				return hop
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

func isTrusted(addr string, trusted []*net.IPNet) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// parseProxies accepts plain addresses and CIDRs. Entries that parse as
// neither are ignored; config validation rejects them earlier.
func parseProxies(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if _, n, err := net.ParseCIDR(e); err == nil {
			nets = append(nets, n)
			continue
		}
		if ip := net.ParseIP(e); ip != nil {
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
		}
	}
	return nets
}

func writeRejection(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":     message,
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
