package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// CompressionMiddleware compresses JSON API responses for clients that
// accept gzip or deflate. Probes and metrics pass through untouched.
func CompressionMiddleware(next http.Handler) http.Handler {
	compressed := chimw.Compress(gzip.BestSpeed, "application/json")(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !shouldCompress(r) {
			next.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
}

// shouldCompress limits compression to JSON API responses
func shouldCompress(r *http.Request) bool {
	if r.Method == http.MethodHead {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// NoStore marks API responses as uncacheable by browsers and proxies
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}
