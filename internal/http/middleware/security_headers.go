package middleware

import (
	"fmt"
	"net/http"

	"github.com/tendant/simple-orgs/internal/config"
)

type header struct {
	name  string
	value string
}

// SecurityHeaders creates middleware that sets the configured security
// headers on every response.
func SecurityHeaders(cfg config.SecurityHeadersConfig) func(http.Handler) http.Handler {
	headers := securityHeaders(cfg)

	return func(next http.Handler) http.Handler {
		if len(headers) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, hdr := range headers {
				h.Set(hdr.name, hdr.value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// securityHeaders resolves cfg into the list of headers to send. Empty
// values are skipped.
func securityHeaders(cfg config.SecurityHeadersConfig) []header {
	if !cfg.Enabled {
		return nil
	}

	var headers []header
	add := func(name, value string) {
		if value != "" {
			headers = append(headers, header{name: name, value: value})
		}
	}

	add("Content-Security-Policy", cfg.CSP)
	if cfg.HSTSMaxAge > 0 {
		add("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", cfg.HSTSMaxAge))
	}
	add("X-Frame-Options", cfg.FrameOptions)
	add("X-Content-Type-Options", cfg.ContentTypeOptions)
	add("X-XSS-Protection", cfg.XSSProtection)
	add("Referrer-Policy", cfg.ReferrerPolicy)
	add("Permissions-Policy", cfg.PermissionsPolicy)
	add("Cache-Control", cfg.CacheControl)
	return headers
}
