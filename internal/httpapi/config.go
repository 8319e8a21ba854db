package httpapi

import (
	"net/http"

	"github.com/go-chi/cors"
)

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// strictErrors makes /api/chat answer 502 for switch and generation failures.
// The body keeps the in-band {"response": "..."} shape either way.
var strictErrors bool

// SetStrictErrors toggles strict status codes on chat failures.
func SetStrictErrors(on bool) { strictErrors = on }

// CORS configuration. When disabled, no CORS middleware is added.
var (
	corsEnabled          = true
	corsAllowedOrigins   = []string{"*"}
	corsAllowedMethods   = defaultCORSMethods
	corsAllowedHeaders   = []string{"*"}
	corsAllowCredentials = true
)

// go-chi/cors has no method wildcard, so "all methods" is spelled out.
var defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}

// SetCORSOptions configures CORS behavior for the HTTP server. Empty origin
// and header lists mean "*"; an empty method list means every method.
func SetCORSOptions(enabled bool, origins, methods, headers []string, credentials bool) {
	corsEnabled = enabled
	corsAllowedOrigins = orStar(origins)
	corsAllowedMethods = append([]string(nil), defaultCORSMethods...)
	if len(methods) > 0 {
		corsAllowedMethods = append([]string(nil), methods...)
	}
	corsAllowedHeaders = orStar(headers)
	corsAllowCredentials = credentials
}

func orStar(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return append([]string(nil), in...)
}

// corsOptions builds the go-chi/cors options. Browsers reject a literal "*"
// origin on credentialed requests, so in that case the request origin is
// echoed back instead.
func corsOptions() cors.Options {
	opts := cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   corsAllowedMethods,
		AllowedHeaders:   corsAllowedHeaders,
		AllowCredentials: corsAllowCredentials,
		MaxAge:           300,
	}
	if corsAllowCredentials && containsStar(corsAllowedOrigins) {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	return opts
}

func containsStar(list []string) bool {
	for _, s := range list {
		if s == "*" {
			return true
		}
	}
	return false
}
