package httpapi

import (
	"net/http"
	"net/url"
	"strings"
)

// corsMiddleware implements the single-origin CORS policy from spec §4.6:
// one allowed origin (plus its 127.0.0.1/localhost alias), GET/POST/
// OPTIONS, Content-Type only, no credentials.
func corsMiddleware(allowedOrigin string, next http.Handler) http.Handler {
	aliases := originAliases(allowedOrigin)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && aliases[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// originAliases returns the set of Origin header values that should be
// accepted for a configured allowed origin, adding the 127.0.0.1 <->
// localhost swap spec §4.6 calls for without requiring operator config.
func originAliases(allowed string) map[string]bool {
	set := map[string]bool{allowed: true}

	u, err := url.Parse(allowed)
	if err != nil || u.Hostname() == "" {
		return set
	}

	host := u.Hostname()
	var alias string
	switch {
	case host == "localhost":
		alias = strings.Replace(allowed, "localhost", "127.0.0.1", 1)
	case host == "127.0.0.1":
		alias = strings.Replace(allowed, "127.0.0.1", "localhost", 1)
	default:
		return set
	}
	set[alias] = true
	return set
}
