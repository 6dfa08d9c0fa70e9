package middleware

import (
	"net/http"
	"strings"
)

type originSet struct {
	allowAll bool
	allowed  map[string]struct{}
}

func newOriginSet(allowedOrigins []string) originSet {
	set := originSet{allowed: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			set.allowAll = true
		}
		set.allowed[origin] = struct{}{}
	}
	return set
}

func (s originSet) permits(origin string) bool {
	if s.allowAll {
		return true
	}
	_, ok := s.allowed[origin]
	return ok
}

// CORS allows browser calls from the listed origins. A "*" entry allows any
// origin but answers with a literal "*" and no credentials, so it suits local
// development only.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := newOriginSet(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && origins.permits(origin) {
				h := w.Header()
				if origins.allowAll {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Credentials", "true")
					h.Add("Vary", "Origin")
				}
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OriginChecker returns a WebSocket origin check for the same allow list.
// Requests without an Origin header come from non-browser clients and pass.
func OriginChecker(allowedOrigins []string) func(r *http.Request) bool {
	origins := newOriginSet(allowedOrigins)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origins.permits(origin)
	}
}
