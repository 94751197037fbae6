package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/coz-coffee/api/internal/platform/requestctx"
)

// SessionCookieConfig controls how the anonymous cart session cookie is issued.
type SessionCookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware resolves the caller's cart session from the session
// cookie, minting a fresh ULID-backed session when none is presented. The
// resolved identifier is stored on the request context for handlers and the
// request logger.
func SessionMiddleware(cfg SessionCookieConfig) func(http.Handler) http.Handler {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "coz_session"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(name); err == nil {
				sessionID = strings.TrimSpace(cookie.Value)
			}

			if sessionID == "" {
				sessionID = ulid.Make().String()
				http.SetCookie(w, &http.Cookie{
					Name:     name,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(ttl / time.Second),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := requestctx.WithSessionID(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
