// Package identity resolves the actor behind each request: an
// authenticated user via the session token, or a durable anonymous guest
// via a long-lived cookie.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/glimmerchat/glimmer/internal/config"
	"github.com/glimmerchat/glimmer/internal/domain"
)

const GuestCookieName = "glimmer_guest"

type contextKey int

const identityKey contextKey = iota

var guestIDPattern = regexp.MustCompile(`^guest_[a-f0-9]{32}$`)

// FromContext extracts the resolved identity from the request context.
// The zero Identity means the middleware did not run.
func FromContext(ctx context.Context) domain.Identity {
	if v, ok := ctx.Value(identityKey).(domain.Identity); ok {
		return v
	}
	return domain.Identity{}
}

// WithIdentity returns a context carrying the given identity. Exported for
// tests and internal callers below the HTTP layer.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func generateGuestID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate guest id: %w", err)
	}
	return "guest_" + hex.EncodeToString(buf), nil
}

func isValidGuestID(id string) bool {
	return guestIDPattern.MatchString(id)
}

// userIDFromToken verifies the bearer session token and returns its
// subject. Malformed or expired tokens yield an empty id; absence of a
// usable token is not an error, it just falls through to guest handling.
func userIDFromToken(r *http.Request, secret string) string {
	auth := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || raw == "" {
		return ""
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Subject
}

func setGuestCookie(w http.ResponseWriter, id string, dev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     GuestCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(config.GuestCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(config.GuestCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !dev,
	})
}

// guestFromRequest returns the guest id from the cookie, minting and
// setting a fresh one when the cookie is absent or malformed. The cookie
// is re-set on every response to push its expiry forward.
func guestFromRequest(w http.ResponseWriter, r *http.Request, dev bool) (string, error) {
	if c, err := r.Cookie(GuestCookieName); err == nil && isValidGuestID(c.Value) {
		setGuestCookie(w, c.Value, dev)
		return c.Value, nil
	}

	id, err := generateGuestID()
	if err != nil {
		return "", err
	}
	setGuestCookie(w, id, dev)
	return id, nil
}

// Middleware resolves the caller's identity and stores it in the request
// context. An authenticated session wins; otherwise the guest cookie is
// read or minted. There is no failure path besides entropy exhaustion.
func Middleware(secret string, dev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID := userIDFromToken(r, secret); userID != "" {
				ctx := WithIdentity(r.Context(), domain.UserIdentity(userID))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			guestID, err := guestFromRequest(w, r, dev)
			if err != nil {
				http.Error(w, `{"error":{"code":"INTERNAL","message":"failed to establish identity"}}`, http.StatusInternalServerError)
				return
			}

			ctx := WithIdentity(r.Context(), domain.GuestIdentity(guestID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
