// internal/adapters/in/http/middleware/user_auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"storefront/internal/platform/logger"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type ctxKey int

const (
	ctxKeyUID ctxKey = iota
	ctxKeyEmail
)

// UserAuthMiddleware verifies the Firebase ID token (buyer side) and stores uid/email in context.
type UserAuthMiddleware struct {
	Verifier TokenVerifier
	Log      *logger.Logger
}

func (m *UserAuthMiddleware) Handler(next http.Handler) http.Handler {
	log := logger.OrNop(m.Log).Component("user_auth")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Verifier == nil {
			writeAuthErr(w, http.StatusServiceUnavailable, "user auth middleware not initialized")
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthErr(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			writeAuthErr(w, http.StatusUnauthorized, "empty bearer token")
			return
		}

		token, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			log.Debug("token rejected", "err", err)
			writeAuthErr(w, http.StatusUnauthorized, "invalid token")
			return
		}
		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			writeAuthErr(w, http.StatusUnauthorized, "invalid uid in token")
			return
		}

		email := ""
		if s, ok := token.Claims["email"].(string); ok {
			email = strings.TrimSpace(s)
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), uid, email)))
	})
}

// WithUser puts the authenticated user into ctx.
func WithUser(ctx context.Context, uid, email string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUID, strings.TrimSpace(uid))
	if e := strings.TrimSpace(email); e != "" {
		ctx = context.WithValue(ctx, ctxKeyEmail, e)
	}
	return ctx
}

// CurrentUserUID returns the Firebase UID of the caller.
func CurrentUserUID(r *http.Request) (string, bool) {
	u, ok := r.Context().Value(ctxKeyUID).(string)
	if !ok || u == "" {
		return "", false
	}
	return u, true
}

// CurrentUserEmail returns the email claim, if the token carried one.
func CurrentUserEmail(r *http.Request) string {
	e, _ := r.Context().Value(ctxKeyEmail).(string)
	return e
}

func writeAuthErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	kind := "unauthorized"
	if code == http.StatusServiceUnavailable {
		kind = "unavailable"
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"error": kind, "message": msg})
}
