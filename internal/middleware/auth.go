package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/asteritime/asteritime/internal/domain/user"
	"github.com/asteritime/asteritime/internal/service"
)

type authUserCtxKey struct{}

// publicPaths are exempt from authentication.
var publicPaths = map[string]bool{
	"/health":            true,
	"/api/auth/login":    true,
	"/api/auth/register": true,
	"/api/auth/refresh":  true,
}

// Auth returns middleware that validates the JWT bearer token and injects
// the authenticated identity into the request context.
func Auth(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			// WebSocket clients cannot set headers, so /ws authenticates
			// via a ?token= query parameter instead.
			token := ""
			if r.URL.Path == "/ws" {
				token = r.URL.Query().Get("token")
			} else {
				authHeader := r.Header.Get("Authorization")
				token = strings.TrimPrefix(authHeader, "Bearer ")
				if token == authHeader {
					token = ""
				}
			}
			if token == "" {
				http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
				return
			}

			claims, err := authSvc.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
				return
			}

			u := &user.User{
				ID:       claims.UserID,
				Username: claims.Username,
				Email:    claims.Email,
			}
			ctx := context.WithValue(r.Context(), authUserCtxKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user from the request context.
func UserFromContext(ctx context.Context) *user.User {
	u, _ := ctx.Value(authUserCtxKey{}).(*user.User)
	return u
}

// WithUser injects a user into the context. Exported for handler tests.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, authUserCtxKey{}, u)
}
