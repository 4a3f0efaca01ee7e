package auth

import (
	"context"
	"net/http"
)

type ctxKey int

const userKey ctxKey = 0

// UserContext is the identity the UI gateway forwards with each request.
type UserContext struct {
	UserID    string
	Role      string
	Warehouse string
}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func FromContext(ctx context.Context) UserContext {
	if u, ok := ctx.Value(userKey).(UserContext); ok {
		return u
	}
	return UserContext{}
}

func GetUserID(ctx context.Context) string {
	return FromContext(ctx).UserID
}

func GetWarehouse(ctx context.Context) string {
	return FromContext(ctx).Warehouse
}

// Middleware lifts the gateway identity headers into the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserContext{
			UserID:    r.Header.Get("X-User-Id"),
			Role:      r.Header.Get("X-User-Role"),
			Warehouse: r.Header.Get("X-Warehouse"),
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}
