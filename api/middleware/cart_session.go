package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/lbstore/storefront-backend/pkg/logger"
)

// CartSessionHeader carries the shopper's cart session id both ways.
const CartSessionHeader = "X-Cart-Session"

// CartSession resolves the shopper session from the header, issuing a new
// uuid when it is missing or malformed, and echoes it on the response.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(CartSessionHeader, id)

			ctx := context.WithValue(r.Context(), ctxCartSession, id)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
