package httpd

import (
	"context"
	"net/http"
	"strings"

	"github.com/docudetect/docu-detect/internal/service/auth"
)

type contextKey string

const userContextKey contextKey = "user"

// Authenticate validates the bearer token and stores the caller's
// identity in the request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authorization header must be a bearer token")
			return
		}

		user, err := h.authService.ValidateToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFrom(r *http.Request) *auth.UserContext {
	user, _ := r.Context().Value(userContextKey).(*auth.UserContext)
	return user
}
