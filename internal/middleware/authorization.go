package middleware

import (
	"net/http"

	"nextshop/internal/domain"

	"go.uber.org/zap"
)

// RequireAdmin ensures the caller's session carries the ADMIN role. A
// missing or non-admin session receives the same 401 as an absent session
// so admin endpoints never confirm an account's existence or standing.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if role != domain.RoleAdmin {
				logger.Warn("Non-admin user attempted to access admin endpoint",
					zap.String("role", role),
				)
				RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
