package middleware

import (
	"net/http"

	"food-court/internal/domain"

	"go.uber.org/zap"
)

// RequireRole middleware ensures the caller has one of the specified roles.
// Role mismatches answer 401 so resource existence never leaks to callers
// holding the wrong kind of account.
func RequireRole(allowedRoles []domain.Role, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				respondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == string(allowedRole) {
					allowed = true
					break
				}
			}

			if !allowed {
				logger.Warn("Caller role not authorized",
					zap.String("role", role),
				)
				respondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
