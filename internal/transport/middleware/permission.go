package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/records-management/internal/auth"
)

// RequirePermissions passes the request through when the actor holds at
// least one of the named permissions. System administrators always pass.
func RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFromContext(r.Context())
			if !ok || actor == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !actor.IsSuperuser() {
				hasPermission := false
				for _, perm := range permissions {
					if actor.HasPermission(perm) {
						hasPermission = true
						break
					}
				}

				if !hasPermission {
					slog.Warn("access denied: actor lacks required permissions",
						"actor_id", actor.ID,
						"required_permissions", permissions)
					http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireElevated restricts an endpoint to directors and administrators.
func RequireElevated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := auth.ActorFromContext(r.Context())
		if !ok || actor == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !actor.IsElevated() {
			slog.Warn("access denied: elevated access level required",
				"actor_id", actor.ID,
				"access_level", actor.AccessLevel)
			http.Error(w, "Forbidden: insufficient access level", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
