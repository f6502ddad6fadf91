package middleware

import (
	"net/http"

	"github.com/retailpoint/posadmin-backend/api/responses"
	pkgAuth "github.com/retailpoint/posadmin-backend/pkg/auth"
	"github.com/retailpoint/posadmin-backend/pkg/enums"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
	"github.com/retailpoint/posadmin-backend/pkg/logger"
)

// RequireRoles rejects the request unless the authenticated actor holds one of
// the listed roles. An empty list admits any authenticated actor.
func RequireRoles(logg *logger.Logger, required ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.UserRole(RoleFromContext(r.Context()))
			if !pkgAuth.RoleAllowed(role, required...) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
