package auth

import (
	"log/slog"
	"net/http"

	errors "github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/transport"
)

type RBACAuthorization struct {
	*transport.BaseHandler
	checker PermissionChecker
	logger  *slog.Logger
}

func NewRBACAuthorization(checker PermissionChecker, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		checker:     checker,
		logger:      logger,
	}
}

// Require admits the request only when the caller's role grants perm.
// It must run after the auth middleware.
func (ra *RBACAuthorization) Require(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := errors.UserIDFromContext(r.Context())
			role := errors.RoleFromContext(r.Context())
			if userID == 0 {
				ra.WriteError(w, http.StatusUnauthorized, "user not authenticated")
				return
			}

			ok, err := ra.checker.Allowed(role, perm)
			if err != nil {
				ra.HandleServiceError(w, r, errors.NewInternalError("Authorization check failed", err))
				return
			}
			if !ok {
				ra.logger.WarnContext(r.Context(), "access denied",
					"user_id", userID,
					"role", role,
					"required_permission", perm.String())
				ra.HandleServiceError(w, r, errors.NewForbiddenError("Insufficient permissions for this operation", errors.ErrCodeInsufficientRole))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates admin-only surfaces that have no finer permission.
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Require(PermManageDoctors)
}

// RequireDoctorOrAdmin admits any clinical role.
func (ra *RBACAuthorization) RequireDoctorOrAdmin() func(http.Handler) http.Handler {
	return ra.Require(PermReadOwnLeave)
}
