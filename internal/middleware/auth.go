package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrstack/onboarding-service/internal/domain"
	"github.com/hrstack/onboarding-service/internal/rbac"
	"github.com/hrstack/onboarding-service/internal/service"
	"github.com/hrstack/onboarding-service/pkg/errs"
	"github.com/hrstack/onboarding-service/pkg/response"
)

const (
	contextKeyUser    = "auth_user"
	contextKeySession = "auth_session"
)

// Authenticate resolves the bearer token through the auth service and stores
// the user and session on the request context for downstream checks.
func Authenticate(authSvc service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			user, session, err := authSvc.VerifyToken(c.Request().Context(), raw)
			if err != nil {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}

			c.Set(contextKeyUser, user)
			c.Set(contextKeySession, session)

			return next(c)
		}
	}
}

// RequireCapability rejects authenticated callers whose role does not hold
// the capability. Must run after Authenticate.
func RequireCapability(capability string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}
			if !rbac.HasPermission(user.Role, capability) {
				return response.WriteErrorResponse(c, errs.ErrForbidden, nil)
			}
			return next(c)
		}
	}
}

// RequireAccess applies a role-level access mode (hr-and-above, admin-only)
// where no specific resource is involved.
func RequireAccess(mode rbac.AccessMode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
			}
			if !rbac.CanAccessResource(&user, rbac.Resource{}, mode) {
				return response.WriteErrorResponse(c, errs.ErrForbidden, nil)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user attached by Authenticate.
func CurrentUser(c echo.Context) (domain.User, bool) {
	user, ok := c.Get(contextKeyUser).(domain.User)
	return user, ok
}

// CurrentSession returns the session attached by Authenticate.
func CurrentSession(c echo.Context) (domain.Session, bool) {
	session, ok := c.Get(contextKeySession).(domain.Session)
	return session, ok
}
