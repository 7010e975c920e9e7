package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// RBAC admits callers whose role is one of roles. The role comes from the
// application context Auth attached, so a context that logged out elsewhere
// has no role even while its token is still valid. Without a context the
// token's role claim is used.
func RBAC(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !slices.Contains(roles, callerRole(c)) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": domain.ErrForbidden.Error()})
			}
			return next(c)
		}
	}
}

func callerRole(c echo.Context) domain.Role {
	if client, ok := c.Get(ClientKey).(ports.Client); ok && client != nil {
		return client.State().Role()
	}
	role, _ := c.Get(RoleKey).(string)
	return domain.Role(role)
}
