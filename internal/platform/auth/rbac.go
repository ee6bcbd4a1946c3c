package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinator"
	RoleViewer      = "viewer"
)

// Role sets used by route groups.
var (
	WriteRoles = []string{RoleAdmin, RoleCoordinator}
	ReadRoles  = []string{RoleAdmin, RoleCoordinator, RoleViewer}
)

// RequireRole returns middleware that checks if the user has at least one of
// the specified roles. admin satisfies every check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if HasAnyRole(RolesFromContext(c.Request().Context()), roles...) {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

func HasAnyRole(userRoles []string, required ...string) bool {
	for _, has := range userRoles {
		if has == RoleAdmin {
			return true
		}
		for _, r := range required {
			if has == r {
				return true
			}
		}
	}
	return false
}
