package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthday/events-api/internal/core/ports"
)

// RBAC restricts a route to the given roles. It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := c.Get("identity").(ports.Identity)
			if _, ok := allowed[identity.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("User role %s is not authorized to access this route", identity.Role))
			}
			return next(c)
		}
	}
}
