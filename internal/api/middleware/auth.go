package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/healthday/events-api/internal/core/ports"
)

// unauthorizedMsg is the single 401 message for every token failure mode, so
// responses never reveal whether a token was absent, malformed or expired.
const unauthorizedMsg = "Not authorized to access this route"

// Auth validates the bearer token and injects the caller's identity into the
// request context. The role is loaded fresh from the identity store on every
// request; a role change or account deletion takes effect immediately, no
// matter what the token was issued with.
func Auth(auth ports.AuthService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMsg)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMsg)
			}

			userID, err := auth.ValidateToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMsg)
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMsg)
			}

			c.Set("identity", ports.Identity{UserID: user.ID, Role: user.Role})
			return next(c)
		}
	}
}
