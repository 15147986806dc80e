package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthday/events-api/internal/core/ports"
)

// identityKey is the context key the Auth middleware stores the caller under.
const identityKey = "identity"

// ctxIdentity extracts the authenticated caller injected by the Auth
// middleware. Presence of a non-empty user id proves the middleware ran.
func ctxIdentity(c echo.Context) (ports.Identity, error) {
	id, _ := c.Get(identityKey).(ports.Identity)
	if id.UserID == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
