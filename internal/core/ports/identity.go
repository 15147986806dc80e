package ports

import "github.com/healthday/events-api/internal/core/domain"

// Identity is the authenticated caller attached to a request by the Auth
// middleware. Role is loaded fresh from the identity store on every request,
// never trusted from the token.
type Identity struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}
