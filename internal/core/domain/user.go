package domain

import "time"

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// ValidRole reports whether role is one of the recognised roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleModerator
}

// Address is a user's postal address.
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// Preferences holds a user's notification settings.
type Preferences struct {
	Notifications bool `json:"notifications" bson:"notifications"`
	Newsletter    bool `json:"newsletter" bson:"newsletter"`
}

// User models an account in the identity store. PasswordHash and the
// verification/reset token fields are never serialized to clients.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	PasswordHash    string `json:"-"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"isEmailVerified"`

	// Email-verification state; the token is mailed as-is and compared verbatim.
	EmailVerificationToken   string    `json:"-"`
	EmailVerificationExpires time.Time `json:"-"`

	// Password-reset state; only the sha256 of the mailed token is stored.
	ResetPasswordToken   string    `json:"-"`
	ResetPasswordExpires time.Time `json:"-"`

	ProfilePicture string       `json:"profilePicture,omitempty"`
	Organization   string       `json:"organization,omitempty"`
	Position       string       `json:"position,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Address        *Address     `json:"address,omitempty"`
	Preferences    *Preferences `json:"preferences,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
