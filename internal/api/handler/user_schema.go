package handler

type addressRequest struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
	Country *string `json:"country"`
}

type preferencesRequest struct {
	Notifications *bool `json:"notifications"`
	Newsletter    *bool `json:"newsletter"`
}

type updateProfileRequest struct {
	Name         *string             `json:"name" validate:"omitempty,min=2"`
	Organization *string             `json:"organization"`
	Position     *string             `json:"position"`
	Phone        *string             `json:"phone"`
	Address      *addressRequest     `json:"address"`
	Preferences  *preferencesRequest `json:"preferences"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type profilePictureRequest struct {
	ProfilePicture string `json:"profilePicture" validate:"required"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin moderator"`
}
