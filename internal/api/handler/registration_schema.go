package handler

type emergencyContactRequest struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
}

type createRegistrationRequest struct {
	EventID             string                  `json:"eventId" validate:"required"`
	DietaryRestrictions string                  `json:"dietaryRestrictions" validate:"omitempty,max=200"`
	SpecialRequirements string                  `json:"specialRequirements" validate:"omitempty,max=500"`
	EmergencyContact    emergencyContactRequest `json:"emergencyContact" validate:"required"`
}

type feedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=500"`
}
