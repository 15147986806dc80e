package domain

import "time"

// RegistrationStatus represents the lifecycle state of a registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
	// RegistrationWaitlist exists in the data model but no operation produces
	// or promotes it; a full event rejects with ErrEventFull instead.
	RegistrationWaitlist RegistrationStatus = "waitlist"
)

// HoldsSeat reports whether a registration in this status occupies one of the
// event's seats. Cancelled and waitlisted registrations do not.
func (s RegistrationStatus) HoldsSeat() bool {
	return s == RegistrationPending || s == RegistrationConfirmed
}

// Feedback is a participant's post-event review, settable exactly once.
type Feedback struct {
	Rating      int       `json:"rating" bson:"rating"`
	Comment     string    `json:"comment,omitempty" bson:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
}

// EmergencyContact is required on every registration.
type EmergencyContact struct {
	Name         string `json:"name" bson:"name"`
	Phone        string `json:"phone" bson:"phone"`
	Relationship string `json:"relationship" bson:"relationship"`
}

// Registration joins one user to one event. The (user, event) pair is unique:
// a user registers for a given event at most once, and cancellation is
// terminal through the exposed API.
type Registration struct {
	ID                  string             `json:"id"`
	UserID              string             `json:"user"`
	EventID             string             `json:"event"`
	Status              RegistrationStatus `json:"status"`
	RegistrationDate    time.Time          `json:"registrationDate"`
	Attended            bool               `json:"attended"`
	Feedback            *Feedback          `json:"feedback,omitempty"`
	DietaryRestrictions string             `json:"dietaryRestrictions,omitempty"`
	SpecialRequirements string             `json:"specialRequirements,omitempty"`
	EmergencyContact    EmergencyContact   `json:"emergencyContact"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}
