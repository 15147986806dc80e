package ports

import (
	"context"

	"github.com/healthday/events-api/internal/core/domain"
)

// CreateRegistrationInput carries the details a user submits when registering
// for an event.
type CreateRegistrationInput struct {
	EventID             string
	DietaryRestrictions string
	SpecialRequirements string
	EmergencyContact    domain.EmergencyContact
}

// RegistrationService is the registration engine. It owns the capacity and
// uniqueness invariants:
//
//   - the number of seat-holding registrations for an event never exceeds
//     the event's maxParticipants, and
//   - a (user, event) pair registers at most once.
type RegistrationService interface {
	// Register checks, in order: event exists, event is active, event has a
	// free seat, user not already registered. On success the seat reservation
	// and the registration insert are a single logical unit of work.
	Register(ctx context.Context, actor Identity, input CreateRegistrationInput) (*domain.Registration, error)
	// Cancel is allowed for the registration's owner or an admin. Cancelling
	// an already-cancelled registration fails with domain.ErrAlreadyCancelled.
	Cancel(ctx context.Context, actor Identity, id string) (*domain.Registration, error)
	// SubmitFeedback is allowed for the owner only, exactly once.
	SubmitFeedback(ctx context.Context, actor Identity, id string, rating int, comment string) (*domain.Registration, error)
	// Get is allowed for the owner or an admin.
	Get(ctx context.Context, actor Identity, id string) (*domain.Registration, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Registration, error)
	// ListForEvent is allowed for the event's organizer or an admin.
	ListForEvent(ctx context.Context, actor Identity, eventID string) ([]*domain.Registration, error)
	// Reconcile recomputes every event's currentParticipants from the count
	// of seat-holding registrations. Run periodically as a consistency check.
	Reconcile(ctx context.Context) error
}
