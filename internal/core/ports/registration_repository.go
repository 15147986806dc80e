package ports

import (
	"context"

	"github.com/healthday/events-api/internal/core/domain"
)

// RegistrationRepository defines persistence for registrations. The mutating
// operations are conditional single-document updates so that cancellation and
// feedback stay exactly-once under concurrent calls.
type RegistrationRepository interface {
	// Create inserts a new registration. Returns domain.ErrAlreadyRegistered
	// when the (user, event) pair already exists (unique compound index).
	Create(ctx context.Context, reg *domain.Registration) (*domain.Registration, error)
	FindByID(ctx context.Context, id string) (*domain.Registration, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Registration, error)

	// Cancel transitions the registration to cancelled, failing with
	// domain.ErrAlreadyCancelled if it already is. The returned registration
	// reflects the state before the transition, so callers can tell whether a
	// seat was held.
	Cancel(ctx context.Context, id string) (*domain.Registration, error)
	// SetFeedback attaches feedback if none exists yet, failing with
	// domain.ErrFeedbackExists otherwise. Returns the updated registration.
	SetFeedback(ctx context.Context, id string, fb domain.Feedback) (*domain.Registration, error)

	// ListByUser returns a user's registrations, newest registered first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Registration, error)
	// ListByEvent returns an event's registrations in registration order
	// (oldest first, since registration order is check-in order).
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error)

	// SeatCounts returns, per event id, the number of registrations currently
	// holding a seat (status pending or confirmed). Used by reconciliation.
	SeatCounts(ctx context.Context) (map[string]int64, error)
}
