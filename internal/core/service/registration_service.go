package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthday/events-api/internal/api/metrics"
	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

// RegistrationService enforces the registration invariants: an event never
// holds more seat-holding registrations than maxParticipants, and a user
// registers for a given event at most once.
//
// The capacity check and the counter increment are never separate steps. A
// seat is acquired through EventRepository.ReserveSeat, a single conditional
// update that increments only while the counter is below the maximum, so two
// concurrent registrations cannot both squeeze past a last-seat check.
type RegistrationService struct {
	registrations ports.RegistrationRepository
	events        ports.EventRepository
	users         ports.UserRepository
	mailer        ports.Mailer
	logger        zerolog.Logger
}

func NewRegistrationService(
	registrations ports.RegistrationRepository,
	events ports.EventRepository,
	users ports.UserRepository,
	mailer ports.Mailer,
	logger zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		registrations: registrations,
		events:        events,
		users:         users,
		mailer:        mailer,
		logger:        logger,
	}
}

// Register creates a registration for the acting user. Precondition order is
// fixed (event exists, event active, event has room, no prior registration)
// and the first failure wins.
func (s *RegistrationService) Register(ctx context.Context, actor ports.Identity, input ports.CreateRegistrationInput) (*domain.Registration, error) {
	event, err := s.events.FindByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive {
		return nil, domain.ErrEventInactive
	}
	if event.CurrentParticipants >= event.MaxParticipants {
		metrics.CapacityRejectionsTotal.Inc()
		return nil, domain.ErrEventFull
	}
	if _, err := s.registrations.FindByUserAndEvent(ctx, actor.UserID, input.EventID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrRegistrationNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	// Acquire the seat first. The reservation is atomic, so under contention
	// only as many callers get past this point as there are free seats.
	reserved, err := s.events.ReserveSeat(ctx, input.EventID)
	if err != nil {
		return nil, fmt.Errorf("register: reserve seat: %w", err)
	}
	if !reserved {
		return nil, s.reservationFailure(ctx, input.EventID)
	}

	now := time.Now().UTC()
	reg := &domain.Registration{
		UserID:              actor.UserID,
		EventID:             input.EventID,
		Status:              domain.RegistrationPending,
		RegistrationDate:    now,
		DietaryRestrictions: input.DietaryRestrictions,
		SpecialRequirements: input.SpecialRequirements,
		EmergencyContact:    input.EmergencyContact,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.registrations.Create(ctx, reg)
	if err != nil {
		// Lost the insert (duplicate race or store failure): give the seat back.
		if releaseErr := s.events.ReleaseSeat(ctx, input.EventID); releaseErr != nil {
			s.logger.Error().Err(releaseErr).Str("event_id", input.EventID).Msg("failed to release seat after insert failure")
		}
		return nil, err
	}

	metrics.RegistrationsCreatedTotal.Inc()
	s.logger.Info().
		Str("registration_id", created.ID).
		Str("event_id", input.EventID).
		Str("user_id", actor.UserID).
		Msg("registration created")

	s.sendConfirmation(ctx, actor.UserID, event)
	return created, nil
}

// Cancel transitions a registration to cancelled. Allowed for the owner or an
// admin; a second cancel fails with ErrAlreadyCancelled and the seat counter
// is decremented exactly once.
func (s *RegistrationService) Cancel(ctx context.Context, actor ports.Identity, id string) (*domain.Registration, error) {
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	prev, err := s.registrations.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only a seat-holding registration frees a seat; a cancelled waitlist
	// entry never occupied one.
	if prev.Status.HoldsSeat() {
		if err := s.events.ReleaseSeat(ctx, prev.EventID); err != nil {
			s.logger.Error().Err(err).Str("event_id", prev.EventID).Msg("failed to release seat on cancel")
		}
	}

	metrics.RegistrationsCancelledTotal.Inc()
	s.logger.Info().Str("registration_id", id).Str("user_id", actor.UserID).Msg("registration cancelled")

	cancelled := *prev
	cancelled.Status = domain.RegistrationCancelled
	return &cancelled, nil
}

// SubmitFeedback attaches feedback exactly once. Owner only; unlike Cancel,
// an admin cannot review on someone else's behalf.
func (s *RegistrationService) SubmitFeedback(ctx context.Context, actor ports.Identity, id string, rating int, comment string) (*domain.Registration, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)
	}

	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.registrations.SetFeedback(ctx, id, domain.Feedback{
		Rating:      rating,
		Comment:     comment,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	metrics.FeedbackSubmittedTotal.Inc()
	return updated, nil
}

// Get returns one registration, visible to its owner or an admin.
func (s *RegistrationService) Get(ctx context.Context, actor ports.Identity, id string) (*domain.Registration, error) {
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return reg, nil
}

// ListMine returns the caller's registrations, newest first.
func (s *RegistrationService) ListMine(ctx context.Context, userID string) ([]*domain.Registration, error) {
	return s.registrations.ListByUser(ctx, userID)
}

// ListForEvent returns an event's registrations in check-in order. Visible to
// the event's organizer or an admin.
func (s *RegistrationService) ListForEvent(ctx context.Context, actor ports.Identity, eventID string) ([]*domain.Registration, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.registrations.ListByEvent(ctx, eventID)
}

// Reconcile recomputes currentParticipants for every event from the count of
// seat-holding registrations. The seat reservation and the registration insert
// are two writes; a crash between them can leave the counter off by one, and
// this periodic pass converges it back.
func (s *RegistrationService) Reconcile(ctx context.Context) error {
	counts, err := s.registrations.SeatCounts(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	events, _, err := s.events.List(ctx, ports.ListEventsFilter{})
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	for _, event := range events {
		actual := int(counts[event.ID])
		if actual == event.CurrentParticipants {
			continue
		}
		s.logger.Warn().
			Str("event_id", event.ID).
			Int("counter", event.CurrentParticipants).
			Int("actual", actual).
			Msg("participant counter drift, correcting")
		if err := s.events.SetParticipantCount(ctx, event.ID, actual); err != nil {
			return fmt.Errorf("reconcile event %s: %w", event.ID, err)
		}
	}
	return nil
}

// reservationFailure re-reads the event to report why no seat was reserved.
func (s *RegistrationService) reservationFailure(ctx context.Context, eventID string) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsActive {
		return domain.ErrEventInactive
	}
	metrics.CapacityRejectionsTotal.Inc()
	return domain.ErrEventFull
}

// sendConfirmation queues the registration-confirmation mail. Failures are
// logged only; mail can never fail a registration.
func (s *RegistrationService) sendConfirmation(ctx context.Context, userID string, event *domain.Event) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("confirmation mail skipped, user lookup failed")
		return
	}
	if err := s.mailer.SendRegistrationConfirmation(ctx, user.Email, user.Name, event.Title, event.Date); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to queue confirmation mail")
	}
}
