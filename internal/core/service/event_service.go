package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

// EventService implements event CRUD and the public listing surface.
// Role checks (admin/moderator) are enforced by the RBAC middleware before the
// handler runs; ownership checks live here because they depend on the data.
type EventService struct {
	events ports.EventRepository
	logger zerolog.Logger
}

func NewEventService(events ports.EventRepository, logger zerolog.Logger) *EventService {
	return &EventService{events: events, logger: logger}
}

func (s *EventService) Create(ctx context.Context, actor ports.Identity, input ports.CreateEventInput) (*domain.Event, error) {
	if !domain.ValidCategory(input.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, input.Category)
	}
	if input.MaxParticipants < 1 {
		return nil, fmt.Errorf("%w: maxParticipants must be at least 1", domain.ErrValidation)
	}

	now := time.Now().UTC()
	event := &domain.Event{
		Title:               input.Title,
		Description:         input.Description,
		Date:                input.Date,
		StartTime:           input.StartTime,
		EndTime:             input.EndTime,
		Location:            input.Location,
		OrganizerID:         actor.UserID,
		Category:            input.Category,
		MaxParticipants:     input.MaxParticipants,
		CurrentParticipants: 0,
		IsActive:            true,
		IsVirtual:           input.IsVirtual,
		VirtualMeetingLink:  input.VirtualMeetingLink,
		Tags:                input.Tags,
		Image:               input.Image,
		Requirements:        input.Requirements,
		Agenda:              input.Agenda,
		Speakers:            input.Speakers,
		Sponsors:            input.Sponsors,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info().Str("event_id", created.ID).Str("organizer", actor.UserID).Msg("event created")
	return created, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.FindByID(ctx, id)
}

func (s *EventService) Update(ctx context.Context, actor ports.Identity, id string, input ports.UpdateEventInput) (*domain.Event, error) {
	if err := s.requireOrganizerOrAdmin(ctx, actor, id); err != nil {
		return nil, err
	}

	if input.Category != nil && !domain.ValidCategory(*input.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *input.Category)
	}
	if input.MaxParticipants != nil && *input.MaxParticipants < 1 {
		return nil, fmt.Errorf("%w: maxParticipants must be at least 1", domain.ErrValidation)
	}

	updated, err := s.events.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("event_id", id).Msg("event updated")
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, actor ports.Identity, id string) error {
	if err := s.requireOrganizerOrAdmin(ctx, actor, id); err != nil {
		return err
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("event_id", id).Msg("event deleted")
	return nil
}

func (s *EventService) List(ctx context.Context, page, limit int) (*ports.EventPage, error) {
	page, limit = normalizePage(page, limit)

	events, total, err := s.events.List(ctx, ports.ListEventsFilter{
		ActiveOnly: true,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return &ports.EventPage{Items: events, Total: total, Page: page, Limit: limit}, nil
}

func (s *EventService) ByCategory(ctx context.Context, category string) ([]*domain.Event, error) {
	events, _, err := s.events.List(ctx, ports.ListEventsFilter{
		ActiveOnly: true,
		Category:   category,
	})
	if err != nil {
		return nil, fmt.Errorf("list events by category: %w", err)
	}
	return events, nil
}

func (s *EventService) Search(ctx context.Context, input ports.SearchEventsInput) ([]*domain.Event, error) {
	events, _, err := s.events.List(ctx, ports.ListEventsFilter{
		ActiveOnly: true,
		Category:   input.Category,
		Search:     input.Query,
		Date:       input.Date,
	})
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return events, nil
}

// requireOrganizerOrAdmin loads the event and rejects callers who neither
// organized it nor hold the admin role.
func (s *EventService) requireOrganizerOrAdmin(ctx context.Context, actor ports.Identity, eventID string) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != actor.UserID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
