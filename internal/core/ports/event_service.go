package ports

import (
	"context"
	"time"

	"github.com/healthday/events-api/internal/core/domain"
)

// CreateEventInput carries all data needed to create an event. The organizer
// is always the authenticated caller.
type CreateEventInput struct {
	Title              string
	Description        string
	Date               time.Time
	StartTime          string
	EndTime            string
	Location           domain.Location
	Category           string
	MaxParticipants    int
	IsVirtual          bool
	VirtualMeetingLink string
	Tags               []string
	Image              string
	Requirements       string
	Agenda             string
	Speakers           []domain.Speaker
	Sponsors           []domain.Sponsor
}

// SearchEventsInput carries the public search parameters.
type SearchEventsInput struct {
	Query    string
	Category string
	Date     time.Time
}

// EventPage is one page of the public event listing.
type EventPage struct {
	Items []*domain.Event
	Total int64
	Page  int
	Limit int
}

// EventService implements event CRUD and the public listing surface.
// Create requires an admin or moderator; Update and Delete additionally
// require the caller to be the event's organizer, or an admin.
type EventService interface {
	Create(ctx context.Context, actor Identity, input CreateEventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, actor Identity, id string, input UpdateEventInput) (*domain.Event, error)
	Delete(ctx context.Context, actor Identity, id string) error

	List(ctx context.Context, page, limit int) (*EventPage, error)
	ByCategory(ctx context.Context, category string) ([]*domain.Event, error)
	Search(ctx context.Context, input SearchEventsInput) ([]*domain.Event, error)
}
