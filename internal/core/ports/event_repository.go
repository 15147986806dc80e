package ports

import (
	"context"
	"time"

	"github.com/healthday/events-api/internal/core/domain"
)

// ListEventsFilter carries all query parameters for listing and searching
// events. Zero values mean "no filter".
type ListEventsFilter struct {
	ActiveOnly bool
	Category   string
	// Search is matched case-insensitively against title, description and tags.
	Search string
	// Date restricts results to events on that calendar day.
	Date  time.Time
	Page  int // 1-based; 0 disables pagination
	Limit int
}

// UpdateEventInput carries the mutable event fields. Nil pointers leave the
// stored value untouched.
type UpdateEventInput struct {
	Title              *string
	Description        *string
	Date               *time.Time
	StartTime          *string
	EndTime            *string
	Location           *domain.Location
	Category           *string
	MaxParticipants    *int
	IsActive           *bool
	IsVirtual          *bool
	VirtualMeetingLink *string
	Tags               *[]string
	Image              *string
	Requirements       *string
	Agenda             *string
	Speakers           *[]domain.Speaker
	Sponsors           *[]domain.Sponsor
}

// EventRepository defines persistence for events, including the atomic seat
// counter operations the registration engine depends on.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, id string, input UpdateEventInput) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	// List returns a page of events sorted by date ascending, plus the total
	// count of matches before pagination.
	List(ctx context.Context, filter ListEventsFilter) ([]*domain.Event, int64, error)

	// ReserveSeat increments currentParticipants by one, but only while the
	// event is active and below capacity; the check and the increment are a
	// single conditional update. Returns false when no seat was reserved.
	ReserveSeat(ctx context.Context, id string) (bool, error)
	// ReleaseSeat decrements currentParticipants by one, floored at zero.
	ReleaseSeat(ctx context.Context, id string) error
	// SetParticipantCount overwrites the counter; used by reconciliation only.
	SetParticipantCount(ctx context.Context, id string, count int) error
}
