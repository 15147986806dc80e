package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

func newEventFixture() (*EventService, *memEventRepo) {
	repo := newMemEventRepo()
	return NewEventService(repo, zerolog.Nop()), repo
}

func validEventInput() ports.CreateEventInput {
	return ports.CreateEventInput{
		Title:           "Stress Management Workshop",
		Description:     "An introduction to practical stress management.",
		Date:            time.Now().Add(72 * time.Hour),
		StartTime:       "09:00",
		EndTime:         "12:00",
		Category:        domain.CategoryWorkshop,
		MaxParticipants: 30,
		Location: domain.Location{
			Venue: "Community Hall", Address: "1 Main St", City: "Springfield",
			State: "IL", ZipCode: "62701", Country: "USA",
		},
	}
}

func TestEventCreate(t *testing.T) {
	svc, _ := newEventFixture()
	actor := ports.Identity{UserID: "mod-1", Role: domain.RoleModerator}

	event, err := svc.Create(context.Background(), actor, validEventInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if event.OrganizerID != "mod-1" {
		t.Fatalf("organizer must be the caller, got %s", event.OrganizerID)
	}
	if !event.IsActive {
		t.Fatalf("new events must be active")
	}
	if event.CurrentParticipants != 0 {
		t.Fatalf("new events must start empty, got %d", event.CurrentParticipants)
	}
}

func TestEventCreate_Validation(t *testing.T) {
	svc, _ := newEventFixture()
	actor := ports.Identity{UserID: "mod-1", Role: domain.RoleModerator}

	input := validEventInput()
	input.Category = "picnic"
	if _, err := svc.Create(context.Background(), actor, input); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad category: expected ErrValidation, got %v", err)
	}

	input = validEventInput()
	input.MaxParticipants = 0
	if _, err := svc.Create(context.Background(), actor, input); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("zero capacity: expected ErrValidation, got %v", err)
	}
}

func TestEventUpdate_OrganizerOrAdminOnly(t *testing.T) {
	svc, _ := newEventFixture()
	organizer := ports.Identity{UserID: "mod-1", Role: domain.RoleModerator}

	event, err := svc.Create(context.Background(), organizer, validEventInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Renamed Workshop"
	if _, err := svc.Update(context.Background(), organizer, event.ID, ports.UpdateEventInput{Title: &title}); err != nil {
		t.Fatalf("organizer update: %v", err)
	}

	admin := ports.Identity{UserID: "admin-1", Role: domain.RoleAdmin}
	if _, err := svc.Update(context.Background(), admin, event.ID, ports.UpdateEventInput{Title: &title}); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	other := ports.Identity{UserID: "mod-2", Role: domain.RoleModerator}
	if _, err := svc.Update(context.Background(), other, event.ID, ports.UpdateEventInput{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestEventDelete_Deactivates(t *testing.T) {
	svc, repo := newEventFixture()
	organizer := ports.Identity{UserID: "mod-1", Role: domain.RoleModerator}

	event, _ := svc.Create(context.Background(), organizer, validEventInput())
	if err := svc.Delete(context.Background(), organizer, event.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	stored, err := repo.FindByID(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("deleted events remain readable: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("delete must deactivate, not remove")
	}

	page, err := svc.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("inactive events must not be listed, got %d", len(page.Items))
	}
}

func TestEventList_NormalizesPagination(t *testing.T) {
	svc, _ := newEventFixture()

	page, err := svc.List(context.Background(), -3, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Fatalf("expected page 1 limit 10, got page %d limit %d", page.Page, page.Limit)
	}

	page, err = svc.List(context.Background(), 1, 5000)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Limit != 100 {
		t.Fatalf("limit must be capped at 100, got %d", page.Limit)
	}
}
