package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthday/events-api/internal/core/domain"
	"github.com/healthday/events-api/internal/core/ports"
)

// --- In-memory repositories ---

type memEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	nextID int
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: make(map[string]*domain.Event)}
}

func (r *memEventRepo) Create(_ context.Context, event *domain.Event) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *event
	cp.ID = fmt.Sprintf("event-%d", r.nextID)
	r.events[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (r *memEventRepo) Update(_ context.Context, id string, input ports.UpdateEventInput) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if input.Title != nil {
		ev.Title = *input.Title
	}
	if input.IsActive != nil {
		ev.IsActive = *input.IsActive
	}
	if input.MaxParticipants != nil {
		ev.MaxParticipants = *input.MaxParticipants
	}
	cp := *ev
	return &cp, nil
}

func (r *memEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	ev.IsActive = false
	return nil
}

func (r *memEventRepo) List(_ context.Context, filter ports.ListEventsFilter) ([]*domain.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Event
	for _, ev := range r.events {
		if filter.ActiveOnly && !ev.IsActive {
			continue
		}
		if filter.Category != "" && ev.Category != filter.Category {
			continue
		}
		cp := *ev
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r *memEventRepo) ReserveSeat(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return false, nil
	}
	if !ev.IsActive || ev.CurrentParticipants >= ev.MaxParticipants {
		return false, nil
	}
	ev.CurrentParticipants++
	return true, nil
}

func (r *memEventRepo) ReleaseSeat(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	if ev.CurrentParticipants > 0 {
		ev.CurrentParticipants--
	}
	return nil
}

func (r *memEventRepo) SetParticipantCount(_ context.Context, id string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	ev.CurrentParticipants = count
	return nil
}

func (r *memEventRepo) participants(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[id].CurrentParticipants
}

type memRegistrationRepo struct {
	mu     sync.Mutex
	regs   map[string]*domain.Registration
	byPair map[string]string
	nextID int
}

func newMemRegistrationRepo() *memRegistrationRepo {
	return &memRegistrationRepo{
		regs:   make(map[string]*domain.Registration),
		byPair: make(map[string]string),
	}
}

func pairKey(userID, eventID string) string { return userID + "/" + eventID }

func (r *memRegistrationRepo) Create(_ context.Context, reg *domain.Registration) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(reg.UserID, reg.EventID)
	if _, taken := r.byPair[key]; taken {
		return nil, domain.ErrAlreadyRegistered
	}
	r.nextID++
	cp := *reg
	cp.ID = fmt.Sprintf("reg-%d", r.nextID)
	r.regs[cp.ID] = &cp
	r.byPair[key] = cp.ID
	out := cp
	return &out, nil
}

func (r *memRegistrationRepo) FindByID(_ context.Context, id string) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	cp := *reg
	return &cp, nil
}

func (r *memRegistrationRepo) FindByUserAndEvent(_ context.Context, userID, eventID string) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPair[pairKey(userID, eventID)]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	cp := *r.regs[id]
	return &cp, nil
}

func (r *memRegistrationRepo) Cancel(_ context.Context, id string) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	if reg.Status == domain.RegistrationCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	prev := *reg
	reg.Status = domain.RegistrationCancelled
	return &prev, nil
}

func (r *memRegistrationRepo) SetFeedback(_ context.Context, id string, fb domain.Feedback) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	if reg.Feedback != nil {
		return nil, domain.ErrFeedbackExists
	}
	reg.Feedback = &fb
	cp := *reg
	return &cp, nil
}

func (r *memRegistrationRepo) ListByUser(_ context.Context, userID string) ([]*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Registration
	for _, reg := range r.regs {
		if reg.UserID == userID {
			cp := *reg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRegistrationRepo) ListByEvent(_ context.Context, eventID string) ([]*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Registration
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			cp := *reg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRegistrationRepo) SeatCounts(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, reg := range r.regs {
		if reg.Status.HoldsSeat() {
			counts[reg.EventID]++
		}
	}
	return counts, nil
}

type memMailer struct {
	mu            sync.Mutex
	confirmations int
}

func (m *memMailer) SendVerification(context.Context, string, string, string) error { return nil }
func (m *memMailer) SendPasswordReset(context.Context, string, string, string) error {
	return nil
}
func (m *memMailer) SendRegistrationConfirmation(context.Context, string, string, string, time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations++
	return nil
}

// --- Fixtures ---

func newRegistrationFixture(t *testing.T, maxParticipants int) (*RegistrationService, *memEventRepo, *memRegistrationRepo, string) {
	t.Helper()
	eventRepo := newMemEventRepo()
	regRepo := newMemRegistrationRepo()
	userRepo := newMemUserRepo()

	if _, err := userRepo.Create(context.Background(), &domain.User{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	event, err := eventRepo.Create(context.Background(), &domain.Event{
		Title:           "Morning Yoga",
		Category:        domain.CategoryWorkshop,
		MaxParticipants: maxParticipants,
		IsActive:        true,
		Date:            time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed event: %v", err)
	}

	svc := NewRegistrationService(regRepo, eventRepo, userRepo, &memMailer{}, zerolog.Nop())
	return svc, eventRepo, regRepo, event.ID
}

func registrationInput(eventID string) ports.CreateRegistrationInput {
	return ports.CreateRegistrationInput{
		EventID: eventID,
		EmergencyContact: domain.EmergencyContact{
			Name:         "Bob",
			Phone:        "555-0100",
			Relationship: "spouse",
		},
	}
}

// --- Tests ---

func TestRegister_Success(t *testing.T) {
	svc, eventRepo, _, eventID := newRegistrationFixture(t, 10)

	reg, err := svc.Register(context.Background(), ports.Identity{UserID: "user-1"}, registrationInput(eventID))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Status != domain.RegistrationPending {
		t.Fatalf("expected pending status, got %s", reg.Status)
	}
	if reg.ID == "" {
		t.Fatalf("expected an assigned id")
	}
	if got := eventRepo.participants(eventID); got != 1 {
		t.Fatalf("expected 1 participant, got %d", got)
	}
}

func TestRegister_EventNotFound(t *testing.T) {
	svc, _, _, _ := newRegistrationFixture(t, 10)

	_, err := svc.Register(context.Background(), ports.Identity{UserID: "user-1"}, registrationInput("missing"))
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestRegister_InactiveEvent(t *testing.T) {
	svc, eventRepo, _, eventID := newRegistrationFixture(t, 10)
	if err := eventRepo.Delete(context.Background(), eventID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err := svc.Register(context.Background(), ports.Identity{UserID: "user-1"}, registrationInput(eventID))
	if !errors.Is(err, domain.ErrEventInactive) {
		t.Fatalf("expected ErrEventInactive, got %v", err)
	}
}

func TestRegister_FullEvent(t *testing.T) {
	svc, _, _, eventID := newRegistrationFixture(t, 1)

	if _, err := svc.Register(context.Background(), ports.Identity{UserID: "user-1"}, registrationInput(eventID)); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), ports.Identity{UserID: "user-2"}, registrationInput(eventID))
	if !errors.Is(err, domain.ErrEventFull) {
		t.Fatalf("expected ErrEventFull, got %v", err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, eventRepo, _, eventID := newRegistrationFixture(t, 10)
	actor := ports.Identity{UserID: "user-1"}

	if _, err := svc.Register(context.Background(), actor, registrationInput(eventID)); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(context.Background(), actor, registrationInput(eventID))
	if !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if got := eventRepo.participants(eventID); got != 1 {
		t.Fatalf("duplicate must not consume a seat: got %d participants", got)
	}
}

// Many concurrent registrations against a small event: exactly maxParticipants
// succeed and the counter never exceeds the maximum.
func TestRegister_ConcurrentCapacity(t *testing.T) {
	const seats = 5
	const contenders = 100

	svc, eventRepo, regRepo, eventID := newRegistrationFixture(t, seats)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, full := 0, 0

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			actor := ports.Identity{UserID: fmt.Sprintf("user-%d", n)}
			_, err := svc.Register(context.Background(), actor, registrationInput(eventID))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrEventFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if succeeded != seats {
		t.Fatalf("expected %d successful registrations, got %d", seats, succeeded)
	}
	if full != contenders-seats {
		t.Fatalf("expected %d capacity rejections, got %d", contenders-seats, full)
	}
	if got := eventRepo.participants(eventID); got != seats {
		t.Fatalf("counter overshoot: %d participants for %d seats", got, seats)
	}

	counts, _ := regRepo.SeatCounts(context.Background())
	if counts[eventID] != seats {
		t.Fatalf("expected %d stored registrations, got %d", seats, counts[eventID])
	}
}

func TestCancel_ByOwnerReleasesSeat(t *testing.T) {
	svc, eventRepo, _, eventID := newRegistrationFixture(t, 10)
	actor := ports.Identity{UserID: "user-1"}

	reg, err := svc.Register(context.Background(), actor, registrationInput(eventID))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), actor, reg.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.RegistrationCancelled {
		t.Fatalf("expected cancelled status, got %s", cancelled.Status)
	}
	if got := eventRepo.participants(eventID); got != 0 {
		t.Fatalf("expected released seat, got %d participants", got)
	}
}

func TestCancel_TwiceFails(t *testing.T) {
	svc, eventRepo, _, eventID := newRegistrationFixture(t, 10)
	actor := ports.Identity{UserID: "user-1"}

	reg, _ := svc.Register(context.Background(), actor, registrationInput(eventID))
	if _, err := svc.Cancel(context.Background(), actor, reg.ID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}

	_, err := svc.Cancel(context.Background(), actor, reg.ID)
	if !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
	if got := eventRepo.participants(eventID); got != 0 {
		t.Fatalf("seat must be released exactly once, got %d participants", got)
	}
}

func TestCancel_FreedSeatIsReusable(t *testing.T) {
	svc, _, _, eventID := newRegistrationFixture(t, 1)
	first := ports.Identity{UserID: "user-1"}

	reg, err := svc.Register(context.Background(), first, registrationInput(eventID))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.Identity{UserID: "user-2"}, registrationInput(eventID)); !errors.Is(err, domain.ErrEventFull) {
		t.Fatalf("expected ErrEventFull for the second user, got %v", err)
	}

	if _, err := svc.Cancel(context.Background(), first, reg.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The freed seat is immediately available to someone else.
	if _, err := svc.Register(context.Background(), ports.Identity{UserID: "user-2"}, registrationInput(eventID)); err != nil {
		t.Fatalf("register into freed seat: %v", err)
	}
}

func TestCancel_ForbiddenForStranger(t *testing.T) {
	svc, _, _, eventID := newRegistrationFixture(t, 10)

	reg, _ := svc.Register(context.Background(), ports.Identity{UserID: "user-1"}, registrationInput(eventID))

	_, err := svc.Cancel(context.Background(), ports.Identity{UserID: "user-2", Role: domain.RoleUser}, reg.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCancel_AdminMayCancelAnyones(t *testing.T) {
	svc, _, _, eventID := newRegistrationFixture(t, 10)

	reg, _ := svc.Register(context.Background(), ports.Identity{UserID: "user-1"}, registrationInput(eventID))

	if _, err := svc.Cancel(context.Background(), ports.Identity{UserID: "admin-1", Role: domain.RoleAdmin}, reg.ID); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestSubmitFeedback_OwnerOnce(t *testing.T) {
	svc, _, _, eventID := newRegistrationFixture(t, 10)
	actor := ports.Identity{UserID: "user-1"}

	reg, _ := svc.Register(context.Background(), actor, registrationInput(eventID))

	updated, err := svc.SubmitFeedback(context.Background(), actor, reg.ID, 5, "great event")
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if updated.Feedback == nil || updated.Feedback.Rating != 5 {
		t.Fatalf("feedback not recorded: %+v", updated.Feedback)
	}

	if _, err := svc.SubmitFeedback(context.Background(), actor, reg.ID, 3, "changed my mind"); !errors.Is(err, domain.ErrFeedbackExists) {
		t.Fatalf("expected ErrFeedbackExists, got %v", err)
	}
}

func TestSubmitFeedback_RejectsBadRating(t *testing.T) {
	svc, _, _, eventID := newRegistrationFixture(t, 10)
	actor := ports.Identity{UserID: "user-1"}
	reg, _ := svc.Register(context.Background(), actor, registrationInput(eventID))

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.SubmitFeedback(context.Background(), actor, reg.ID, rating, ""); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("rating %d: expected ErrValidation, got %v", rating, err)
		}
	}
}

func TestSubmitFeedback_AdminCannotReviewForOthers(t *testing.T) {
	svc, _, _, eventID := newRegistrationFixture(t, 10)
	reg, _ := svc.Register(context.Background(), ports.Identity{UserID: "user-1"}, registrationInput(eventID))

	_, err := svc.SubmitFeedback(context.Background(), ports.Identity{UserID: "admin-1", Role: domain.RoleAdmin}, reg.ID, 5, "")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGet_VisibleToOwnerAndAdminOnly(t *testing.T) {
	svc, _, _, eventID := newRegistrationFixture(t, 10)
	owner := ports.Identity{UserID: "user-1"}
	reg, _ := svc.Register(context.Background(), owner, registrationInput(eventID))

	if _, err := svc.Get(context.Background(), owner, reg.ID); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if _, err := svc.Get(context.Background(), ports.Identity{UserID: "admin-1", Role: domain.RoleAdmin}, reg.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := svc.Get(context.Background(), ports.Identity{UserID: "user-2"}, reg.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestListForEvent_OrganizerOrAdmin(t *testing.T) {
	svc, eventRepo, _, _ := newRegistrationFixture(t, 10)

	event, _ := eventRepo.Create(context.Background(), &domain.Event{
		Title:           "Nutrition Talk",
		OrganizerID:     "organizer-1",
		Category:        domain.CategorySeminar,
		MaxParticipants: 10,
		IsActive:        true,
	})

	if _, err := svc.Register(context.Background(), ports.Identity{UserID: "user-1"}, registrationInput(event.ID)); err != nil {
		t.Fatalf("register: %v", err)
	}

	regs, err := svc.ListForEvent(context.Background(), ports.Identity{UserID: "organizer-1"}, event.ID)
	if err != nil {
		t.Fatalf("organizer list: %v", err)
	}
	if len(regs) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(regs))
	}

	if _, err := svc.ListForEvent(context.Background(), ports.Identity{UserID: "user-9"}, event.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestReconcile_CorrectsDriftedCounter(t *testing.T) {
	svc, eventRepo, _, eventID := newRegistrationFixture(t, 10)

	for i := 0; i < 3; i++ {
		actor := ports.Identity{UserID: fmt.Sprintf("user-%d", i)}
		if _, err := svc.Register(context.Background(), actor, registrationInput(eventID)); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}

	// Simulate a crash between reservation and insert.
	if err := eventRepo.SetParticipantCount(context.Background(), eventID, 7); err != nil {
		t.Fatalf("drift: %v", err)
	}

	if err := svc.Reconcile(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := eventRepo.participants(eventID); got != 3 {
		t.Fatalf("expected counter converged to 3, got %d", got)
	}
}
