package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const outboxKey = "mail:outbox"

// MailKind identifies which message template a queued job renders.
type MailKind string

const (
	MailVerification             MailKind = "verification"
	MailPasswordReset            MailKind = "password_reset"
	MailRegistrationConfirmation MailKind = "registration_confirmation"
)

// MailJob is a queued outbound email. Jobs are JSON-encoded onto a Redis
// list; a failed delivery is re-queued with Attempts incremented. ID is
// assigned on first enqueue and survives re-queues, so retries of one
// message can be correlated in the logs.
type MailJob struct {
	ID         string    `json:"id"`
	Kind       MailKind  `json:"kind"`
	To         string    `json:"to"`
	Name       string    `json:"name"`
	Token      string    `json:"token,omitempty"`
	EventTitle string    `json:"eventTitle,omitempty"`
	EventDate  time.Time `json:"eventDate,omitempty"`
	Attempts   int       `json:"attempts"`
}

// MailOutbox is a Redis-backed queue for outbound email. Producers enqueue
// without waiting on SMTP; a background worker drains the list.
type MailOutbox struct {
	client *redis.Client
}

// NewMailOutbox creates a MailOutbox wrapping the given Redis client.
func NewMailOutbox(client *redis.Client) *MailOutbox {
	return &MailOutbox{client: client}
}

// SendVerification queues the welcome email carrying the verification token.
func (o *MailOutbox) SendVerification(ctx context.Context, to, name, token string) error {
	return o.Enqueue(ctx, MailJob{Kind: MailVerification, To: to, Name: name, Token: token})
}

// SendPasswordReset queues the password reset email.
func (o *MailOutbox) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return o.Enqueue(ctx, MailJob{Kind: MailPasswordReset, To: to, Name: name, Token: token})
}

// SendRegistrationConfirmation queues the event registration confirmation.
func (o *MailOutbox) SendRegistrationConfirmation(ctx context.Context, to, name, eventTitle string, eventDate time.Time) error {
	return o.Enqueue(ctx, MailJob{
		Kind:       MailRegistrationConfirmation,
		To:         to,
		Name:       name,
		EventTitle: eventTitle,
		EventDate:  eventDate,
	})
}

// Enqueue pushes a job onto the outbox list, assigning an id when absent.
func (o *MailOutbox) Enqueue(ctx context.Context, job MailJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal mail job: %w", err)
	}
	if err := o.client.LPush(ctx, outboxKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue mail job: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout waiting for the next job. It returns nil with
// no error when the timeout elapses with an empty queue.
func (o *MailOutbox) Dequeue(ctx context.Context, timeout time.Duration) (*MailJob, error) {
	res, err := o.client.BRPop(ctx, timeout, outboxKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("dequeue mail job: %w", err)
	}
	// BRPOP returns [key, value].
	var job MailJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal mail job: %w", err)
	}
	return &job, nil
}

// Depth reports the number of jobs waiting in the outbox.
func (o *MailOutbox) Depth(ctx context.Context) (int64, error) {
	n, err := o.client.LLen(ctx, outboxKey).Result()
	if err != nil {
		return 0, fmt.Errorf("outbox depth: %w", err)
	}
	return n, nil
}
