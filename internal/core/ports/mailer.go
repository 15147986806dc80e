package ports

import (
	"context"
	"time"
)

// Mailer enqueues outbound mail. Every method returns once the job is queued;
// delivery happens on a background worker so that a mail-provider failure can
// never fail the request that triggered it.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, token string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
	SendRegistrationConfirmation(ctx context.Context, to, name, eventTitle string, eventDate time.Time) error
}
