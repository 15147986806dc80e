package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthday/events-api/internal/api/metrics"
	"github.com/healthday/events-api/internal/infrastructure/db/redis"
)

const (
	popTimeout  = 5 * time.Second
	maxAttempts = 3
)

// Worker drains the mail outbox and delivers messages over SMTP. A failed
// delivery is re-queued until maxAttempts, then dropped.
type Worker struct {
	outbox  *redis.MailOutbox
	sender  Sender
	baseURL string
	log     zerolog.Logger
}

// NewWorker creates a Worker draining outbox through sender. baseURL is the
// public origin used to build verification and reset links.
func NewWorker(outbox *redis.MailOutbox, sender Sender, baseURL string, log zerolog.Logger) *Worker {
	return &Worker{outbox: outbox, sender: sender, baseURL: baseURL, log: log}
}

// Start launches the delivery loop. It stops when ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.outbox.Dequeue(ctx, popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Msg("mail outbox dequeue failed")
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		w.deliver(ctx, *job)

		if depth, err := w.outbox.Depth(ctx); err == nil {
			metrics.MailQueueDepth.Set(float64(depth))
		}
	}
}

func (w *Worker) deliver(ctx context.Context, job redis.MailJob) {
	email := w.build(job)
	email.To = job.To

	if err := w.sender.Send(email); err != nil {
		if job.Attempts+1 >= maxAttempts {
			metrics.MailJobsTotal.WithLabelValues("dropped").Inc()
			w.log.Error().Err(err).
				Str("job", job.ID).
				Str("kind", string(job.Kind)).
				Str("to", job.To).
				Int("attempts", job.Attempts+1).
				Msg("mail delivery dropped")
			return
		}
		job.Attempts++
		metrics.MailJobsTotal.WithLabelValues("retried").Inc()
		w.log.Warn().Err(err).
			Str("job", job.ID).
			Str("kind", string(job.Kind)).
			Str("to", job.To).
			Int("attempts", job.Attempts).
			Msg("mail delivery failed, re-queued")
		if qErr := w.outbox.Enqueue(ctx, job); qErr != nil {
			w.log.Error().Err(qErr).Str("to", job.To).Msg("mail re-queue failed")
		}
		return
	}

	metrics.MailJobsTotal.WithLabelValues("sent").Inc()
	w.log.Info().Str("job", job.ID).Str("kind", string(job.Kind)).Str("to", job.To).Msg("mail delivered")
}

func (w *Worker) build(job redis.MailJob) Email {
	switch job.Kind {
	case redis.MailVerification:
		return BuildVerificationEmail(job.Name, w.baseURL+"/verify-email?token="+job.Token)
	case redis.MailPasswordReset:
		return BuildPasswordResetEmail(job.Name, w.baseURL+"/reset-password?token="+job.Token)
	case redis.MailRegistrationConfirmation:
		return BuildRegistrationConfirmationEmail(job.Name, job.EventTitle, job.EventDate)
	default:
		return Email{Subject: "Health Day", HTMLBody: "<p>Hello " + job.Name + "</p>"}
	}
}
