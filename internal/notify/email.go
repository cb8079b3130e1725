// Package notify sends the division engineer (DEN) an email when a
// maintenance request cannot be placed on its section within the
// scheduling horizon. Adapted from the teacher's magic-link email
// sender (internal/email/email.go): the Sender abstraction and its two
// implementations are unchanged, only the message content and call
// site differ — there is no login flow in this domain, only an
// unplaced-task alert.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/nandhagk/railsched/internal/domain"
)

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender logs emails instead of sending them — used in ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("unplaced task email (local dev)", "to", to, "subject", subject, "body", body)
	return nil
}

// ResendSender sends emails via the Resend API — used in staging/production.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NewSender returns a LogSender for ENV=local, ResendSender otherwise.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Notifier tells a task's division engineer their request could not be
// placed within the horizon.
type Notifier struct {
	sender Sender
}

func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// NotifyUnplaced emails task.DEN that the request has no free slot.
// task.DEN is free-text contact information carried on every
// MaintenanceRequest — there is no separate contact directory to look
// the DEN up in.
func (n *Notifier) NotifyUnplaced(ctx context.Context, task domain.Task) error {
	subject := fmt.Sprintf("No free slot: %s block %s", task.NatureOfWork, task.Block)
	body := fmt.Sprintf(
		"The maintenance request for %s on block %s at %s could not be placed "+
			"within the scheduling horizon for %s (preferred %s-%s, duration %s). "+
			"It remains queued as unplaced.",
		task.NatureOfWork, task.Block, task.Location,
		task.RequestedDate.Format("2006-01-02"),
		task.PreferredStartsAt, task.PreferredEndsAt, task.RequestedDuration,
	)
	return n.sender.Send(ctx, task.DEN, subject, body)
}
