// Package notifier delivers due reminders by email. It polls the
// reminder queue, claims due entries atomically and either retires them
// (one-shot) or schedules the next occurrence (recurring).
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
	"github.com/HalleluyahGirl/ExpenseApp/internal/email"
	"github.com/HalleluyahGirl/ExpenseApp/internal/metrics"
	"github.com/HalleluyahGirl/ExpenseApp/internal/repository"
	"github.com/robfig/cron/v3"
)

type Notifier struct {
	queue     repository.ReminderQueue
	sender    email.Sender
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

func New(queue repository.ReminderQueue, sender email.Sender, logger *slog.Logger, interval time.Duration, batchSize int) *Notifier {
	return &Notifier{
		queue:     queue,
		sender:    sender,
		logger:    logger.With("component", "notifier"),
		interval:  interval,
		batchSize: batchSize,
	}
}

func (n *Notifier) Start(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.logger.Info("notifier started", "interval", n.interval)

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("notifier shut down")
			return
		case <-ticker.C:
			n.cycle(ctx)
		}
	}
}

func (n *Notifier) cycle(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.NotifierCycleDuration.Observe(time.Since(start).Seconds())
	}()

	due, err := n.queue.ClaimDue(ctx, time.Now(), n.batchSize)
	if err != nil {
		n.logger.Error("claim due reminders", "error", err)
		return
	}

	for _, d := range due {
		outcome := "sent"
		if err := n.deliver(ctx, d); err != nil {
			n.logger.Error("deliver reminder", "reminder_id", d.ID, "error", err)
			outcome = "failed"
		}
		metrics.RemindersNotifiedTotal.WithLabelValues(outcome).Inc()
	}

	if len(due) > 0 {
		n.logger.Info("reminders processed", "count", len(due))
	}
}

func (n *Notifier) deliver(ctx context.Context, d *domain.DueReminder) error {
	title, _ := d.Fields[domain.AttrTitle].(string)
	if title == "" {
		title = "Reminder"
	}
	message, _ := d.Fields[domain.AttrMessage].(string)

	body := fmt.Sprintf("<p>%s</p>", message)
	if err := n.sender.Send(ctx, d.Email, "Reminder: "+title, body); err != nil {
		return fmt.Errorf("send reminder mail: %w", err)
	}

	// Recurring reminders carry a cron expression; one-shot ones stay
	// retired after the claim marked them notified.
	repeat, _ := d.Fields[domain.AttrRepeat].(string)
	if repeat == "" {
		return nil
	}

	next, err := nextOccurrence(repeat, time.Now())
	if err != nil {
		n.logger.Warn("invalid repeat expression", "reminder_id", d.ID, "repeat", repeat, "error", err)
		return nil
	}
	if err := n.queue.Reschedule(ctx, d.ID, next); err != nil {
		return fmt.Errorf("reschedule reminder: %w", err)
	}
	return nil
}

// nextOccurrence returns the first future run of the cron expression,
// skipping any occurrences already missed.
func nextOccurrence(expr string, after time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, err
	}
	next := sched.Next(after)
	for !next.After(after) {
		next = sched.Next(next)
	}
	return next, nil
}
