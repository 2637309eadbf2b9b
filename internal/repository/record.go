package repository

import (
	"context"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
)

// RecordFilters is the composed conjunctive filter for List. A nil field
// means "no constraint". Contradictory bounds (From after To) are legal
// and simply match nothing.
type RecordFilters struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Category    *string
	AmountMin   *float64
	AmountMax   *float64
}

type ListRecordsInput struct {
	UserID  string
	Kind    domain.Kind
	Filters RecordFilters
}

// Usecase depends on the interface, not a concrete implementation, so
// the Postgres and in-memory backends stay interchangeable and tests
// can inject fakes.
//
// Every mutating operation is a single store call conditioned on both
// id and owner — no read-then-write pair — so a record can never be
// touched through a stale ownership check.
type RecordRepository interface {
	Create(ctx context.Context, kind domain.Kind, userID string, fields domain.Fields) (*domain.Record, error)
	GetByID(ctx context.Context, kind domain.Kind, id, userID string) (*domain.Record, error)
	// Update merges patch into the record's fields. Keys in patch win,
	// absent keys are retained. Owner and creation time are immutable.
	Update(ctx context.Context, kind domain.Kind, id, userID string, patch domain.Fields) (*domain.Record, error)
	Delete(ctx context.Context, kind domain.Kind, id, userID string) error
	List(ctx context.Context, input ListRecordsInput) ([]*domain.Record, error)
}

// ReminderQueue is the notifier's view of the reminder collection.
type ReminderQueue interface {
	// ClaimDue atomically marks up to limit due, un-notified reminders
	// as notified and returns them with their owners' emails. Safe to
	// call from concurrent notifier instances.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*domain.DueReminder, error)
	// Reschedule moves a recurring reminder to its next occurrence and
	// clears the notified mark.
	Reschedule(ctx context.Context, id string, nextAt time.Time) error
}
