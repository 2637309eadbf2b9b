package memory

import (
	"context"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
)

// ClaimDue implements repository.ReminderQueue. Claims are atomic under
// the store lock, mirroring the SKIP LOCKED claim of the SQL backend.
func (r *RecordRepository) ClaimDue(_ context.Context, now time.Time, limit int) ([]*domain.DueReminder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*domain.DueReminder
	for _, rec := range s.records[domain.KindReminder] {
		if len(due) >= limit {
			break
		}
		if notified, _ := rec.Fields[domain.AttrNotified].(bool); notified {
			continue
		}
		raw, _ := rec.Fields[domain.AttrRemindAt].(string)
		if raw == "" {
			continue
		}
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil || at.After(now) {
			continue
		}

		rec.Fields[domain.AttrNotified] = true

		d := &domain.DueReminder{Record: *cloneRecord(rec)}
		for _, u := range s.users {
			if u.ID == rec.OwnerID {
				d.Email = u.Email
				break
			}
		}
		due = append(due, d)
	}
	return due, nil
}

func (r *RecordRepository) Reschedule(_ context.Context, id string, nextAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records[domain.KindReminder] {
		if rec.ID == id {
			rec.Fields[domain.AttrRemindAt] = nextAt.Format(time.RFC3339)
			rec.Fields[domain.AttrNotified] = false
			return nil
		}
	}
	return domain.ErrRecordNotFound
}
