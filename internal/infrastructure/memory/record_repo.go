package memory

import (
	"context"
	"strconv"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
	"github.com/HalleluyahGirl/ExpenseApp/internal/repository"
	"github.com/google/uuid"
)

type RecordRepository struct {
	store *Store
}

func (r *RecordRepository) Create(_ context.Context, kind domain.Kind, userID string, fields domain.Fields) (*domain.Record, error) {
	if _, err := kind.Table(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &domain.Record{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		Fields:    cloneFields(fields),
		CreatedAt: time.Now(),
	}
	s.records[kind] = append(s.records[kind], rec)

	return cloneRecord(rec), nil
}

func (r *RecordRepository) GetByID(_ context.Context, kind domain.Kind, id, userID string) (*domain.Record, error) {
	if _, err := kind.Table(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec := s.find(kind, id, userID); rec != nil {
		return cloneRecord(rec), nil
	}
	return nil, domain.ErrRecordNotFound
}

func (r *RecordRepository) Update(_ context.Context, kind domain.Kind, id, userID string, patch domain.Fields) (*domain.Record, error) {
	if _, err := kind.Table(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.find(kind, id, userID)
	if rec == nil {
		return nil, domain.ErrRecordNotFound
	}
	for k, v := range patch {
		rec.Fields[k] = v
	}
	return cloneRecord(rec), nil
}

func (r *RecordRepository) Delete(_ context.Context, kind domain.Kind, id, userID string) error {
	if _, err := kind.Table(); err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.records[kind]
	for i, rec := range list {
		if rec.ID == id && rec.OwnerID == userID {
			s.records[kind] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

func (r *RecordRepository) List(_ context.Context, input repository.ListRecordsInput) ([]*domain.Record, error) {
	if _, err := input.Kind.Table(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Record
	for _, rec := range s.records[input.Kind] {
		if rec.OwnerID != input.UserID {
			continue
		}
		if matches(rec, input.Filters) {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

// find must be called with the store lock held.
func (s *Store) find(kind domain.Kind, id, userID string) *domain.Record {
	for _, rec := range s.records[kind] {
		if rec.ID == id && rec.OwnerID == userID {
			return rec
		}
	}
	return nil
}

// matches evaluates the conjunctive filter against one record. Records
// missing a filtered attribute never match, same as the SQL backend.
func matches(rec *domain.Record, f repository.RecordFilters) bool {
	if f.CreatedFrom != nil && rec.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && rec.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if f.Category != nil {
		c, ok := rec.Fields[domain.AttrCategory].(string)
		if !ok || c != *f.Category {
			return false
		}
	}
	if f.AmountMin != nil || f.AmountMax != nil {
		amount, ok := amountOf(rec.Fields)
		if !ok {
			return false
		}
		if f.AmountMin != nil && amount < *f.AmountMin {
			return false
		}
		if f.AmountMax != nil && amount > *f.AmountMax {
			return false
		}
	}
	return true
}

// amountOf tolerates the numeric shapes a JSON body can carry.
func amountOf(fields domain.Fields) (float64, bool) {
	switch v := fields[domain.AttrAmount].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
