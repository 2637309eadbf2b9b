package usecase

import (
	"context"
	"fmt"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
	"github.com/HalleluyahGirl/ExpenseApp/internal/repository"
)

// RecordUsecase is the owner-scoped CRUD core shared by all record
// kinds. Every operation takes the authenticated caller's id and the
// repository guarantees the ownership predicate is part of the same
// store operation as the action itself.
type RecordUsecase struct {
	repo repository.RecordRepository
}

func NewRecordUsecase(repo repository.RecordRepository) *RecordUsecase {
	return &RecordUsecase{repo: repo}
}

// Create inserts a record owned by userID. Owner and creation time are
// stamped server-side; matching client-supplied keys are discarded.
func (u *RecordUsecase) Create(ctx context.Context, kind domain.Kind, userID string, fields domain.Fields) (*domain.Record, error) {
	if fields == nil {
		fields = domain.Fields{}
	}
	stripReserved(fields)

	rec, err := u.repo.Create(ctx, kind, userID, fields)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return rec, nil
}

func (u *RecordUsecase) Get(ctx context.Context, kind domain.Kind, id, userID string) (*domain.Record, error) {
	rec, err := u.repo.GetByID(ctx, kind, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return rec, nil
}

// Update merges patch into the record's fields. Unpatched keys survive.
func (u *RecordUsecase) Update(ctx context.Context, kind domain.Kind, id, userID string, patch domain.Fields) (*domain.Record, error) {
	if patch == nil {
		patch = domain.Fields{}
	}
	stripReserved(patch)

	rec, err := u.repo.Update(ctx, kind, id, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", kind, err)
	}
	return rec, nil
}

func (u *RecordUsecase) Delete(ctx context.Context, kind domain.Kind, id, userID string) error {
	if err := u.repo.Delete(ctx, kind, id, userID); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return nil
}

// List returns the caller's records matching the composed filters.
// A contradictory date range yields an empty list, not an error.
func (u *RecordUsecase) List(ctx context.Context, kind domain.Kind, userID string, raw RawFilters) ([]*domain.Record, error) {
	filters, err := ComposeFilters(raw)
	if err != nil {
		return nil, err
	}

	recs, err := u.repo.List(ctx, repository.ListRecordsInput{
		UserID:  userID,
		Kind:    kind,
		Filters: filters,
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return recs, nil
}

// stripReserved drops the server-stamped keys from client input so they
// can never shadow the real owner or creation time.
func stripReserved(fields domain.Fields) {
	delete(fields, domain.FieldOwnerID)
	delete(fields, domain.FieldCreatedAt)
}
