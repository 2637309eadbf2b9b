package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
	"github.com/HalleluyahGirl/ExpenseApp/internal/infrastructure/memory"
	"github.com/HalleluyahGirl/ExpenseApp/internal/usecase"
)

// The record usecase is exercised against the in-memory backend, which
// implements the same contract as the Postgres repositories.

func newRecords(t *testing.T) (*usecase.RecordUsecase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return usecase.NewRecordUsecase(store.Records()), store
}

func mustCreate(t *testing.T, u *usecase.RecordUsecase, kind domain.Kind, userID string, fields domain.Fields) *domain.Record {
	t.Helper()
	rec, err := u.Create(context.Background(), kind, userID, fields)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return rec
}

func listExpenses(t *testing.T, u *usecase.RecordUsecase, userID string, raw usecase.RawFilters) []*domain.Record {
	t.Helper()
	recs, err := u.List(context.Background(), domain.KindExpense, userID, raw)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return recs
}

func TestCreate_StampsOwnerAndDiscardsClientOwnership(t *testing.T) {
	u, _ := newRecords(t)

	rec := mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{
		"amount":     50.0,
		"user_id":    "mallory",
		"created_at": "1970-01-01T00:00:00Z",
	})

	if rec.OwnerID != "alice" {
		t.Errorf("OwnerID = %q, want alice", rec.OwnerID)
	}
	if _, present := rec.Fields["user_id"]; present {
		t.Error("client-supplied user_id survived into fields")
	}
	if _, present := rec.Fields["created_at"]; present {
		t.Error("client-supplied created_at survived into fields")
	}
	if rec.CreatedAt.Year() <= 1970 {
		t.Errorf("CreatedAt = %v, want server-stamped", rec.CreatedAt)
	}
}

func TestGet_OtherUsersRecord_IndistinguishableFromAbsent(t *testing.T) {
	u, _ := newRecords(t)
	ctx := context.Background()

	rec := mustCreate(t, u, domain.KindReminder, "alice", domain.Fields{"title": "dentist"})

	_, errForeign := u.Get(ctx, domain.KindReminder, rec.ID, "bob")
	_, errAbsent := u.Get(ctx, domain.KindReminder, "no-such-id", "bob")

	if !errors.Is(errForeign, domain.ErrRecordNotFound) {
		t.Errorf("foreign get: err = %v, want ErrRecordNotFound", errForeign)
	}
	if !errors.Is(errAbsent, domain.ErrRecordNotFound) {
		t.Errorf("absent get: err = %v, want ErrRecordNotFound", errAbsent)
	}
	if errors.Unwrap(errForeign).Error() != errors.Unwrap(errAbsent).Error() {
		t.Errorf("outcomes differ: %v vs %v", errForeign, errAbsent)
	}
}

func TestUpdate_MergesPatchAndPreservesRest(t *testing.T) {
	u, _ := newRecords(t)
	ctx := context.Background()

	rec := mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{
		"amount":   50.0,
		"category": "food",
	})

	updated, err := u.Update(ctx, domain.KindExpense, rec.ID, "alice", domain.Fields{"amount": 75.0})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Fields["amount"] != 75.0 {
		t.Errorf("amount = %v, want 75", updated.Fields["amount"])
	}
	if updated.Fields["category"] != "food" {
		t.Errorf("category = %v, want food (unpatched keys must survive)", updated.Fields["category"])
	}
	if updated.OwnerID != "alice" {
		t.Errorf("OwnerID = %q, want alice", updated.OwnerID)
	}
	if !updated.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", rec.CreatedAt, updated.CreatedAt)
	}
}

func TestUpdate_ByNonOwner_ReturnsNotFound(t *testing.T) {
	u, _ := newRecords(t)
	ctx := context.Background()

	rec := mustCreate(t, u, domain.KindCategory, "alice", domain.Fields{"name": "food"})

	_, err := u.Update(ctx, domain.KindCategory, rec.ID, "bob", domain.Fields{"name": "stolen"})
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}

	got, err := u.Get(ctx, domain.KindCategory, rec.ID, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Fields["name"] != "food" {
		t.Errorf("record was mutated by non-owner: %v", got.Fields)
	}
}

func TestDelete_SecondDelete_ReturnsNotFound(t *testing.T) {
	u, _ := newRecords(t)
	ctx := context.Background()

	rec := mustCreate(t, u, domain.KindReminder, "alice", domain.Fields{"title": "once"})

	if err := u.Delete(ctx, domain.KindReminder, rec.ID, "alice"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := u.Delete(ctx, domain.KindReminder, rec.ID, "alice"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("second delete: err = %v, want ErrRecordNotFound", err)
	}
}

func TestList_NoFilters_ReturnsExactlyOwnedSet(t *testing.T) {
	u, _ := newRecords(t)

	first := mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": 10.0})
	second := mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": 20.0})
	mustCreate(t, u, domain.KindExpense, "bob", domain.Fields{"amount": 30.0})

	recs := listExpenses(t, u, "alice", usecase.RawFilters{})
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	// Insertion order.
	if recs[0].ID != first.ID || recs[1].ID != second.ID {
		t.Errorf("order = [%s %s], want [%s %s]", recs[0].ID, recs[1].ID, first.ID, second.ID)
	}
}

func TestList_CategoryFilter(t *testing.T) {
	u, _ := newRecords(t)

	rec := mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": 50.0, "category": "food"})

	food := listExpenses(t, u, "alice", usecase.RawFilters{Category: "food"})
	if len(food) != 1 || food[0].ID != rec.ID {
		t.Errorf("category=food returned %d records, want the created one", len(food))
	}

	rent := listExpenses(t, u, "alice", usecase.RawFilters{Category: "rent"})
	if len(rent) != 0 {
		t.Errorf("category=rent returned %d records, want 0", len(rent))
	}
}

func TestList_AmountBoundsAreInclusive(t *testing.T) {
	u, _ := newRecords(t)

	mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": 9.99})
	target := mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": 10.0})
	mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": 10.01})

	recs := listExpenses(t, u, "alice", usecase.RawFilters{AmountMin: "10", AmountMax: "10"})
	if len(recs) != 1 || recs[0].ID != target.ID {
		t.Errorf("min=max=10 returned %d records, want exactly the amount==10 one", len(recs))
	}
}

func TestList_AmountFilterExcludesNonNumericAmounts(t *testing.T) {
	u, _ := newRecords(t)

	// Nothing validates fields on write, so an amount can be any
	// value. Filtering on amount must exclude such records, not fail.
	mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": "a lot"})
	target := mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": 25.0})

	recs := listExpenses(t, u, "alice", usecase.RawFilters{AmountMin: "1"})
	if len(recs) != 1 || recs[0].ID != target.ID {
		t.Errorf("amount filter returned %d records, want only the numeric one", len(recs))
	}
}

func TestList_DateRange(t *testing.T) {
	u, _ := newRecords(t)

	mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": 5.0})

	yesterday := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)
	tomorrow := time.Now().Add(24 * time.Hour).Format(time.RFC3339)

	if got := listExpenses(t, u, "alice", usecase.RawFilters{DateFrom: yesterday, DateTo: tomorrow}); len(got) != 1 {
		t.Errorf("in-range filter returned %d, want 1", len(got))
	}
	if got := listExpenses(t, u, "alice", usecase.RawFilters{DateFrom: tomorrow}); len(got) != 0 {
		t.Errorf("future date_from returned %d, want 0", len(got))
	}
}

func TestList_InvertedDateRange_EmptyNotError(t *testing.T) {
	u, _ := newRecords(t)

	mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": 5.0})

	raw := usecase.RawFilters{
		DateFrom: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		DateTo:   time.Now().Add(-24 * time.Hour).Format(time.RFC3339),
	}
	recs, err := u.List(context.Background(), domain.KindExpense, "alice", raw)
	if err != nil {
		t.Fatalf("inverted range must not error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("inverted range returned %d records, want 0", len(recs))
	}
}

func TestList_MalformedAmount_FailsInsteadOfFallingBackToFullList(t *testing.T) {
	u, _ := newRecords(t)

	mustCreate(t, u, domain.KindExpense, "alice", domain.Fields{"amount": 5.0})

	_, err := u.List(context.Background(), domain.KindExpense, "alice", usecase.RawFilters{AmountMin: "lots"})
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("err = %v, want ErrInvalidFilter", err)
	}
}
