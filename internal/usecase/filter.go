package usecase

import (
	"fmt"
	"strconv"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
	"github.com/HalleluyahGirl/ExpenseApp/internal/repository"
)

// RawFilters carries the optional list-query parameters exactly as they
// arrived on the wire. Empty string means the parameter was absent.
type RawFilters struct {
	DateFrom  string
	DateTo    string
	Category  string
	AmountMin string
	AmountMax string
}

// Timestamp layouts accepted for date_from / date_to. Mirrors the loose
// ISO-8601 forms clients actually send: full RFC 3339, a naive
// datetime, or a bare date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ComposeFilters turns the raw parameters into the typed conjunctive
// filter the repositories apply. Any unparseable parameter fails the
// whole call with domain.ErrInvalidFilter — a malformed filter must
// never silently widen into an unfiltered list. No parameters at all
// composes to match-all.
func ComposeFilters(raw RawFilters) (repository.RecordFilters, error) {
	var f repository.RecordFilters

	if raw.DateFrom != "" {
		t, err := parseDate(raw.DateFrom)
		if err != nil {
			return f, fmt.Errorf("%w: date_from: %v", domain.ErrInvalidFilter, err)
		}
		f.CreatedFrom = &t
	}
	if raw.DateTo != "" {
		t, err := parseDate(raw.DateTo)
		if err != nil {
			return f, fmt.Errorf("%w: date_to: %v", domain.ErrInvalidFilter, err)
		}
		f.CreatedTo = &t
	}
	if raw.Category != "" {
		c := raw.Category
		f.Category = &c
	}
	if raw.AmountMin != "" {
		v, err := strconv.ParseFloat(raw.AmountMin, 64)
		if err != nil {
			return f, fmt.Errorf("%w: amount_min: not a number", domain.ErrInvalidFilter)
		}
		f.AmountMin = &v
	}
	if raw.AmountMax != "" {
		v, err := strconv.ParseFloat(raw.AmountMax, 64)
		if err != nil {
			return f, fmt.Errorf("%w: amount_max: not a number", domain.ErrInvalidFilter)
		}
		f.AmountMax = &v
	}

	return f, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
