// Package memory is the in-process backend: same contract as the
// Postgres repositories, state held in the Store. Used by unit tests
// and for running the server without a database.
package memory

import (
	"sync"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
)

// Store holds all state. Users and per-kind record lists preserve
// insertion order, matching the store-default ordering callers see
// from the Postgres backend.
type Store struct {
	mu      sync.Mutex
	users   []*domain.User
	records map[domain.Kind][]*domain.Record
}

func NewStore() *Store {
	return &Store{
		records: make(map[domain.Kind][]*domain.Record),
	}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) Records() *RecordRepository {
	return &RecordRepository{store: s}
}

func cloneFields(f domain.Fields) domain.Fields {
	out := make(domain.Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func cloneRecord(rec *domain.Record) *domain.Record {
	c := *rec
	c.Fields = cloneFields(rec.Fields)
	return &c
}
