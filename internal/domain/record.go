package domain

import (
	"errors"
	"time"
)

var (
	// ErrRecordNotFound covers both "no such record" and "record owned by
	// someone else". Callers must not be able to tell the two apart.
	ErrRecordNotFound = errors.New("record not found")

	ErrInvalidFilter = errors.New("invalid filter parameter")
	ErrUnknownKind   = errors.New("unknown record kind")
)

// Kind selects which per-user collection a record lives in.
type Kind string

const (
	KindReminder Kind = "reminder"
	KindExpense  Kind = "expense"
	KindCategory Kind = "category"
)

// tables maps each kind to its backing collection name. Acts as the
// whitelist for anything that interpolates a collection name.
var tables = map[Kind]string{
	KindReminder: "reminders",
	KindExpense:  "expenses",
	KindCategory: "categories",
}

// Table returns the collection name for the kind, or ErrUnknownKind.
func (k Kind) Table() (string, error) {
	t, ok := tables[k]
	if !ok {
		return "", ErrUnknownKind
	}
	return t, nil
}

// Fields is the open per-record attribute mapping. Amounts arrive as
// JSON numbers (float64), everything else as strings unless the client
// sent something richer.
type Fields map[string]any

// Reserved field keys. These are stamped server-side and may never be
// set or overwritten by client input.
const (
	FieldOwnerID   = "user_id"
	FieldCreatedAt = "created_at"
)

// Record is one owned entry in a collection.
type Record struct {
	ID        string
	OwnerID   string
	Fields    Fields
	CreatedAt time.Time
}

// Attribute names the expense filters operate on.
const (
	AttrCategory = "category"
	AttrAmount   = "amount"
)

// Reminder attribute names used by the notifier.
const (
	AttrRemindAt = "remind_at"
	AttrNotified = "notified"
	AttrRepeat   = "repeat"
	AttrTitle    = "title"
	AttrMessage  = "message"
)

// DueReminder is a claimed reminder joined with its owner's email.
type DueReminder struct {
	Record
	Email string
}
