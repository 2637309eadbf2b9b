package migrations

import (
	"strings"
	"testing"
)

func TestMigrations_HaveUpAndDown(t *testing.T) {
	entries, err := Migrations.ReadDir(".")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no migrations embedded")
	}

	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		data, err := Migrations.ReadFile(e.Name())
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		sql := string(data)
		if !strings.Contains(sql, "-- +goose Up") {
			t.Errorf("%s: missing goose Up marker", e.Name())
		}
		if !strings.Contains(sql, "-- +goose Down") {
			t.Errorf("%s: missing goose Down marker", e.Name())
		}
	}
}

// Index expressions must be IMMUTABLE, and the bare text->timestamptz
// cast is only STABLE (it reads session settings), so PostgreSQL
// rejects it with 42P17 and the whole migration fails. The due index
// has to go through the try_timestamptz wrapper instead.
func TestMigrations_DueIndexUsesImmutableWrapper(t *testing.T) {
	data, err := Migrations.ReadFile("00001_init.sql")
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}
	sql := string(data)

	idx := strings.Index(sql, "reminders_due_idx")
	if idx < 0 {
		t.Fatal("due reminders index missing from init migration")
	}
	stmt := sql[idx:]
	if end := strings.Index(stmt, ";"); end >= 0 {
		stmt = stmt[:end]
	}

	if !strings.Contains(sql, "CREATE FUNCTION try_timestamptz") {
		t.Error("try_timestamptz is not defined")
	}
	if !strings.Contains(stmt, "try_timestamptz(") {
		t.Error("due index does not use try_timestamptz")
	}
	if strings.Contains(stmt, "::timestamptz") {
		t.Error("due index casts directly instead of using try_timestamptz")
	}
}
