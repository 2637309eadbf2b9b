// seed inserts a demo user with sample categories, expenses and
// reminders into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
	"github.com/HalleluyahGirl/ExpenseApp/internal/infrastructure/postgres"
	"github.com/HalleluyahGirl/ExpenseApp/internal/password"
	"github.com/joho/godotenv"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password-1"
)

var categories = []string{"food", "rent", "transport", "fun"}

type expenseSpec struct {
	amount      float64
	category    string
	description string
}

var expenses = []expenseSpec{
	{12.50, "food", "lunch"},
	{7.20, "food", "groceries"},
	{50, "food", "dinner for two"},
	{950, "rent", "september rent"},
	{2.80, "transport", "bus ticket"},
	{18, "transport", "taxi"},
	{32, "fun", "cinema"},
	{60, "fun", "concert"},
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := postgres.Migrate(ctx, dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	digest, err := password.NewBcryptHasher(10).Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	// Upsert demo user
	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_digest)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_digest = EXCLUDED.password_digest
		RETURNING id`,
		seedEmail, digest,
	).Scan(&userID)
	if err != nil {
		log.Fatalf("seed user: %v", err)
	}

	records := postgres.NewRecordRepository(pool)

	for _, name := range categories {
		if _, err := records.Create(ctx, domain.KindCategory, userID, domain.Fields{"name": name}); err != nil {
			log.Fatalf("seed category %q: %v", name, err)
		}
	}

	for _, e := range expenses {
		fields := domain.Fields{
			"amount":      e.amount,
			"category":    e.category,
			"description": e.description,
		}
		if _, err := records.Create(ctx, domain.KindExpense, userID, fields); err != nil {
			log.Fatalf("seed expense %q: %v", e.description, err)
		}
	}

	// One due, one upcoming, one recurring reminder.
	reminders := []domain.Fields{
		{"title": "pay rent", "remind_at": time.Now().Add(-time.Minute).Format(time.RFC3339)},
		{"title": "dentist", "remind_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339)},
		{"title": "weekly budget review", "remind_at": time.Now().Add(time.Hour).Format(time.RFC3339), "repeat": "0 9 * * 1"},
	}
	for _, r := range reminders {
		if _, err := records.Create(ctx, domain.KindReminder, userID, r); err != nil {
			log.Fatalf("seed reminder: %v", err)
		}
	}

	fmt.Printf("seeded user %s (%s) with %d categories, %d expenses, %d reminders\n",
		seedEmail, userID, len(categories), len(expenses), len(reminders))
}
