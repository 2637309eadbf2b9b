package repository

import (
	"context"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
)

type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailTaken when the
	// email is already registered (unique constraint).
	Create(ctx context.Context, email, passwordDigest string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
