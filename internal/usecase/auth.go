package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/domain"
	"github.com/HalleluyahGirl/ExpenseApp/internal/email"
	"github.com/HalleluyahGirl/ExpenseApp/internal/password"
	"github.com/HalleluyahGirl/ExpenseApp/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

const defaultJWTTTL = 24 * time.Hour

type AuthUsecase struct {
	users  repository.UserRepository
	hasher password.Hasher
	email  email.Sender
	logger *slog.Logger
	jwtKey []byte
	jwtTTL time.Duration
}

func NewAuthUsecase(users repository.UserRepository, hasher password.Hasher, sender email.Sender, jwtKey []byte, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		email:  sender,
		logger: logger.With("component", "auth_usecase"),
		jwtKey: jwtKey,
		jwtTTL: defaultJWTTTL,
	}
}

// Register creates an account and returns its id. The email must be
// unused; the pre-check and the store's unique constraint both map to
// ErrEmailTaken, so a register/register race cannot create duplicates.
func (u *AuthUsecase) Register(ctx context.Context, emailAddr, plaintext string) (string, error) {
	_, err := u.users.FindByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		return "", domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", fmt.Errorf("check email: %w", err)
	}

	digest, err := u.hasher.Hash(plaintext)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, emailAddr, digest)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return "", domain.ErrEmailTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	// Best effort — a failed welcome mail never fails the registration.
	body := "<p>Your account is ready. Log in to start tracking expenses and reminders.</p>"
	if err := u.email.Send(ctx, user.Email, "Welcome", body); err != nil {
		u.logger.WarnContext(ctx, "welcome email", "error", err)
	}

	return user.ID, nil
}

// Login verifies the credentials and returns a signed bearer token.
// Unknown email and wrong password are deliberately indistinguishable.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, plaintext string) (string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !u.hasher.Verify(plaintext, user.PasswordDigest) {
		return "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(u.jwtTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}
