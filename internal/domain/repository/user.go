package repository

import (
	"context"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateAddress(ctx context.Context, id string, address model.Address) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, limit, offset int) ([]model.User, error)
}

// PasswordResetRepository stores hashed single-use password reset tokens.
type PasswordResetRepository interface {
	Save(ctx context.Context, userID, tokenHash string, ttlSeconds int64) error
	// Consume deletes an unexpired token and returns its user. ErrNotFound when absent or expired.
	Consume(ctx context.Context, tokenHash string) (string, error)
}
