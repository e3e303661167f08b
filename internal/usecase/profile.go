package usecase

import (
	"context"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/repository"
)

// UserUseCase serves profile reads and updates.
type UserUseCase struct {
	users repository.UserRepository
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// Profile returns the account of userID.
func (u *UserUseCase) Profile(ctx context.Context, userID string) (*model.User, error) {
	return u.users.GetByID(ctx, userID)
}

// UpdateAddress replaces the saved address of userID.
func (u *UserUseCase) UpdateAddress(ctx context.Context, userID string, address model.Address) (*model.User, error) {
	return u.users.UpdateAddress(ctx, userID, address)
}

// List pages through accounts for admins.
func (u *UserUseCase) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	return u.users.List(ctx, limit, offset)
}
