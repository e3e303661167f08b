package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/repository"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
)

// DefaultResetTokenTTL bounds how long a password reset link stays usable.
const DefaultResetTokenTTL = time.Hour

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users    repository.UserRepository
	resets   repository.PasswordResetRepository
	hasher   pkgAuth.PasswordHasher
	tokens   pkgAuth.Strategy
	resetTTL time.Duration
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	users repository.UserRepository,
	resets repository.PasswordResetRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	resetTTL time.Duration,
) *AuthUseCase {
	if resetTTL <= 0 {
		resetTTL = DefaultResetTokenTTL
	}
	return &AuthUseCase{users: users, resets: resets, hasher: hasher, tokens: strategy, resetTTL: resetTTL}
}

// Register creates a new account and returns it with an auth token.
// Self sign-up never grants the admin role.
func (u *AuthUseCase) Register(ctx context.Context, in model.Registration) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	role := in.Role
	if role == "" {
		role = model.RoleCustomer
	}
	if !role.Valid() || role == model.RoleAdmin {
		return nil, "", domainErrors.ErrForbidden
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}

	usr := &model.User{
		ID:           model.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts the identity from provided token.
func (u *AuthUseCase) ParseToken(token string) (pkgAuth.Identity, error) {
	if token == "" {
		return pkgAuth.Identity{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// ForgotPassword issues a reset token for email. An unknown email yields an empty
// token and no error so callers cannot probe which accounts exist.
func (u *AuthUseCase) ForgotPassword(ctx context.Context, email string) (string, error) {
	usr, err := u.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	token, digest := pkgAuth.NewResetToken()
	if err := u.resets.Save(ctx, usr.ID, digest, int64(u.resetTTL/time.Second)); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes token and stores the new password.
func (u *AuthUseCase) ResetPassword(ctx context.Context, token, password string) error {
	if strings.TrimSpace(token) == "" {
		return domainErrors.ErrInvalidResetToken
	}

	userID, err := u.resets.Consume(ctx, pkgAuth.HashResetToken(token))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrInvalidResetToken
		}
		return err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, userID, hash)
}

func (u *AuthUseCase) issue(usr *model.User) (string, error) {
	return u.tokens.IssueToken(pkgAuth.Identity{UserID: usr.ID, Role: usr.Role})
}
