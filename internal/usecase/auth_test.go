package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
	testhelpers "github.com/codecay7/BazzarNet-DIST-sub001/internal/test"
)

func newTestAuthUseCase() (*AuthUseCase, *testhelpers.UserRepositoryStub, *testhelpers.PasswordResetRepositoryStub) {
	users := testhelpers.NewUserRepositoryStub()
	resets := testhelpers.NewPasswordResetRepositoryStub()
	return NewAuthUseCase(users, resets, testhelpers.HasherStub{}, testhelpers.StrategyStub{}, 0), users, resets
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	uc, repo, _ := newTestAuthUseCase()

	ctx := context.Background()
	user, token, err := uc.Register(ctx, model.Registration{Name: "Alice", Email: " Alice@Example.com ", Password: "password"})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if !model.IsID(user.ID) {
		t.Fatalf("expected user to have ID assigned, got %q", user.ID)
	}
	if user.Role != model.RoleCustomer {
		t.Fatalf("expected default customer role, got %s", user.Role)
	}
	if token != "token:"+user.ID+":customer" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	uc, _, _ := newTestAuthUseCase()

	ctx := context.Background()
	in := model.Registration{Name: "Bob", Email: "bob@example.com", Password: "secret1"}
	if _, _, err := uc.Register(ctx, in); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, in); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterRoles(t *testing.T) {
	uc, _, _ := newTestAuthUseCase()
	ctx := context.Background()

	user, _, err := uc.Register(ctx, model.Registration{Name: "Vera", Email: "vera@example.com", Password: "secret1", Role: model.RoleVendor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != model.RoleVendor {
		t.Fatalf("expected vendor role, got %s", user.Role)
	}

	if _, _, err := uc.Register(ctx, model.Registration{Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: model.RoleAdmin}); err != domainErrors.ErrForbidden {
		t.Fatalf("expected forbidden for admin self sign-up, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc, _, _ := newTestAuthUseCase()
	cases := []model.Registration{
		{Name: "", Email: "a@b.c", Password: "password"},
		{Name: "A", Email: "", Password: "password"},
		{Name: "A", Email: "a@b.c", Password: ""},
	}
	for _, in := range cases {
		if _, _, err := uc.Register(context.Background(), in); err != domainErrors.ErrInvalidCredentials {
			t.Fatalf("expected invalid credentials error for %+v, got %v", in, err)
		}
	}
}

func TestAuthUseCaseRegisterHasherError(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(users, testhelpers.NewPasswordResetRepositoryStub(), testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}}, testhelpers.StrategyStub{}, 0)

	if _, _, err := uc.Register(context.Background(), model.Registration{Name: "A", Email: "a@b.c", Password: "password"}); err == nil {
		t.Fatal("expected hasher error")
	}
	if len(users.Users) != 0 {
		t.Fatal("user must not be stored when hashing fails")
	}
}

func TestAuthUseCaseRegisterTokenError(t *testing.T) {
	strategy := testhelpers.StrategyStub{IssueFn: func(pkgAuth.Identity) (string, error) {
		return "", errors.New("sign")
	}}
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.NewPasswordResetRepositoryStub(), testhelpers.HasherStub{}, strategy, 0)
	if _, _, err := uc.Register(context.Background(), model.Registration{Name: "A", Email: "a@b.c", Password: "password"}); err == nil {
		t.Fatal("expected token error")
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	uc, _, _ := newTestAuthUseCase()

	ctx := context.Background()
	user, _, err := uc.Register(ctx, model.Registration{Name: "Carol", Email: "carol@example.com", Password: "123456"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "nobody@example.com", "123456"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "", "123456"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for empty email, got %v", err)
	}

	_, token, err := uc.Authenticate(ctx, "CAROL@example.com", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token:"+user.ID+":customer" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseAuthenticateRepositoryError(t *testing.T) {
	uc, users, _ := newTestAuthUseCase()
	users.Err = errors.New("db down")
	if _, _, err := uc.Authenticate(context.Background(), "a@b.c", "password"); err == nil || err == domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc, _, _ := newTestAuthUseCase()

	id, err := uc.ParseToken("token:abc:vendor")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if id.UserID != "abc" || id.Role != model.RoleVendor {
		t.Fatalf("unexpected identity %+v", id)
	}

	if _, err := uc.ParseToken("bad-token"); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCasePasswordReset(t *testing.T) {
	uc, users, resets := newTestAuthUseCase()
	ctx := context.Background()

	user, _, err := uc.Register(ctx, model.Registration{Name: "Dan", Email: "dan@example.com", Password: "oldpass"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := uc.ForgotPassword(ctx, "DAN@example.com")
	if err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("unexpected token %q", token)
	}
	entry, ok := resets.Tokens[pkgAuth.HashResetToken(token)]
	if !ok || entry.UserID != user.ID {
		t.Fatalf("expected digest to be stored for user")
	}
	if ttl := time.Until(entry.ExpiresAt); ttl <= 59*time.Minute || ttl > time.Hour {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	newPassword := testhelpers.RandomASCIIString(8, 16)
	if err := uc.ResetPassword(ctx, token, newPassword); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if users.Users[user.ID].PasswordHash != "hash:"+newPassword {
		t.Fatalf("password was not updated")
	}

	if err := uc.ResetPassword(ctx, token, "another"); err != domainErrors.ErrInvalidResetToken {
		t.Fatalf("expected token to be single-use, got %v", err)
	}
	if err := uc.ResetPassword(ctx, "", "another"); err != domainErrors.ErrInvalidResetToken {
		t.Fatalf("expected invalid token for empty input, got %v", err)
	}
}

func TestAuthUseCaseResetExpired(t *testing.T) {
	uc, _, resets := newTestAuthUseCase()
	ctx := context.Background()
	if _, _, err := uc.Register(ctx, model.Registration{Name: "Fay", Email: "fay@example.com", Password: "oldpass"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, err := uc.ForgotPassword(ctx, "fay@example.com")
	if err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}

	resets.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if err := uc.ResetPassword(ctx, token, "newpass"); err != domainErrors.ErrInvalidResetToken {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestAuthUseCaseForgotUnknownEmail(t *testing.T) {
	uc, _, resets := newTestAuthUseCase()
	token, err := uc.ForgotPassword(context.Background(), "ghost@example.com")
	if err != nil || token != "" {
		t.Fatalf("expected silent success, got %q %v", token, err)
	}
	if len(resets.Tokens) != 0 {
		t.Fatal("no token must be stored for unknown email")
	}
}

func TestAuthUseCaseGetByID(t *testing.T) {
	uc, _, _ := newTestAuthUseCase()
	user, _, err := uc.Register(context.Background(), model.Registration{Name: "Gus", Email: "gus@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	got, err := uc.GetByID(context.Background(), user.ID)
	if err != nil || got.Email != "gus@example.com" {
		t.Fatalf("unexpected result %+v %v", got, err)
	}
	if _, err := uc.GetByID(context.Background(), model.NewID()); err != domainErrors.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
