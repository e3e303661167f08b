package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

var userRowColumns = []string{"id", "name", "email", "password_hash", "role", "address", "created_at", "updated_at"}

const (
	userID  = "64b7f0c2a1b2c3d4e5f60718"
	otherID = "64b7f0c2a1b2c3d4e5f60719"
)

func TestUserRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &userRepository{storage: storage}

	now := time.Now()
	user := &model.User{ID: userID, Name: "Asha", Email: " Asha@Example.com ", PasswordHash: "hash", Role: model.RoleCustomer}
	mock.ExpectQuery("INSERT INTO users").WithArgs(userID, "Asha", "asha@example.com", "hash", "customer").WillReturnRows(
		pgxmockv3.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "asha@example.com" || !user.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", user)
	}

	mock.ExpectQuery("INSERT INTO users").WithArgs(anyArgs(5)...).WillReturnError(&pgconn.PgError{Code: "23505"})
	if err := repo.Create(context.Background(), user); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists error, got %v", err)
	}

	mock.ExpectQuery("INSERT INTO users").WithArgs(anyArgs(5)...).WillReturnError(errors.New("other"))
	if err := repo.Create(context.Background(), user); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryLookups(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &userRepository{storage: storage}

	now := time.Now()
	address := []byte(`{"houseNo":"12","city":"Deoghar","state":"Jharkhand","pinCode":"825301"}`)

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").WithArgs("asha@example.com").WillReturnRows(
		pgxmockv3.NewRows(userRowColumns).AddRow(userID, "Asha", "asha@example.com", "hash", "vendor", address, now, now))
	user, err := repo.GetByEmail(context.Background(), "ASHA@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != model.RoleVendor || user.Address == nil || user.Address.PinCode != "825301" {
		t.Fatalf("unexpected user: %+v", user)
	}

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").WithArgs("missing@example.com").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByEmail(context.Background(), "missing@example.com"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").WithArgs(userID).WillReturnRows(
		pgxmockv3.NewRows(userRowColumns).AddRow(userID, "Asha", "asha@example.com", "hash", "customer", nil, now, now))
	user, err = repo.GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Address != nil {
		t.Fatalf("expected no saved address, got %+v", user.Address)
	}

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").WithArgs(otherID).WillReturnRows(
		pgxmockv3.NewRows(userRowColumns).AddRow(otherID, "Bad", "bad@example.com", "hash", "customer", []byte(`{`), now, now))
	if _, err := repo.GetByID(context.Background(), otherID); err == nil {
		t.Fatal("expected decode error")
	}

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").WithArgs("boom").WillReturnError(errors.New("boom"))
	if _, err := repo.GetByID(context.Background(), "boom"); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryUpdates(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &userRepository{storage: storage}

	now := time.Now()
	addr := model.Address{HouseNo: "7", City: "Deoghar", State: "Jharkhand", PinCode: "825301"}
	stored := []byte(`{"houseNo":"7","city":"Deoghar","state":"Jharkhand","pinCode":"825301"}`)

	mock.ExpectQuery("UPDATE users SET address=").WithArgs(pgxmockv3.AnyArg(), userID).WillReturnRows(
		pgxmockv3.NewRows(userRowColumns).AddRow(userID, "Asha", "asha@example.com", "hash", "customer", stored, now, now))
	user, err := repo.UpdateAddress(context.Background(), userID, addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Address == nil || !user.Address.Equal(addr) {
		t.Fatalf("unexpected address: %+v", user.Address)
	}

	mock.ExpectQuery("UPDATE users SET address=").WithArgs(pgxmockv3.AnyArg(), otherID).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.UpdateAddress(context.Background(), otherID, addr); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("UPDATE users SET password_hash=").WithArgs("new-hash", userID).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.UpdatePassword(context.Background(), userID, "new-hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE users SET password_hash=").WithArgs("new-hash", otherID).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.UpdatePassword(context.Background(), otherID, "new-hash"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("UPDATE users SET password_hash=").WithArgs(anyArgs(2)...).WillReturnError(errors.New("exec"))
	if err := repo.UpdatePassword(context.Background(), userID, "new-hash"); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserRepositoryList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &userRepository{storage: storage}

	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM users ORDER BY created_at DESC").WithArgs(10, 0).WillReturnRows(
		pgxmockv3.NewRows(userRowColumns).
			AddRow(userID, "Asha", "asha@example.com", "hash", "customer", nil, now, now).
			AddRow(otherID, "Ravi", "ravi@example.com", "hash", "admin", nil, now, now))
	users, err := repo.List(context.Background(), 10, 0)
	if err != nil || len(users) != 2 || users[1].Role != model.RoleAdmin {
		t.Fatalf("unexpected result: %v err=%v", users, err)
	}

	mock.ExpectQuery("SELECT .+ FROM users ORDER BY created_at DESC").WithArgs(10, 10).WillReturnError(errors.New("query"))
	if _, err := repo.List(context.Background(), 10, 10); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("SELECT .+ FROM users ORDER BY created_at DESC").WithArgs(10, 20).WillReturnRows(
		pgxmockv3.NewRows(userRowColumns).AddRow(true, "Asha", "asha@example.com", "hash", "customer", nil, now, now))
	if _, err := repo.List(context.Background(), 10, 20); err == nil {
		t.Fatal("expected scan error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}

	rowsErr := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	if _, err := (&userRepository{storage: rowsErr}).List(context.Background(), 1, 0); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}

func TestPasswordResetRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &passwordResetRepository{storage: storage}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM password_resets WHERE user_id=").WithArgs(userID).WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	mock.ExpectExec("INSERT INTO password_resets").WithArgs("digest", userID, int64(3600)).WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()
	if err := repo.Save(context.Background(), userID, "digest", 3600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM password_resets WHERE user_id=").WithArgs(userID).WillReturnError(errors.New("delete"))
	mock.ExpectRollback()
	if err := repo.Save(context.Background(), userID, "digest", 3600); err == nil {
		t.Fatal("expected error")
	}

	consume := regexp.QuoteMeta("DELETE FROM password_resets WHERE token_hash=$1 AND expires_at > NOW() RETURNING user_id")
	mock.ExpectQuery(consume).WithArgs("digest").WillReturnRows(pgxmockv3.NewRows([]string{"user_id"}).AddRow(userID))
	got, err := repo.Consume(context.Background(), "digest")
	if err != nil || got != userID {
		t.Fatalf("unexpected result: %q err=%v", got, err)
	}

	mock.ExpectQuery(consume).WithArgs("digest").WillReturnError(pgx.ErrNoRows)
	if _, err := repo.Consume(context.Background(), "digest"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery(consume).WithArgs("digest").WillReturnError(errors.New("boom"))
	if _, err := repo.Consume(context.Background(), "digest"); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected raw error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
