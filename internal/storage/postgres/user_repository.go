package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

type passwordResetRepository struct {
	storage *Storage
}

const userColumns = `id, name, email, password_hash, role, address, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u       model.User
		role    string
		address []byte
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &address, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	u.Role = model.Role(role)
	if len(address) > 0 {
		var a model.Address
		if err := json.Unmarshal(address, &a); err != nil {
			return nil, err
		}
		u.Address = &a
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	const query = `INSERT INTO users (id, name, email, password_hash, role) VALUES ($1, $2, $3, $4, $5)
                   RETURNING created_at, updated_at`
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := r.storage.pool.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role)).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) UpdateAddress(ctx context.Context, id string, address model.Address) (*model.User, error) {
	const query = `UPDATE users SET address=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + userColumns
	raw, err := json.Marshal(address)
	if err != nil {
		return nil, err
	}
	return scanUser(r.storage.pool.QueryRow(ctx, query, raw, id))
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.storage.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save replaces any outstanding token of the user.
func (r *passwordResetRepository) Save(ctx context.Context, userID, tokenHash string, ttlSeconds int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE user_id=$1`, userID); err != nil {
			return err
		}
		const insert = `INSERT INTO password_resets (token_hash, user_id, expires_at)
                        VALUES ($1, $2, NOW() + make_interval(secs => $3))`
		_, err := tx.Exec(ctx, insert, tokenHash, userID, ttlSeconds)
		return err
	})
}

func (r *passwordResetRepository) Consume(ctx context.Context, tokenHash string) (string, error) {
	const query = `DELETE FROM password_resets WHERE token_hash=$1 AND expires_at > NOW() RETURNING user_id`
	var userID string
	if err := r.storage.pool.QueryRow(ctx, query, tokenHash).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domainErrors.ErrNotFound
		}
		return "", err
	}
	return userID, nil
}
