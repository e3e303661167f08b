package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

type couponRepository struct {
	storage *Storage
}

type reviewRepository struct {
	storage *Storage
}

func (r *couponRepository) Create(ctx context.Context, c *model.Coupon) error {
	const query = `INSERT INTO coupons (id, code, discount_type, discount_value, min_order_amount, max_discount,
                                        expires_at, is_active, is_new_user_only, usage_limit)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   RETURNING used_count, created_at`
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	err := r.storage.pool.QueryRow(ctx, query, c.ID, c.Code, string(c.DiscountType), c.DiscountValue, c.MinOrderAmount,
		c.MaxDiscount, c.ExpiresAt, c.IsActive, c.IsNewUserOnly, c.UsageLimit).Scan(&c.UsedCount, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	const query = `SELECT id, code, discount_type, discount_value, min_order_amount, max_discount, expires_at,
                          is_active, is_new_user_only, usage_limit, used_count, created_at
                   FROM coupons WHERE code=$1`
	var (
		c            model.Coupon
		discountType string
	)
	err := r.storage.pool.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&c.ID, &c.Code, &discountType, &c.DiscountValue, &c.MinOrderAmount, &c.MaxDiscount, &c.ExpiresAt,
		&c.IsActive, &c.IsNewUserOnly, &c.UsageLimit, &c.UsedCount, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	c.DiscountType = model.DiscountType(discountType)
	return &c, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	const query = `INSERT INTO reviews (id, product_id, user_id, user_name, rating, comment)
                   VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query, review.ID, review.ProductID, review.UserID, review.UserName,
		review.Rating, review.Comment).Scan(&review.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	const query = `SELECT id, product_id, user_id, user_name, rating, comment, created_at
                   FROM reviews WHERE product_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
