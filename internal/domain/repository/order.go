package repository

import (
	"context"
	"time"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
// Every mutating call stores its outbox event in the same transaction.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order, event model.OrderEvent) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	List(ctx context.Context, limit, offset int) ([]model.Order, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, event model.OrderEvent) (*model.Order, error)
	ConfirmDelivery(ctx context.Context, id string, confirmedAt time.Time, event model.OrderEvent) error
}

// CouponRepository manages discount codes.
type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
}

// ReviewRepository stores product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ListByProduct(ctx context.Context, productID string) ([]model.Review, error)
}

// EventRepository gives the relay access to the outbox.
type EventRepository interface {
	ClaimBatch(ctx context.Context, limit int) ([]model.OrderEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}
