package handlers

import (
	"context"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in model.Registration) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) error
	ParseToken(token string) (pkgAuth.Identity, error)
}

// ProfileFacade serves account data.
type ProfileFacade interface {
	Profile(ctx context.Context, userID string) (*model.User, error)
	UpdateAddress(ctx context.Context, userID string, address model.Address) (*model.User, error)
	Users(ctx context.Context, limit, offset int) ([]model.User, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID string, in model.OrderDraft) (*model.Order, error)
	MyOrders(ctx context.Context, userID string) ([]model.Order, error)
	Order(ctx context.Context, identity pkgAuth.Identity, id string) (*model.Order, error)
	AllOrders(ctx context.Context, limit, offset int) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	ConfirmDelivery(ctx context.Context, userID, id, otp string) (*model.Order, error)
}

// CouponFacade applies and creates coupons.
type CouponFacade interface {
	ApplyCoupon(ctx context.Context, userID, code string, subtotal float64) (*model.AppliedCoupon, error)
	CreateCoupon(ctx context.Context, coupon *model.Coupon) error
}

// ReviewFacade stores and lists product reviews.
type ReviewFacade interface {
	SubmitReview(ctx context.Context, userID, productID string, rating int, comment string) (*model.Review, error)
	Reviews(ctx context.Context, productID string) ([]model.Review, error)
}

// HealthFacade reports dependency health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	ProfileFacade
	OrderFacade
	CouponFacade
	ReviewFacade
	HealthFacade
}
