package test

import (
	"context"
	"time"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
)

// Fixed identifiers used across handler tests.
const (
	UserID    = "64b7f0c2a1b2c3d4e5f60001"
	OrderID   = "64b7f0c2a1b2c3d4e5f60abc"
	ProductID = "64b7f0c2a1b2c3d4e5f6aaaa"
	CouponID  = "64b7f0c2a1b2c3d4e5f6cccc"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, model.Registration) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ForgotFn       func(context.Context, string) (string, error)
	ResetFn        func(context.Context, string, string) error
	ParseFn        func(string) (pkgAuth.Identity, error)
}

// Register returns a user and token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, in model.Registration) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, in)
	}
	return &model.User{ID: UserID, Name: in.Name, Email: in.Email, Role: model.RoleCustomer}, "token", nil
}

// Authenticate returns a user and token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return &model.User{ID: UserID, Email: email, Role: model.RoleCustomer}, "token", nil
}

// ForgotPassword returns a fixed reset token.
func (s AuthFacadeStub) ForgotPassword(ctx context.Context, email string) (string, error) {
	if s.ForgotFn != nil {
		return s.ForgotFn(ctx, email)
	}
	return "reset-token", nil
}

// ResetPassword succeeds unless overridden.
func (s AuthFacadeStub) ResetPassword(ctx context.Context, token, password string) error {
	if s.ResetFn != nil {
		return s.ResetFn(ctx, token, password)
	}
	return nil
}

// ParseToken decodes StrategyStub tokens unless overridden.
func (s AuthFacadeStub) ParseToken(token string) (pkgAuth.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return ParseStubToken(token)
}

// ProfileFacadeStub simulates profile operations.
type ProfileFacadeStub struct {
	ProfileFn       func(context.Context, string) (*model.User, error)
	UpdateAddressFn func(context.Context, string, model.Address) (*model.User, error)
	UsersFn         func(context.Context, int, int) ([]model.User, error)
}

// Profile returns a default customer.
func (s ProfileFacadeStub) Profile(ctx context.Context, userID string) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.User{ID: userID, Name: "Asha", Role: model.RoleCustomer}, nil
}

// UpdateAddress echoes address back on the user.
func (s ProfileFacadeStub) UpdateAddress(ctx context.Context, userID string, address model.Address) (*model.User, error) {
	if s.UpdateAddressFn != nil {
		return s.UpdateAddressFn(ctx, userID, address)
	}
	return &model.User{ID: userID, Address: &address}, nil
}

// Users returns a single user page.
func (s ProfileFacadeStub) Users(ctx context.Context, limit, offset int) ([]model.User, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx, limit, offset)
	}
	return []model.User{{ID: UserID}}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn        func(context.Context, string, model.OrderDraft) (*model.Order, error)
	MineFn         func(context.Context, string) ([]model.Order, error)
	OrderFn        func(context.Context, pkgAuth.Identity, string) (*model.Order, error)
	AllFn          func(context.Context, int, int) ([]model.Order, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus) (*model.Order, error)
	ConfirmFn      func(context.Context, string, string, string) (*model.Order, error)
}

// SampleOrder returns a pending order owned by UserID.
func SampleOrder() *model.Order {
	return &model.Order{
		ID:     OrderID,
		UserID: UserID,
		Items: []model.OrderItem{
			{ProductID: ProductID, Name: "Rice", Price: 2.99, Quantity: 2},
		},
		ShippingAddress: model.Address{HouseNo: "12", City: "Hazaribagh", State: "Jharkhand", PinCode: "825301"},
		Payment:         model.UPIQRPayment{TransactionID: "AB12cd34EF56"},
		TotalPrice:      5.98,
		Status:          model.OrderStatusPending,
		Delivery:        model.DeliveryConfirmation{OTP: "123456", Status: model.DeliveryPending},
		CreatedAt:       time.Unix(0, 0).UTC(),
		UpdatedAt:       time.Unix(0, 0).UTC(),
	}
}

// PlaceOrder delegates to provided function or returns the sample order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, userID string, in model.OrderDraft) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, userID, in)
	}
	return SampleOrder(), nil
}

// MyOrders returns predefined orders for given user.
func (s OrderFacadeStub) MyOrders(ctx context.Context, userID string) ([]model.Order, error) {
	if s.MineFn != nil {
		return s.MineFn(ctx, userID)
	}
	return []model.Order{*SampleOrder()}, nil
}

// Order returns the sample order.
func (s OrderFacadeStub) Order(ctx context.Context, identity pkgAuth.Identity, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, identity, id)
	}
	return SampleOrder(), nil
}

// AllOrders returns the sample order page.
func (s OrderFacadeStub) AllOrders(ctx context.Context, limit, offset int) ([]model.Order, error) {
	if s.AllFn != nil {
		return s.AllFn(ctx, limit, offset)
	}
	return []model.Order{*SampleOrder()}, nil
}

// UpdateOrderStatus sets status on the sample order.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	order := SampleOrder()
	order.Status = status
	return order, nil
}

// ConfirmDelivery confirms the sample order.
func (s OrderFacadeStub) ConfirmDelivery(ctx context.Context, userID, id, otp string) (*model.Order, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, userID, id, otp)
	}
	order := SampleOrder()
	now := time.Unix(60, 0).UTC()
	order.Delivery.Status = model.DeliveryConfirmed
	order.Delivery.ConfirmedAt = &now
	return order, nil
}

// CouponFacadeStub simulates coupon operations.
type CouponFacadeStub struct {
	ApplyFn  func(context.Context, string, string, float64) (*model.AppliedCoupon, error)
	CreateFn func(context.Context, *model.Coupon) error
}

// ApplyCoupon returns a fixed 10% discount.
func (s CouponFacadeStub) ApplyCoupon(ctx context.Context, userID, code string, subtotal float64) (*model.AppliedCoupon, error) {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, userID, code, subtotal)
	}
	return &model.AppliedCoupon{
		CouponID:       CouponID,
		Code:           code,
		DiscountAmount: model.RoundCurrency(subtotal / 10),
		DiscountType:   model.DiscountPercentage,
		DiscountValue:  10,
	}, nil
}

// CreateCoupon succeeds unless overridden.
func (s CouponFacadeStub) CreateCoupon(ctx context.Context, coupon *model.Coupon) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, coupon)
	}
	return nil
}

// ReviewFacadeStub simulates review operations.
type ReviewFacadeStub struct {
	SubmitFn func(context.Context, string, string, int, string) (*model.Review, error)
	ListFn   func(context.Context, string) ([]model.Review, error)
}

// SubmitReview echoes the review back.
func (s ReviewFacadeStub) SubmitReview(ctx context.Context, userID, productID string, rating int, comment string) (*model.Review, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, userID, productID, rating, comment)
	}
	return &model.Review{ID: model.NewID(), ProductID: productID, UserID: userID, Rating: rating, Comment: comment}, nil
}

// Reviews returns no reviews.
func (s ReviewFacadeStub) Reviews(ctx context.Context, productID string) ([]model.Review, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, productID)
	}
	return nil, nil
}

// HealthFacadeStub returns Err from HealthCheck.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck reports the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// StorefrontFacadeStub aggregates facade dependencies for HTTP layer tests.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	ProfileFacadeStub
	OrderFacadeStub
	CouponFacadeStub
	ReviewFacadeStub
	HealthFacadeStub
}
