package app

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/config"
	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/metrics"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/handlers"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// FacadeParams collects the use cases served over HTTP.
type FacadeParams struct {
	fx.In

	Auth    *usecase.AuthUseCase
	Users   *usecase.UserUseCase
	Orders  *usecase.OrderUseCase
	Coupons *usecase.CouponUseCase
	Reviews *usecase.ReviewUseCase
	Health  HealthChecker
	Metrics *metrics.Metrics `optional:"true"`
	Config  *config.Config
	Logger  *zap.Logger
}

// StorefrontFacade adapts use cases to the handler contracts.
type StorefrontFacade struct {
	auth    *usecase.AuthUseCase
	users   *usecase.UserUseCase
	orders  *usecase.OrderUseCase
	coupons *usecase.CouponUseCase
	reviews *usecase.ReviewUseCase
	health  HealthChecker
	metrics *metrics.Metrics
	cfg     *config.Config
	logger  *zap.Logger
}

var _ handlers.StorefrontFacade = (*StorefrontFacade)(nil)

func NewStorefrontFacade(p FacadeParams) *StorefrontFacade {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := p.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &StorefrontFacade{
		auth:    p.Auth,
		users:   p.Users,
		orders:  p.Orders,
		coupons: p.Coupons,
		reviews: p.Reviews,
		health:  p.Health,
		metrics: p.Metrics,
		cfg:     cfg,
		logger:  logger,
	}
}

func (f *StorefrontFacade) Register(ctx context.Context, in model.Registration) (*model.User, string, error) {
	return f.auth.Register(ctx, in)
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

// ForgotPassword issues a reset token. Outside production the token is also logged
// since no mailer is wired.
func (f *StorefrontFacade) ForgotPassword(ctx context.Context, email string) (string, error) {
	token, err := f.auth.ForgotPassword(ctx, email)
	if err != nil {
		return "", err
	}
	if token != "" && !f.cfg.Production() {
		f.logger.Info("password reset token issued", zap.String("email", email), zap.String("token", token))
	}
	return token, nil
}

func (f *StorefrontFacade) ResetPassword(ctx context.Context, token, password string) error {
	return f.auth.ResetPassword(ctx, token, password)
}

func (f *StorefrontFacade) ParseToken(token string) (pkgAuth.Identity, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) Profile(ctx context.Context, userID string) (*model.User, error) {
	return f.users.Profile(ctx, userID)
}

func (f *StorefrontFacade) UpdateAddress(ctx context.Context, userID string, address model.Address) (*model.User, error) {
	return f.users.UpdateAddress(ctx, userID, address)
}

func (f *StorefrontFacade) Users(ctx context.Context, limit, offset int) ([]model.User, error) {
	return f.users.List(ctx, limit, offset)
}

// PlaceOrder places the order and counts the outcome.
func (f *StorefrontFacade) PlaceOrder(ctx context.Context, userID string, in model.OrderDraft) (*model.Order, error) {
	order, err := f.orders.Place(ctx, userID, in)
	if err != nil {
		if reason := rejectionReason(err); reason != "" && f.metrics != nil {
			f.metrics.OrdersRejected.WithLabelValues(reason).Inc()
		}
		return nil, err
	}
	if f.metrics != nil {
		f.metrics.OrdersPlaced.WithLabelValues(string(order.Payment.Method())).Inc()
	}
	f.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Float64("total", order.TotalPrice),
	)
	return order, nil
}

func (f *StorefrontFacade) MyOrders(ctx context.Context, userID string) ([]model.Order, error) {
	return f.orders.ListMine(ctx, userID)
}

func (f *StorefrontFacade) Order(ctx context.Context, identity pkgAuth.Identity, id string) (*model.Order, error) {
	return f.orders.Get(ctx, identity.UserID, identity.Role, id)
}

func (f *StorefrontFacade) AllOrders(ctx context.Context, limit, offset int) ([]model.Order, error) {
	return f.orders.ListAll(ctx, limit, offset)
}

func (f *StorefrontFacade) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, id, status)
}

func (f *StorefrontFacade) ConfirmDelivery(ctx context.Context, userID, id, otp string) (*model.Order, error) {
	return f.orders.ConfirmDelivery(ctx, userID, id, otp)
}

func (f *StorefrontFacade) ApplyCoupon(ctx context.Context, userID, code string, subtotal float64) (*model.AppliedCoupon, error) {
	return f.coupons.Apply(ctx, userID, code, subtotal)
}

func (f *StorefrontFacade) CreateCoupon(ctx context.Context, coupon *model.Coupon) error {
	return f.coupons.Create(ctx, coupon)
}

func (f *StorefrontFacade) SubmitReview(ctx context.Context, userID, productID string, rating int, comment string) (*model.Review, error) {
	return f.reviews.Submit(ctx, userID, productID, rating, comment)
}

func (f *StorefrontFacade) Reviews(ctx context.Context, productID string) ([]model.Review, error) {
	return f.reviews.List(ctx, productID)
}

func (f *StorefrontFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}

// rejectionReason labels business-rule rejections; infrastructure failures return "".
func rejectionReason(err error) string {
	var validation *domainErrors.ValidationError
	switch {
	case errors.As(err, &validation):
		return "validation"
	case errors.Is(err, domainErrors.ErrEmptyOrder):
		return "empty_order"
	case errors.Is(err, domainErrors.ErrUnserviceableArea):
		return "unserviceable_area"
	case errors.Is(err, domainErrors.ErrTotalMismatch):
		return "total_mismatch"
	case errors.Is(err, domainErrors.ErrCouponInvalid),
		errors.Is(err, domainErrors.ErrCouponExpired),
		errors.Is(err, domainErrors.ErrCouponExhausted),
		errors.Is(err, domainErrors.ErrCouponMinimum),
		errors.Is(err, domainErrors.ErrCouponNewUserOnly),
		errors.Is(err, domainErrors.ErrCouponMismatch):
		return "coupon"
	default:
		return ""
	}
}
