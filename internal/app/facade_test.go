package app

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/config"
	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/metrics"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
	testhelpers "github.com/codecay7/BazzarNet-DIST-sub001/internal/test"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/usecase"
)

type healthStub struct{ err error }

func (h healthStub) HealthCheck(context.Context) error { return h.err }

type facadeFixture struct {
	facade  *StorefrontFacade
	users   *testhelpers.UserRepositoryStub
	orders  *testhelpers.OrderRepositoryStub
	metrics *metrics.Metrics
	logs    *observer.ObservedLogs
}

func newFacade(cfg *config.Config, coupons ...model.Coupon) facadeFixture {
	users := testhelpers.NewUserRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub()
	couponRepo := testhelpers.NewCouponRepositoryStub(coupons...)
	couponUC := usecase.NewCouponUseCase(couponRepo, orders)
	m := metrics.New()
	core, logs := observer.New(zapcore.InfoLevel)

	facade := NewStorefrontFacade(FacadeParams{
		Auth:    usecase.NewAuthUseCase(users, testhelpers.NewPasswordResetRepositoryStub(), testhelpers.HasherStub{}, testhelpers.StrategyStub{}, 0),
		Users:   usecase.NewUserUseCase(users),
		Orders:  usecase.NewOrderUseCase(orders, couponUC, usecase.NewServiceArea([]string{usecase.DefaultPinCode})),
		Coupons: couponUC,
		Reviews: usecase.NewReviewUseCase(&testhelpers.ReviewRepositoryStub{}, users),
		Health:  healthStub{},
		Metrics: m,
		Config:  cfg,
		Logger:  zap.New(core),
	})
	return facadeFixture{facade: facade, users: users, orders: orders, metrics: m, logs: logs}
}

func draft() model.OrderDraft {
	return model.OrderDraft{
		Items: []model.OrderItem{
			{ProductID: "64b7f0c2a1b2c3d4e5f6aaaa", Name: "Rice", Price: 2.5, Quantity: 2},
		},
		ShippingAddress: model.Address{HouseNo: "4", City: "Hazaribagh", State: "Jharkhand", PinCode: usecase.DefaultPinCode},
		Payment:         model.UPIQRPayment{TransactionID: "AB12cd34EF56"},
		TotalPrice:      5,
	}
}

func TestStorefrontFacadeAuth(t *testing.T) {
	f := newFacade(&config.Config{})
	ctx := context.Background()

	usr, token, err := f.facade.Register(ctx, model.Registration{Name: "Asha", Email: "Asha@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if usr.Email != "asha@example.com" || token != "token:"+usr.ID+":customer" {
		t.Fatalf("unexpected registration result %+v %q", usr, token)
	}

	if _, token, err = f.facade.Authenticate(ctx, "asha@example.com", "secret1"); err != nil || token == "" {
		t.Fatalf("authenticate failed: %q %v", token, err)
	}

	identity, err := f.facade.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if identity != (pkgAuth.Identity{UserID: usr.ID, Role: model.RoleCustomer}) {
		t.Fatalf("unexpected identity %+v", identity)
	}

	profile, err := f.facade.Profile(ctx, usr.ID)
	if err != nil || profile.ID != usr.ID {
		t.Fatalf("unexpected profile %+v %v", profile, err)
	}
}

func TestStorefrontFacadeForgotPasswordLogging(t *testing.T) {
	t.Run("development logs token", func(t *testing.T) {
		f := newFacade(&config.Config{Environment: "development"})
		if _, _, err := f.facade.Register(context.Background(), model.Registration{Name: "A", Email: "a@b.co", Password: "secret1"}); err != nil {
			t.Fatalf("register: %v", err)
		}
		token, err := f.facade.ForgotPassword(context.Background(), "a@b.co")
		if err != nil || token == "" {
			t.Fatalf("expected token, got %q %v", token, err)
		}
		entries := f.logs.FilterMessage("password reset token issued").All()
		if len(entries) != 1 || entries[0].ContextMap()["token"] != token {
			t.Fatalf("expected token to be logged, got %+v", entries)
		}
	})

	t.Run("production stays quiet", func(t *testing.T) {
		f := newFacade(&config.Config{Environment: "production"})
		if _, _, err := f.facade.Register(context.Background(), model.Registration{Name: "A", Email: "a@b.co", Password: "secret1"}); err != nil {
			t.Fatalf("register: %v", err)
		}
		if _, err := f.facade.ForgotPassword(context.Background(), "a@b.co"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.logs.FilterMessage("password reset token issued").Len() != 0 {
			t.Fatal("token must not be logged in production")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFacade(&config.Config{})
		token, err := f.facade.ForgotPassword(context.Background(), "nobody@b.co")
		if err != nil || token != "" {
			t.Fatalf("expected empty token, got %q %v", token, err)
		}
		if f.logs.Len() != 0 {
			t.Fatal("expected no log entries")
		}
	})
}

func TestStorefrontFacadePlaceOrderMetrics(t *testing.T) {
	f := newFacade(&config.Config{})
	ctx := context.Background()

	order, err := f.facade.PlaceOrder(ctx, "64b7f0c2a1b2c3d4e5f60001", draft())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if got := testutil.ToFloat64(f.metrics.OrdersPlaced.WithLabelValues(string(model.PaymentUPIQR))); got != 1 {
		t.Fatalf("expected one placed order, got %v", got)
	}
	if f.logs.FilterMessage("order placed").Len() != 1 {
		t.Fatal("expected order placed log entry")
	}

	mine, err := f.facade.MyOrders(ctx, "64b7f0c2a1b2c3d4e5f60001")
	if err != nil || len(mine) != 1 || mine[0].ID != order.ID {
		t.Fatalf("unexpected orders %+v %v", mine, err)
	}

	far := draft()
	far.ShippingAddress.PinCode = "110001"
	if _, err := f.facade.PlaceOrder(ctx, "64b7f0c2a1b2c3d4e5f60001", far); !errors.Is(err, domainErrors.ErrUnserviceableArea) {
		t.Fatalf("expected unserviceable area, got %v", err)
	}
	if got := testutil.ToFloat64(f.metrics.OrdersRejected.WithLabelValues("unserviceable_area")); got != 1 {
		t.Fatalf("expected one rejection, got %v", got)
	}

	f.orders.Err = errors.New("db down")
	if _, err := f.facade.PlaceOrder(ctx, "64b7f0c2a1b2c3d4e5f60001", draft()); err == nil {
		t.Fatal("expected repository error")
	}
	if got := testutil.CollectAndCount(f.metrics.OrdersRejected); got != 1 {
		t.Fatalf("infrastructure errors must not count as rejections, got %d series", got)
	}
}

func TestStorefrontFacadeHealthCheck(t *testing.T) {
	f := newFacade(&config.Config{})
	if err := f.facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.facade.health = healthStub{err: errors.New("ping")}
	if err := f.facade.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health error")
	}

	f.facade.health = nil
	if err := f.facade.HealthCheck(context.Background()); err != nil {
		t.Fatalf("nil checker should report healthy, got %v", err)
	}
}

func TestStorefrontFacadeReviews(t *testing.T) {
	f := newFacade(&config.Config{})
	ctx := context.Background()
	usr, _, err := f.facade.Register(ctx, model.Registration{Name: "Ravi", Email: "ravi@b.co", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := f.facade.SubmitReview(ctx, usr.ID, "64b7f0c2a1b2c3d4e5f6aaaa", 5, "fresh"); err != nil {
		t.Fatalf("submit review: %v", err)
	}
	reviews, err := f.facade.Reviews(ctx, "64b7f0c2a1b2c3d4e5f6aaaa")
	if err != nil || len(reviews) != 1 || reviews[0].UserName != "Ravi" {
		t.Fatalf("unexpected reviews %+v %v", reviews, err)
	}
}

func TestNewStorefrontFacadeDefaults(t *testing.T) {
	facade := NewStorefrontFacade(FacadeParams{})
	if facade.logger == nil || facade.cfg == nil {
		t.Fatal("expected logger and config defaults")
	}
}

func TestRejectionReason(t *testing.T) {
	cases := map[error]string{
		domainErrors.ErrEmptyOrder:                                              "empty_order",
		domainErrors.ErrUnserviceableArea:                                       "unserviceable_area",
		domainErrors.ErrTotalMismatch:                                           "total_mismatch",
		domainErrors.ErrCouponExpired:                                           "coupon",
		domainErrors.ErrCouponMismatch:                                          "coupon",
		domainErrors.NewValidationError(map[string]string{"items": "required"}): "validation",
		errors.New("db down"):                                                   "",
	}
	for err, want := range cases {
		if got := rejectionReason(err); got != want {
			t.Fatalf("rejectionReason(%v) = %q, want %q", err, got, want)
		}
	}
}
