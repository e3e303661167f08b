package usecase

import (
	"testing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/config"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/repository"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
	testhelpers "github.com/codecay7/BazzarNet-DIST-sub001/internal/test"
)

func TestModuleProvidesUseCases(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	var (
		authUC  *AuthUseCase
		orderUC *OrderUseCase
		area    ServiceArea
	)

	app := fxtest.New(t,
		fx.Supply(&config.Config{ServiceablePinCodes: []string{"110001"}}),
		fx.Provide(
			func() repository.UserRepository { return testhelpers.NewUserRepositoryStub() },
			func() repository.PasswordResetRepository { return testhelpers.NewPasswordResetRepositoryStub() },
			func() repository.OrderRepository { return orders },
			func() repository.CouponRepository { return testhelpers.NewCouponRepositoryStub() },
			func() repository.ReviewRepository { return &testhelpers.ReviewRepositoryStub{} },
			func() pkgAuth.PasswordHasher { return testhelpers.HasherStub{} },
			func() pkgAuth.Strategy { return testhelpers.StrategyStub{} },
		),
		Module,
		fx.Populate(&authUC, &orderUC, &area),
		fx.Invoke(func(*ReviewUseCase, *UserUseCase, *CouponUseCase) {}),
	)
	app.RequireStart()
	defer app.RequireStop()

	if authUC.resetTTL != DefaultResetTokenTTL {
		t.Fatalf("expected default reset ttl, got %v", authUC.resetTTL)
	}
	if !area.Serves("110001") || area.Serves(DefaultPinCode) {
		t.Fatal("service area must come from configuration")
	}
	if orderUC.orders != orders {
		t.Fatal("order use case must use provided repository")
	}
}
