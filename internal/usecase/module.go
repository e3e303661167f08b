package usecase

import (
	"go.uber.org/fx"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/config"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/repository"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newAuthUseCase,
	newServiceArea,
	NewCouponUseCase,
	NewOrderUseCase,
	NewReviewUseCase,
	NewUserUseCase,
)

type authParams struct {
	fx.In

	Config   *config.Config
	Users    repository.UserRepository
	Resets   repository.PasswordResetRepository
	Hasher   pkgAuth.PasswordHasher
	Strategy pkgAuth.Strategy
}

func newAuthUseCase(p authParams) *AuthUseCase {
	return NewAuthUseCase(p.Users, p.Resets, p.Hasher, p.Strategy, p.Config.ResetTokenTTL)
}

func newServiceArea(cfg *config.Config) ServiceArea {
	return NewServiceArea(cfg.ServiceablePinCodes)
}
