package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/repository"
)

// CouponUseCase checks coupon eligibility and manages coupons.
type CouponUseCase struct {
	coupons repository.CouponRepository
	orders  repository.OrderRepository
	now     func() time.Time
}

// NewCouponUseCase constructs CouponUseCase.
func NewCouponUseCase(coupons repository.CouponRepository, orders repository.OrderRepository) *CouponUseCase {
	return &CouponUseCase{coupons: coupons, orders: orders, now: time.Now}
}

// Apply validates code for userID against subtotal and returns the discount snapshot.
func (u *CouponUseCase) Apply(ctx context.Context, userID, code string, subtotal float64) (*model.AppliedCoupon, error) {
	coupon, err := u.eligible(ctx, userID, code, subtotal)
	if err != nil {
		return nil, err
	}
	applied := coupon.Apply(subtotal)
	return &applied, nil
}

// Create stores a new coupon. Duplicate codes yield ErrAlreadyExists.
func (u *CouponUseCase) Create(ctx context.Context, coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if coupon.ID == "" {
		coupon.ID = model.NewID()
	}
	return u.coupons.Create(ctx, coupon)
}

func (u *CouponUseCase) eligible(ctx context.Context, userID, code string, subtotal float64) (*model.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domainErrors.ErrCouponInvalid
	}

	coupon, err := u.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrCouponInvalid
		}
		return nil, err
	}

	switch {
	case !coupon.IsActive:
		return nil, domainErrors.ErrCouponInvalid
	case coupon.Expired(u.now()):
		return nil, domainErrors.ErrCouponExpired
	case subtotal < coupon.MinOrderAmount:
		return nil, domainErrors.ErrCouponMinimum
	case coupon.Exhausted():
		return nil, domainErrors.ErrCouponExhausted
	}

	if coupon.IsNewUserOnly {
		count, err := u.orders.CountByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, domainErrors.ErrCouponNewUserOnly
		}
	}

	return coupon, nil
}
