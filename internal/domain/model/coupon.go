package model

import (
	"math"
	"time"
)

// DiscountType selects how a coupon value is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code managed by admins.
type Coupon struct {
	ID             string
	Code           string
	DiscountType   DiscountType
	DiscountValue  float64
	MinOrderAmount float64
	MaxDiscount    float64
	ExpiresAt      *time.Time
	IsActive       bool
	IsNewUserOnly  bool
	UsageLimit     int
	UsedCount      int
	CreatedAt      time.Time
}

// Expired reports whether the coupon is past its expiry at now.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}

// Exhausted reports whether the usage limit has been reached.
func (c Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}

// DiscountFor computes the discount for subtotal, never exceeding it.
func (c Coupon) DiscountFor(subtotal float64) float64 {
	var discount float64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = subtotal * c.DiscountValue / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case DiscountFixed:
		discount = c.DiscountValue
	}
	return RoundCurrency(math.Min(discount, subtotal))
}

// AppliedCoupon is the coupon snapshot attached to an order draft and persisted with the order.
type AppliedCoupon struct {
	CouponID       string       `json:"couponId"`
	Code           string       `json:"code"`
	DiscountAmount float64      `json:"discountAmount"`
	DiscountType   DiscountType `json:"discountType"`
	DiscountValue  float64      `json:"discountValue"`
	IsNewUserOnly  bool         `json:"isNewUserOnly"`
}

// Apply snapshots c against subtotal.
func (c Coupon) Apply(subtotal float64) AppliedCoupon {
	return AppliedCoupon{
		CouponID:       c.ID,
		Code:           c.Code,
		DiscountAmount: c.DiscountFor(subtotal),
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		IsNewUserOnly:  c.IsNewUserOnly,
	}
}
