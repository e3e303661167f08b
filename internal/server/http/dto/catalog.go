package dto

import (
	"time"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// ReviewResponse is the public view of a review.
type ReviewResponse struct {
	ID        string    `json:"_id"`
	Product   string    `json:"product"`
	User      string    `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewReviewResponse maps a review.
func NewReviewResponse(r model.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		Product:   r.ProductID,
		User:      r.UserID,
		Name:      r.UserName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// NewReviewList maps reviews.
func NewReviewList(reviews []model.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return out
}

// CouponResponse is the admin view of a coupon.
type CouponResponse struct {
	ID             string             `json:"_id"`
	Code           string             `json:"code"`
	DiscountType   model.DiscountType `json:"discountType"`
	DiscountValue  float64            `json:"discountValue"`
	MinOrderAmount float64            `json:"minOrderAmount"`
	MaxDiscount    float64            `json:"maxDiscount"`
	ExpiresAt      *time.Time         `json:"expiresAt,omitempty"`
	IsActive       bool               `json:"isActive"`
	IsNewUserOnly  bool               `json:"isNewUserOnly"`
	UsageLimit     int                `json:"usageLimit"`
	UsedCount      int                `json:"usedCount"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// NewCouponResponse maps a coupon.
func NewCouponResponse(c model.Coupon) CouponResponse {
	return CouponResponse{
		ID:             c.ID,
		Code:           c.Code,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		MinOrderAmount: c.MinOrderAmount,
		MaxDiscount:    c.MaxDiscount,
		ExpiresAt:      c.ExpiresAt,
		IsActive:       c.IsActive,
		IsNewUserOnly:  c.IsNewUserOnly,
		UsageLimit:     c.UsageLimit,
		UsedCount:      c.UsedCount,
		CreatedAt:      c.CreatedAt,
	}
}
