package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/schema"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/dto"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/middleware"
)

// CouponHandler applies and manages coupons.
type CouponHandler struct {
	facade CouponFacade
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(facade CouponFacade) *CouponHandler {
	return &CouponHandler{facade: facade}
}

// Apply handles POST /api/coupons/apply.
func (h *CouponHandler) Apply(c *gin.Context) {
	var req schema.ApplyCouponRequest
	if !bind(c, &req) {
		return
	}

	applied, err := h.facade.ApplyCoupon(c.Request.Context(), CurrentIdentity(c).UserID, req.Code, req.Subtotal)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, applied)
}

// Create handles POST /api/admin/coupons.
func (h *CouponHandler) Create(c *gin.Context) {
	var req schema.CreateCouponRequest
	if !bind(c, &req) {
		return
	}

	coupon := req.Model()
	if err := h.facade.CreateCoupon(c.Request.Context(), &coupon); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCouponResponse(coupon))
}

// ReviewHandler serves product reviews.
type ReviewHandler struct {
	facade ReviewFacade
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(facade ReviewFacade) *ReviewHandler {
	return &ReviewHandler{facade: facade}
}

// Submit handles POST /api/products/:id/reviews.
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req schema.ReviewRequest
	if !bind(c, &req) {
		return
	}

	review, err := h.facade.SubmitReview(c.Request.Context(), CurrentIdentity(c).UserID, c.Param("id"), int(req.Rating), req.Comment)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewReviewResponse(*review))
}

// List handles GET /api/products/:id/reviews.
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.facade.Reviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReviewList(reviews))
}

// HealthHandler reports service health.
type HealthHandler struct {
	facade HealthFacade
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(facade HealthFacade) *HealthHandler {
	return &HealthHandler{facade: facade}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.facade.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
