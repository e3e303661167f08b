package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/schema"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/dto"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/middleware"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req schema.PlaceOrderRequest
	if !bind(c, &req) {
		return
	}

	draft, err := req.Draft()
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), CurrentIdentity(c).UserID, draft)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(*order, false))
}

// Mine handles GET /api/orders/mine.
func (h *OrderHandler) Mine(c *gin.Context) {
	orders, err := h.facade.MyOrders(c.Request.Context(), CurrentIdentity(c).UserID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderList(orders, false))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	identity := CurrentIdentity(c)
	order, err := h.facade.Order(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order, isStaff(identity.Role)))
}

// List handles GET /api/vendor/orders and GET /api/admin/orders.
func (h *OrderHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	orders, err := h.facade.AllOrders(c.Request.Context(), limit, offset)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderList(orders, true))
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req schema.StatusUpdateRequest
	if !bind(c, &req) {
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order, true))
}

// ConfirmDelivery handles POST /api/orders/:id/confirm-delivery.
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	var req schema.DeliveryConfirmationRequest
	if !bind(c, &req) {
		return
	}

	order, err := h.facade.ConfirmDelivery(c.Request.Context(), CurrentIdentity(c).UserID, c.Param("id"), req.OTP)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order, false))
}

func isStaff(role model.Role) bool {
	return role == model.RoleVendor || role == model.RoleAdmin
}
