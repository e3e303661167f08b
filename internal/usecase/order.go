package usecase

import (
	"context"
	"time"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/repository"
)

// OrderCreatedPayload is published when an order is placed.
type OrderCreatedPayload struct {
	OrderID       string              `json:"orderId"`
	UserID        string              `json:"userId"`
	TotalPrice    float64             `json:"totalPrice"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	Items         []model.OrderItem   `json:"items"`
	CouponCode    string              `json:"couponCode,omitempty"`
}

// StatusChangedPayload is published when a vendor or admin moves an order.
type StatusChangedPayload struct {
	OrderID string            `json:"orderId"`
	UserID  string            `json:"userId"`
	Status  model.OrderStatus `json:"status"`
}

// DeliveryConfirmedPayload is published when the customer confirms delivery.
type DeliveryConfirmedPayload struct {
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders  repository.OrderRepository
	coupons *CouponUseCase
	area    ServiceArea
	now     func() time.Time
	otp     func() (string, error)
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, coupons *CouponUseCase, area ServiceArea) *OrderUseCase {
	return &OrderUseCase{orders: orders, coupons: coupons, area: area, now: time.Now, otp: GenerateOTP}
}

// Place persists a new Pending order after re-checking the draft against server state.
func (u *OrderUseCase) Place(ctx context.Context, userID string, in model.OrderDraft) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, domainErrors.ErrEmptyOrder
	}
	if !u.area.Serves(in.ShippingAddress.PinCode) {
		return nil, domainErrors.ErrUnserviceableArea
	}

	subtotal := model.Subtotal(in.Items)
	if in.AppliedCoupon != nil {
		applied, err := u.coupons.Apply(ctx, userID, in.AppliedCoupon.Code, subtotal)
		if err != nil {
			return nil, err
		}
		if applied.CouponID != in.AppliedCoupon.CouponID ||
			!model.SameAmount(applied.DiscountAmount, in.AppliedCoupon.DiscountAmount) {
			return nil, domainErrors.ErrCouponMismatch
		}
		in.AppliedCoupon = applied
	}

	total := model.PayableTotal(in.Items, in.AppliedCoupon)
	if !model.SameAmount(total, in.TotalPrice) {
		return nil, domainErrors.ErrTotalMismatch
	}

	otp, err := u.otp()
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:              model.NewID(),
		UserID:          userID,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		Payment:         in.Payment,
		AppliedCoupon:   in.AppliedCoupon,
		TotalPrice:      total,
		Status:          model.OrderStatusPending,
		Delivery:        model.DeliveryConfirmation{OTP: otp, Status: model.DeliveryPending},
	}

	payload := OrderCreatedPayload{
		OrderID:       order.ID,
		UserID:        userID,
		TotalPrice:    total,
		PaymentMethod: in.Payment.Method(),
		Items:         in.Items,
	}
	if in.AppliedCoupon != nil {
		payload.CouponCode = in.AppliedCoupon.Code
	}
	event, err := model.NewOrderEvent(order.ID, model.EventOrderCreated, payload)
	if err != nil {
		return nil, err
	}

	if err := u.orders.Create(ctx, order, event); err != nil {
		return nil, err
	}
	return order, nil
}

// ListMine returns orders of userID, newest first.
func (u *OrderUseCase) ListMine(ctx context.Context, userID string) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// ListAll pages through every order. Callers check the role.
func (u *OrderUseCase) ListAll(ctx context.Context, limit, offset int) ([]model.Order, error) {
	return u.orders.List(ctx, limit, offset)
}

// Get returns an order visible to the caller: its owner, any vendor, or any admin.
func (u *OrderUseCase) Get(ctx context.Context, userID string, role model.Role, id string) (*model.Order, error) {
	if !model.IsID(id) {
		return nil, domainErrors.ErrMalformedID
	}
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID && role != model.RoleVendor && role != model.RoleAdmin {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// UpdateStatus moves order id to status. Any transition between known statuses is allowed.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !model.IsID(id) {
		return nil, domainErrors.ErrMalformedID
	}
	if !status.Valid() {
		return nil, domainErrors.NewValidationError(map[string]string{"status": "Invalid order status"})
	}

	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := model.NewOrderEvent(id, model.EventOrderStatusChanged, StatusChangedPayload{
		OrderID: id,
		UserID:  order.UserID,
		Status:  status,
	})
	if err != nil {
		return nil, err
	}
	return u.orders.UpdateStatus(ctx, id, status, event)
}

// ConfirmDelivery checks otp for the owner's order and marks the delivery confirmed.
func (u *OrderUseCase) ConfirmDelivery(ctx context.Context, userID, id, otp string) (*model.Order, error) {
	if !model.IsID(id) {
		return nil, domainErrors.ErrMalformedID
	}
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	if order.Delivery.Status == model.DeliveryConfirmed {
		return nil, domainErrors.ErrAlreadyConfirmed
	}
	if !otpEqual(order.Delivery.OTP, otp) {
		return nil, domainErrors.ErrInvalidOTP
	}

	confirmedAt := u.now().UTC()
	event, err := model.NewOrderEvent(id, model.EventOrderDeliveryConfirmed, DeliveryConfirmedPayload{
		OrderID:     id,
		UserID:      userID,
		ConfirmedAt: confirmedAt,
	})
	if err != nil {
		return nil, err
	}
	if err := u.orders.ConfirmDelivery(ctx, id, confirmedAt, event); err != nil {
		return nil, err
	}

	order.Delivery.Status = model.DeliveryConfirmed
	order.Delivery.ConfirmedAt = &confirmedAt
	return order, nil
}
