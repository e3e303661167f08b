package dto

import (
	"time"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// DeliveryResponse describes the delivery confirmation of an order.
// OTP is present only for the staff handing the order over.
type DeliveryResponse struct {
	OTP         string               `json:"otp,omitempty"`
	Status      model.DeliveryStatus `json:"status"`
	ConfirmedAt *time.Time           `json:"confirmedAt,omitempty"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	ID              string               `json:"_id"`
	User            string               `json:"user"`
	Items           []model.OrderItem    `json:"items"`
	ShippingAddress model.Address        `json:"shippingAddress"`
	PaymentMethod   model.PaymentMethod  `json:"paymentMethod"`
	TransactionID   *string              `json:"transactionId"`
	AppliedCoupon   *model.AppliedCoupon `json:"appliedCoupon,omitempty"`
	TotalPrice      float64              `json:"totalPrice"`
	Status          model.OrderStatus    `json:"status"`
	Delivery        DeliveryResponse     `json:"deliveryConfirmation"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// NewOrderResponse maps an order. revealOTP exposes the delivery code.
func NewOrderResponse(o model.Order, revealOTP bool) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID,
		User:            o.UserID,
		Items:           o.Items,
		ShippingAddress: o.ShippingAddress,
		AppliedCoupon:   o.AppliedCoupon,
		TotalPrice:      o.TotalPrice,
		Status:          o.Status,
		Delivery: DeliveryResponse{
			Status:      o.Delivery.Status,
			ConfirmedAt: o.Delivery.ConfirmedAt,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if resp.Items == nil {
		resp.Items = []model.OrderItem{}
	}
	if o.Payment != nil {
		resp.PaymentMethod = o.Payment.Method()
		if txn, ok := model.TransactionIDOf(o.Payment); ok {
			resp.TransactionID = &txn
		}
	}
	if revealOTP {
		resp.Delivery.OTP = o.Delivery.OTP
	}
	return resp
}

// NewOrderList maps orders.
func NewOrderList(orders []model.Order, revealOTP bool) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o, revealOTP))
	}
	return out
}

// Model converts the response back into an order. Fails on an unknown payment method.
func (r OrderResponse) Model() (model.Order, error) {
	var txn string
	if r.TransactionID != nil {
		txn = *r.TransactionID
	}
	payment, err := model.NewPayment(r.PaymentMethod, txn)
	if err != nil {
		return model.Order{}, err
	}
	return model.Order{
		ID:              r.ID,
		UserID:          r.User,
		Items:           r.Items,
		ShippingAddress: r.ShippingAddress,
		Payment:         payment,
		AppliedCoupon:   r.AppliedCoupon,
		TotalPrice:      r.TotalPrice,
		Status:          r.Status,
		Delivery: model.DeliveryConfirmation{
			OTP:         r.Delivery.OTP,
			Status:      r.Delivery.Status,
			ConfirmedAt: r.Delivery.ConfirmedAt,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}
