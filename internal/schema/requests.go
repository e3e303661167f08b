package schema

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// AddressRequest is a shipping or profile address.
type AddressRequest struct {
	HouseNo  string `json:"houseNo" validate:"required"`
	Landmark string `json:"landmark"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required,indianstate"`
	PinCode  string `json:"pinCode" validate:"required,pincode"`
}

// Model converts the payload into a domain address.
func (r AddressRequest) Model() model.Address {
	return model.Address{
		HouseNo:  strings.TrimSpace(r.HouseNo),
		Landmark: strings.TrimSpace(r.Landmark),
		City:     strings.TrimSpace(r.City),
		State:    strings.TrimSpace(r.State),
		PinCode:  strings.TrimSpace(r.PinCode),
	}
}

// AddressFrom is the inverse of AddressRequest.Model.
func AddressFrom(a model.Address) AddressRequest {
	return AddressRequest{HouseNo: a.HouseNo, Landmark: a.Landmark, City: a.City, State: a.State, PinCode: a.PinCode}
}

// OrderItemRequest is one cart line submitted with an order.
type OrderItemRequest struct {
	Product  string  `json:"product" validate:"required,objectid"`
	Name     string  `json:"name" validate:"required"`
	Image    string  `json:"image"`
	Price    float64 `json:"price" validate:"gt=0"`
	Quantity int     `json:"quantity" validate:"min=1"`
	Unit     string  `json:"unit"`
}

// AppliedCouponRequest is the coupon snapshot attached by the coupon step.
type AppliedCouponRequest struct {
	CouponID       string  `json:"couponId" validate:"required,objectid"`
	Code           string  `json:"code" validate:"required"`
	DiscountAmount float64 `json:"discountAmount" validate:"gte=0"`
	DiscountType   string  `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue  float64 `json:"discountValue" validate:"gte=0"`
	IsNewUserOnly  bool    `json:"isNewUserOnly"`
}

// PlaceOrderRequest is the fully assembled checkout payload.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest    `json:"items" validate:"required,min=1,dive"`
	ShippingAddress AddressRequest        `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                `json:"paymentMethod" validate:"required,paymentmethod"`
	TransactionID   *string               `json:"transactionId"`
	AppliedCoupon   *AppliedCouponRequest `json:"appliedCoupon,omitempty" validate:"omitempty"`
	TotalPrice      float64               `json:"totalPrice" validate:"gt=0"`
}

// transactionId is checked only on the UPI QR path; other methods accept any value, null included.
func placeOrderRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(PlaceOrderRequest)
	if model.PaymentMethod(req.PaymentMethod) != model.PaymentUPIQR {
		return
	}
	if req.TransactionID == nil || *req.TransactionID == "" {
		sl.ReportError(req.TransactionID, "transactionId", "TransactionID", "required", "")
		return
	}
	if !IsTransactionID(*req.TransactionID) {
		sl.ReportError(req.TransactionID, "transactionId", "TransactionID", "txnid", "")
	}
}

// OrderItems converts the submitted lines.
func (r PlaceOrderRequest) OrderItems() []model.OrderItem {
	items := make([]model.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, model.OrderItem{
			ProductID: strings.ToLower(it.Product),
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
		})
	}
	return items
}

// Payment builds the payment variant. A transaction id sent with any other method is dropped.
func (r PlaceOrderRequest) Payment() (model.Payment, error) {
	var txn string
	if r.TransactionID != nil {
		txn = *r.TransactionID
	}
	return model.NewPayment(model.PaymentMethod(r.PaymentMethod), txn)
}

// Coupon converts the attached coupon snapshot, nil when none.
func (r PlaceOrderRequest) Coupon() *model.AppliedCoupon {
	if r.AppliedCoupon == nil {
		return nil
	}
	c := r.AppliedCoupon
	return &model.AppliedCoupon{
		CouponID:       strings.ToLower(c.CouponID),
		Code:           strings.ToUpper(strings.TrimSpace(c.Code)),
		DiscountAmount: c.DiscountAmount,
		DiscountType:   model.DiscountType(c.DiscountType),
		DiscountValue:  c.DiscountValue,
		IsNewUserOnly:  c.IsNewUserOnly,
	}
}

// StatusUpdateRequest changes an order status.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,orderstatus"`
}

// DeliveryConfirmationRequest carries the OTP handed over at delivery.
type DeliveryConfirmationRequest struct {
	OTP string `json:"otp" validate:"required,otp"`
}

// ReviewRequest rates a product.
type ReviewRequest struct {
	Rating  float64 `json:"rating" validate:"min=1,max=5,wholenumber"`
	Comment string  `json:"comment" validate:"omitempty,max=500"`
}

// ApplyCouponRequest asks for the discount a code gives on subtotal.
type ApplyCouponRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"gt=0"`
}

// CreateCouponRequest defines a new coupon.
type CreateCouponRequest struct {
	Code           string     `json:"code" validate:"required,alphanum,min=3,max=20"`
	DiscountType   string     `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue  float64    `json:"discountValue" validate:"gt=0"`
	MinOrderAmount float64    `json:"minOrderAmount" validate:"gte=0"`
	MaxDiscount    float64    `json:"maxDiscount" validate:"gte=0"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	UsageLimit     int        `json:"usageLimit" validate:"gte=0"`
	IsNewUserOnly  bool       `json:"isNewUserOnly"`
	IsActive       *bool      `json:"isActive"`
}

func createCouponRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateCouponRequest)
	if req.DiscountType == string(model.DiscountPercentage) && req.DiscountValue > 100 {
		sl.ReportError(req.DiscountValue, "discountValue", "DiscountValue", "max", "100")
	}
}

// Model converts the payload into a coupon with a fresh id.
func (r CreateCouponRequest) Model() model.Coupon {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.Coupon{
		ID:             model.NewID(),
		Code:           strings.ToUpper(strings.TrimSpace(r.Code)),
		DiscountType:   model.DiscountType(r.DiscountType),
		DiscountValue:  r.DiscountValue,
		MinOrderAmount: r.MinOrderAmount,
		MaxDiscount:    r.MaxDiscount,
		ExpiresAt:      r.ExpiresAt,
		IsActive:       active,
		IsNewUserOnly:  r.IsNewUserOnly,
		UsageLimit:     r.UsageLimit,
	}
}

// RegisterRequest creates an account. Admin accounts cannot self-register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=customer vendor"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest sets a new password with a reset token.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// Draft converts the whole payload into a domain order draft.
func (r PlaceOrderRequest) Draft() (model.OrderDraft, error) {
	payment, err := r.Payment()
	if err != nil {
		return model.OrderDraft{}, err
	}
	return model.OrderDraft{
		Items:           r.OrderItems(),
		ShippingAddress: r.ShippingAddress.Model(),
		Payment:         payment,
		AppliedCoupon:   r.Coupon(),
		TotalPrice:      r.TotalPrice,
	}, nil
}

// PlaceOrderFrom builds the wire payload for draft, the inverse of Draft.
func PlaceOrderFrom(d model.OrderDraft) PlaceOrderRequest {
	req := PlaceOrderRequest{
		Items:           make([]OrderItemRequest, 0, len(d.Items)),
		ShippingAddress: AddressFrom(d.ShippingAddress),
		TotalPrice:      d.TotalPrice,
	}
	for _, it := range d.Items {
		req.Items = append(req.Items, OrderItemRequest{
			Product:  it.ProductID,
			Name:     it.Name,
			Image:    it.Image,
			Price:    it.Price,
			Quantity: it.Quantity,
			Unit:     it.Unit,
		})
	}
	if d.Payment != nil {
		req.PaymentMethod = string(d.Payment.Method())
		if txn, ok := model.TransactionIDOf(d.Payment); ok {
			req.TransactionID = &txn
		}
	}
	if c := d.AppliedCoupon; c != nil {
		req.AppliedCoupon = &AppliedCouponRequest{
			CouponID:       c.CouponID,
			Code:           c.Code,
			DiscountAmount: c.DiscountAmount,
			DiscountType:   string(c.DiscountType),
			DiscountValue:  c.DiscountValue,
			IsNewUserOnly:  c.IsNewUserOnly,
		}
	}
	return req
}
