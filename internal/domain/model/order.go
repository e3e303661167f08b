package model

import (
	"math"
	"time"
)

// OrderStatus describes fulfilment lifecycle. Transitions are set by vendors and admins.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusRefunded   OrderStatus = "Refunded"
)

// OrderStatuses lists every status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DeliveryStatus tracks OTP based delivery confirmation, independent of OrderStatus.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "Pending"
	DeliveryConfirmed DeliveryStatus = "Confirmed"
)

// DeliveryConfirmation holds the one-time code handed over at delivery.
type DeliveryConfirmation struct {
	OTP         string
	Status      DeliveryStatus
	ConfirmedAt *time.Time
}

// OrderItem is a line of an order.
type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Unit      string  `json:"unit,omitempty"`
}

// LineTotal returns price × quantity.
func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order describes a placed order.
type Order struct {
	ID              string
	UserID          string
	Items           []OrderItem
	ShippingAddress Address
	Payment         Payment
	AppliedCoupon   *AppliedCoupon
	TotalPrice      float64
	Status          OrderStatus
	Delivery        DeliveryConfirmation
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Subtotal sums line totals of items, rounded to paise.
func Subtotal(items []OrderItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.LineTotal()
	}
	return RoundCurrency(sum)
}

// DiscountOf returns the discount carried by c, zero when c is nil.
func DiscountOf(c *AppliedCoupon) float64 {
	if c == nil {
		return 0
	}
	return c.DiscountAmount
}

// PayableTotal is subtotal of items minus the coupon discount, never negative.
func PayableTotal(items []OrderItem, coupon *AppliedCoupon) float64 {
	return RoundCurrency(math.Max(Subtotal(items)-DiscountOf(coupon), 0))
}

// CurrencyTolerance is the largest difference treated as equal between two rupee amounts.
const CurrencyTolerance = 0.01

// RoundCurrency rounds amount to two decimal places.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// SameAmount compares two rupee amounts within CurrencyTolerance.
func SameAmount(a, b float64) bool {
	return math.Abs(RoundCurrency(a)-RoundCurrency(b)) <= CurrencyTolerance+1e-9
}

// OrderDraft is a validated order submission before it becomes an Order.
type OrderDraft struct {
	Items           []OrderItem
	ShippingAddress Address
	Payment         Payment
	AppliedCoupon   *AppliedCoupon
	TotalPrice      float64
}
