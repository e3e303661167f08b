package model

import "fmt"

// PaymentMethod is the wire name of a payment option.
type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "Credit Card"
	PaymentUPI            PaymentMethod = "UPI"
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentUPIQR          PaymentMethod = "UPI QR Payment"
)

// PaymentMethods lists every accepted method in display order.
var PaymentMethods = []PaymentMethod{PaymentCreditCard, PaymentUPI, PaymentCashOnDelivery, PaymentUPIQR}

// Valid reports whether m is one of the accepted methods.
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Payment is the closed set of ways an order can be paid.
// Only UPIQRPayment carries a transaction id.
type Payment interface {
	Method() PaymentMethod
	isPayment()
}

type CardPayment struct{}

type UPIPayment struct{}

type CashOnDeliveryPayment struct{}

// UPIQRPayment is paid by scanning the store QR code; the customer reports the bank transaction id.
type UPIQRPayment struct {
	TransactionID string
}

func (CardPayment) Method() PaymentMethod           { return PaymentCreditCard }
func (UPIPayment) Method() PaymentMethod            { return PaymentUPI }
func (CashOnDeliveryPayment) Method() PaymentMethod { return PaymentCashOnDelivery }
func (UPIQRPayment) Method() PaymentMethod          { return PaymentUPIQR }

func (CardPayment) isPayment()           {}
func (UPIPayment) isPayment()            {}
func (CashOnDeliveryPayment) isPayment() {}
func (UPIQRPayment) isPayment()          {}

// NewPayment builds the payment variant for method. transactionID is kept only for UPI QR.
func NewPayment(method PaymentMethod, transactionID string) (Payment, error) {
	switch method {
	case PaymentCreditCard:
		return CardPayment{}, nil
	case PaymentUPI:
		return UPIPayment{}, nil
	case PaymentCashOnDelivery:
		return CashOnDeliveryPayment{}, nil
	case PaymentUPIQR:
		return UPIQRPayment{TransactionID: transactionID}, nil
	}
	return nil, fmt.Errorf("unknown payment method %q", method)
}

// TransactionIDOf returns the transaction id carried by p, if any.
func TransactionIDOf(p Payment) (string, bool) {
	if qr, ok := p.(UPIQRPayment); ok {
		return qr.TransactionID, true
	}
	return "", false
}
