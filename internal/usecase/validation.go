package usecase

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
)

// DefaultPinCode is the only pin code served when none is configured.
const DefaultPinCode = "825301"

// OTPLength is the number of digits in a delivery OTP.
const OTPLength = 6

// ServiceArea is the set of pin codes the store delivers to.
type ServiceArea struct {
	pins map[string]struct{}
}

// NewServiceArea builds a service area from pins, falling back to DefaultPinCode.
func NewServiceArea(pins []string) ServiceArea {
	area := ServiceArea{pins: make(map[string]struct{}, len(pins))}
	for _, pin := range pins {
		pin = strings.TrimSpace(pin)
		if pin != "" {
			area.pins[pin] = struct{}{}
		}
	}
	if len(area.pins) == 0 {
		area.pins[DefaultPinCode] = struct{}{}
	}
	return area
}

// Serves reports whether pin is deliverable.
func (a ServiceArea) Serves(pin string) bool {
	_, ok := a.pins[strings.TrimSpace(pin)]
	return ok
}

// GenerateOTP returns a uniformly random numeric code of OTPLength digits.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}

// otpEqual compares codes in constant time.
func otpEqual(expected, got string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(got))) == 1
}
