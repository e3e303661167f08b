package schema

import (
	"regexp"
	"strings"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

var (
	pinCodePattern       = regexp.MustCompile(`^\d{6}$`)
	otpPattern           = regexp.MustCompile(`^\d{6}$`)
	transactionIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{12}$`)
)

// States lists the Indian states and union territories accepted in addresses.
var States = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh", "Goa", "Gujarat",
	"Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka", "Kerala", "Madhya Pradesh",
	"Maharashtra", "Manipur", "Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
	"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura", "Uttar Pradesh",
	"Uttarakhand", "West Bengal",
	"Andaman and Nicobar Islands", "Chandigarh", "Dadra and Nagar Haveli and Daman and Diu",
	"Delhi", "Jammu and Kashmir", "Ladakh", "Lakshadweep", "Puducherry",
}

// IsPinCode reports whether s is exactly six digits.
func IsPinCode(s string) bool { return pinCodePattern.MatchString(s) }

// IsOTP reports whether s is a six digit delivery code.
func IsOTP(s string) bool { return otpPattern.MatchString(s) }

// IsTransactionID reports whether s is exactly twelve letters or digits.
func IsTransactionID(s string) bool { return transactionIDPattern.MatchString(s) }

// IsState reports whether s names a state or union territory, ignoring case.
func IsState(s string) bool {
	s = strings.TrimSpace(s)
	for _, state := range States {
		if strings.EqualFold(state, s) {
			return true
		}
	}
	return false
}

// IsPaymentMethod reports whether s is one of the accepted payment method names.
func IsPaymentMethod(s string) bool { return model.PaymentMethod(s).Valid() }
