// Package schema declares request payloads and the rules they must satisfy before business
// logic runs. Every rule is evaluated; a Result collects all failed fields.
package schema

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// Result is the outcome of validating one payload.
type Result struct {
	Valid       bool
	FieldErrors map[string]string
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return domainErrors.NewValidationError(r.FieldErrors)
}

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

func validate() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		mustRegister(v, "objectid", func(fl validator.FieldLevel) bool { return model.IsID(fl.Field().String()) })
		mustRegister(v, "pincode", func(fl validator.FieldLevel) bool { return IsPinCode(fl.Field().String()) })
		mustRegister(v, "otp", func(fl validator.FieldLevel) bool { return IsOTP(fl.Field().String()) })
		mustRegister(v, "paymentmethod", func(fl validator.FieldLevel) bool { return IsPaymentMethod(fl.Field().String()) })
		mustRegister(v, "indianstate", func(fl validator.FieldLevel) bool { return IsState(fl.Field().String()) })
		mustRegister(v, "orderstatus", func(fl validator.FieldLevel) bool {
			return model.OrderStatus(fl.Field().String()).Valid()
		})
		mustRegister(v, "wholenumber", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return f == math.Trunc(f)
		})

		v.RegisterStructValidation(placeOrderRules, PlaceOrderRequest{})
		v.RegisterStructValidation(createCouponRules, CreateCouponRequest{})
		engine = v
	})
	return engine
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate evaluates every rule declared on payload.
func Validate(payload any) Result {
	err := validate().Struct(payload)
	if err == nil {
		return Result{Valid: true}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Result{FieldErrors: map[string]string{"body": "Invalid request payload"}}
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fieldPath(fe.Namespace())
		if _, seen := fields[path]; seen {
			continue
		}
		fields[path] = message(fe)
	}
	return Result{FieldErrors: fields}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "objectid":
		return fmt.Sprintf("%s must be a valid 24-character hex id", field)
	case "pincode":
		return "Pin code must be exactly 6 digits"
	case "otp":
		return "OTP must be exactly 6 digits"
	case "paymentmethod":
		return "Invalid payment method"
	case "txnid":
		return "Transaction ID must be exactly 12 alphanumeric characters"
	case "indianstate":
		return "Please select a valid state"
	case "orderstatus":
		return "Invalid order status"
	case "wholenumber":
		return fmt.Sprintf("%s must be a whole number", field)
	case "email":
		return "Please provide a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and digits", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}
