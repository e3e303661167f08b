package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrMalformedID        = errors.New("malformed identifier")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrUnserviceableArea  = errors.New("delivery is not available for this pin code")
	ErrTotalMismatch      = errors.New("total price does not match order items")
	ErrInvalidOTP         = errors.New("Invalid OTP")
	ErrAlreadyConfirmed   = errors.New("delivery already confirmed")
	ErrAlreadyReviewed    = errors.New("product already reviewed")
	ErrInvalidResetToken  = errors.New("password reset token is invalid or has expired")
	ErrCouponInvalid      = errors.New("invalid coupon code")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponExhausted    = errors.New("coupon usage limit reached")
	ErrCouponMinimum      = errors.New("order amount is below the coupon minimum")
	ErrCouponNewUserOnly  = errors.New("coupon is valid only on the first order")
	ErrCouponMismatch     = errors.New("coupon discount does not match")
)

// FieldError is a single failed rule of a request schema.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failed field of a rejected request.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from a field → message map, ordered by field.
func NewValidationError(fields map[string]string) *ValidationError {
	list := make([]FieldError, 0, len(fields))
	for field, msg := range fields {
		list = append(list, FieldError{Field: field, Message: msg})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Field < list[j].Field })
	return &ValidationError{Fields: list}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
}

// StatusError attaches an HTTP status to an error surfaced to API clients.
type StatusError struct {
	Code int
	Err  error
}

// WithStatus wraps err so the HTTP layer answers with code.
func WithStatus(code int, err error) *StatusError {
	return &StatusError{Code: code, Err: err}
}

func (e *StatusError) Error() string { return e.Err.Error() }

func (e *StatusError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status for e.
func (e *StatusError) StatusCode() int { return e.Code }

// HTTPStatus maps domain errors onto HTTP status codes. It returns 0 for errors it does not know.
func HTTPStatus(err error) int {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Code
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMalformedID):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrUnserviceableArea),
		errors.Is(err, ErrTotalMismatch),
		errors.Is(err, ErrInvalidOTP),
		errors.Is(err, ErrAlreadyConfirmed),
		errors.Is(err, ErrAlreadyReviewed),
		errors.Is(err, ErrInvalidResetToken),
		errors.Is(err, ErrCouponInvalid),
		errors.Is(err, ErrCouponExpired),
		errors.Is(err, ErrCouponExhausted),
		errors.Is(err, ErrCouponMinimum),
		errors.Is(err, ErrCouponNewUserOnly),
		errors.Is(err, ErrCouponMismatch):
		return http.StatusBadRequest
	}
	return 0
}
