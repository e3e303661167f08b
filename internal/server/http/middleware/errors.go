package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
)

const (
	notFoundMessage   = "Resource not found"
	validationMessage = "Validation failed"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string                    `json:"message"`
	Stack   *string                   `json:"stack"`
	Errors  []domainErrors.FieldError `json:"errors,omitempty"`
}

// Fail records err with the current goroutine stack and aborts the chain.
// ErrorHandler turns it into the response.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err).SetMeta(string(debug.Stack()))
	c.Abort()
}

// ErrorHandler normalizes recorded failures into ErrorResponse. It must be registered first.
// Stacks are omitted when production is true.
func ErrorHandler(production bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		status, body := normalize(last.Err, c.Writer.Status())
		if !production {
			if stack, ok := last.Meta.(string); ok && stack != "" {
				body.Stack = &stack
			}
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", status),
				zap.Error(last.Err),
			)
		}

		c.AbortWithStatusJSON(status, body)
	}
}

func normalize(err error, current int) (int, ErrorResponse) {
	if errors.Is(err, domainErrors.ErrMalformedID) || errors.Is(err, domainErrors.ErrNotFound) {
		return http.StatusNotFound, ErrorResponse{Message: notFoundMessage}
	}

	var validation *domainErrors.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, ErrorResponse{Message: validationMessage, Errors: validation.Fields}
	}

	status := domainErrors.HTTPStatus(err)
	if status == 0 {
		status = current
	}
	if status == 0 || status == http.StatusOK {
		status = http.StatusInternalServerError
	}
	return status, ErrorResponse{Message: err.Error()}
}

// NotFound is the no-route handler.
func NotFound(c *gin.Context) {
	Fail(c, domainErrors.WithStatus(http.StatusNotFound, errors.New("Not Found - "+c.Request.URL.RequestURI())))
}

// Recovery turns panics into 500 responses through ErrorHandler.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		stack := string(debug.Stack())
		logger.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		_ = c.Error(fmt.Errorf("%v", recovered)).SetMeta(stack)
		c.Abort()
	})
}
