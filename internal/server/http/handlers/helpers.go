package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/schema"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/server/http/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 100000
)

var errBodyTooLarge = errors.New("Request body too large")

// CurrentIdentity extracts authenticated identity from context.
func CurrentIdentity(c *gin.Context) pkgAuth.Identity {
	identity, _ := middleware.CurrentIdentity(c)
	return identity
}

// bind decodes the JSON body into req and runs its schema. On failure the
// error is recorded and false returned.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.Fail(c, domainErrors.WithStatus(http.StatusRequestEntityTooLarge, errBodyTooLarge))
			return false
		}
		middleware.Fail(c, domainErrors.NewValidationError(map[string]string{"body": "Invalid request payload"}))
		return false
	}
	if err := schema.Validate(req).Err(); err != nil {
		middleware.Fail(c, err)
		return false
	}
	return true
}

// pagination reads ?page and ?limit, both 1-based and bounded. Pages past
// maxPage are clamped so the offset cannot overflow.
func pagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	return limit, (page - 1) * limit
}
