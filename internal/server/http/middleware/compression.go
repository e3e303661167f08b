package middleware

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
)

// MaxBodyBytes caps request bodies after decompression.
const MaxBodyBytes = 1 << 20

var errBadEncoding = errors.New("Malformed gzip request body")

// DecompressRequest transparently handles gzip encoded requests and limits body size.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Content-Encoding"), "gzip") {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
			c.Next()
			return
		}

		originalBody := c.Request.Body
		reader, err := gzip.NewReader(originalBody)
		if err != nil {
			Fail(c, domainErrors.WithStatus(http.StatusBadRequest, errBadEncoding))
			return
		}
		defer reader.Close()
		defer originalBody.Close()

		c.Request.Body = http.MaxBytesReader(c.Writer, io.NopCloser(reader), MaxBodyBytes)
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
