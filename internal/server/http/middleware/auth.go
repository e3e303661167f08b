package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/errors"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
)

const (
	// IdentityContextKey is a gin context key for the authenticated identity.
	IdentityContextKey = "identity"
	authCookieName     = "bazzarnet_token"
)

var (
	errNotAuthorized = errors.New("Not authorized, no token")
	errTokenFailed   = errors.New("Not authorized, token failed")
	errRoleForbidden = errors.New("Not authorized for this resource")
)

// TokenParser resolves a bearer token into an identity.
type TokenParser interface {
	ParseToken(token string) (pkgAuth.Identity, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			Fail(c, domainErrors.WithStatus(http.StatusUnauthorized, errNotAuthorized))
			return
		}

		identity, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				Fail(c, domainErrors.WithStatus(http.StatusUnauthorized, errTokenFailed))
				return
			}
			Fail(c, err)
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// RequireRole lets through identities holding one of roles. It runs after AuthRequired.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			Fail(c, domainErrors.WithStatus(http.StatusUnauthorized, errNotAuthorized))
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		Fail(c, domainErrors.WithStatus(http.StatusForbidden, errRoleForbidden))
	}
}

// CurrentIdentity returns the identity stored by AuthRequired.
func CurrentIdentity(c *gin.Context) (pkgAuth.Identity, bool) {
	val, ok := c.Get(IdentityContextKey)
	if !ok {
		return pkgAuth.Identity{}, false
	}
	identity, ok := val.(pkgAuth.Identity)
	return identity, ok
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, 0, "/", "", secure, true)
	c.Header("Authorization", "Bearer "+token)
}
