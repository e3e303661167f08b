package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

const defaultIssuer = "bazzarnet"

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTStrategy issues HS256 signed tokens with the user id as subject and the role as a claim.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTStrategy builds JWTStrategy with provided secret and options.
func NewJWTStrategy(secret string, opts Options) *JWTStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	issuer := opts.Issuer
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &JWTStrategy{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// IssueToken generates a signed token for the identity.
func (s *JWTStrategy) IssueToken(id Identity) (string, error) {
	now := s.now()
	c := claims{
		Role: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// ParseToken validates token and returns the identity it carries.
func (s *JWTStrategy) ParseToken(token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	role := model.Role(c.Role)
	if c.Subject == "" || !role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: c.Subject, Role: role}, nil
}

func (s *JWTStrategy) Name() string {
	return "jwt"
}
