package auth

import (
	"time"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
)

// Identity is the authenticated principal carried by a token.
type Identity struct {
	UserID string
	Role   model.Role
}

type Strategy interface {
	IssueToken(id Identity) (string, error)
	ParseToken(token string) (Identity, error)
	Name() string
}

type Options struct {
	TTL    time.Duration
	Issuer string
}
