package test

import (
	"errors"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	pkgAuth "github.com/codecay7/BazzarNet-DIST-sub001/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(pkgAuth.Identity) (string, error)
	ParseFn func(string) (pkgAuth.Identity, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(id pkgAuth.Identity) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(id)
	}
	return "token:" + id.UserID + ":" + string(id.Role), nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (pkgAuth.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return ParseStubToken(token)
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	Identity pkgAuth.Identity
	Err      error
	ParseFn  func(string) (pkgAuth.Identity, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (pkgAuth.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return pkgAuth.Identity{}, s.Err
	}
	return s.Identity, nil
}

// ParseStubToken decodes tokens produced by StrategyStub.IssueToken.
func ParseStubToken(token string) (pkgAuth.Identity, error) {
	const prefix = "token:"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return pkgAuth.Identity{}, pkgAuth.ErrInvalidToken
	}
	rest := token[len(prefix):]
	for i := len(rest) - 1; i >= 0; i-- {
		if rest[i] == ':' {
			id := pkgAuth.Identity{UserID: rest[:i], Role: model.Role(rest[i+1:])}
			if id.UserID == "" {
				return pkgAuth.Identity{}, pkgAuth.ErrInvalidToken
			}
			return id, nil
		}
	}
	return pkgAuth.Identity{}, pkgAuth.ErrInvalidToken
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
