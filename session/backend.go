package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ckmconsole/domain"
)

// ErrInvalidCredentials is returned by an AuthBackend that rejects a login.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthBackend turns typed credentials into a user record and session token.
type AuthBackend interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, string, error)
	Revoke(ctx context.Context, token string) error
}

// TokenValidator is implemented by backends that can tell whether a
// previously issued token is still good. A restored session whose token
// fails Validate is discarded.
type TokenValidator interface {
	Validate(ctx context.Context, token string) error
}

// ErrTokenRevoked is returned by Validate for a token signed out through
// Revoke.
var ErrTokenRevoked = errors.New("token revoked")

// TokenIssuer mints the opaque token stored next to the user record.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// Claims are the fields carried by a console-issued token.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens. Every token carries a fresh jti so two
// logins never share a token.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if secret == "" {
		secret = "ckmconsole-default-secret-change-me"
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *JWTIssuer) Issue(user *domain.User) (string, error) {
	now := j.now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  user.Username,
			Issuer:   "ckmconsole",
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if j.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// Verify checks the signature and expiry of a token issued by j.
func (j *JWTIssuer) Verify(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return &claims, nil
}
