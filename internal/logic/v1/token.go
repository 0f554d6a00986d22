package v1

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/duynhne/sales-service/internal/core/domain"
)

// Claims is the payload of a session token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec signing with secret. Every token it issues
// is valid for ttl.
func NewTokenCodec(secret, issuer string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the validity window of issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue mints a token for the given user and returns it with its expiry.
func (c *TokenCodec) Issue(userID, email string) (string, time.Time, error) {
	now := c.now().UTC()
	expiresAt := now.Add(c.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the
// embedded identity. Every failure wraps ErrTokenInvalid.
func (c *TokenCodec) Verify(tokenString string) (domain.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, fmt.Errorf("token expired: %w", ErrTokenInvalid)
		}
		return domain.Identity{}, fmt.Errorf("parse token: %v: %w", err, ErrTokenInvalid)
	}
	if !token.Valid || claims.UserID == "" {
		return domain.Identity{}, fmt.Errorf("missing identity claim: %w", ErrTokenInvalid)
	}

	identity := domain.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}
