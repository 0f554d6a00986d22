package v1

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16-bytes"

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSecret, "sales-service", time.Hour)

	token, expiresAt, err := codec.Issue("user-1", "a@b.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "a@b.com", identity.Email)
	assert.Equal(t, expiresAt.Unix(), identity.ExpiresAt.Unix())
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec(testSecret, "sales-service", time.Hour)
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issuedAt }

	token, _, err := codec.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	codec.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	_, err = codec.Verify(token)
	require.NoError(t, err)

	codec.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenCodec_Rejects(t *testing.T) {
	codec := NewTokenCodec(testSecret, "sales-service", time.Hour)
	valid, _, err := codec.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	otherKey, _, err := NewTokenCodec("another-secret-of-16-bytes", "sales-service", time.Hour).Issue("user-1", "a@b.com")
	require.NoError(t, err)

	otherIssuer, _, err := NewTokenCodec(testSecret, "someone-else", time.Hour).Issue("user-1", "a@b.com")
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sales-service",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "sales-service"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sales-service",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := map[string]string{
		"wrong key":     otherKey,
		"wrong issuer":  otherIssuer,
		"alg none":      noneAlg,
		"no expiry":     noExpiry,
		"no user claim": noUser,
		"bad signature": tampered,
		"not a jwt":     "not-a-token",
		"empty":         "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Verify(token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}
