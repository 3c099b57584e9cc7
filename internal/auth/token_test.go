package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("secret", 0)

	token, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	email, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestIssuedTokenExpiresAfterTTL(t *testing.T) {
	issuer := NewIssuer("secret", 0)
	start := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return start }

	token, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(23 * time.Hour) }
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(DefaultTokenTTL + time.Minute) }
	_, err = issuer.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestVerifyRejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)
	foreign, err := other.Issue("alice@example.com")
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Email: "alice@example.com"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Email:            "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  apperr.Kind
	}{
		{"empty", "", apperr.KindUnauthenticated},
		{"garbage", "not-a-jwt", apperr.KindForbidden},
		{"wrong secret", foreign, apperr.KindForbidden},
		{"missing expiry", noExpiry, apperr.KindForbidden},
		{"missing email", noEmail, apperr.KindForbidden},
		{"alg none", unsigned, apperr.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperr.KindOf(err))
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer abc"))
	assert.Equal(t, "", BearerToken(""))
	assert.Equal(t, "", BearerToken("Bearer"))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken("Bearer a b"))
}
