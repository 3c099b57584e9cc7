package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
)

// DefaultTokenTTL is the lifetime of issued tokens.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the token payload: the caller's email plus registered claims.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 bearer tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. A non-positive ttl selects DefaultTokenTTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue produces a signed token asserting email, valid for the issuer's ttl.
func (i *Issuer) Issue(email string) (string, error) {
	now := i.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", apperr.Internal("failed to generate token", err)
	}
	return signed, nil
}

// Verify validates signature and expiry and returns the embedded email.
// An empty token is Unauthenticated; anything that fails validation is Forbidden.
func (i *Issuer) Verify(tokenStr string) (string, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return "", apperr.Unauthenticated("unauthorized access")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", &apperr.Error{Kind: apperr.KindForbidden, Message: "forbidden access", Err: err}
	}
	if !token.Valid || claims.Email == "" {
		return "", &apperr.Error{Kind: apperr.KindForbidden, Message: "forbidden access", Err: errors.New("token has no email claim")}
	}
	return claims.Email, nil
}

// BearerToken extracts the token from an Authorization header value.
// It returns "" when the header is absent or is not a bearer credential.
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
