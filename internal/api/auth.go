package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalid indicates a JWT failed signature, expiry, or claims
// validation.
var ErrTokenInvalid = errors.New("api: invalid token")

// defaultTokenTTLMinutes is used when the configured TTL is zero.
const defaultTokenTTLMinutes = 15

// Claims are the JWT claims carried by API access tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken creates a signed HS256 access token.
//
// Tokens are minted out-of-band (the bridge binary's -print-api-token
// flag); there is no login endpoint.
//
// Parameters:
//   - subject: Identifier for the token holder (e.g., "dashboard")
//   - secret: HMAC signing secret from config
//   - ttlMinutes: Token lifetime; <=0 uses the 15-minute default
//
// Returns:
//   - string: Signed compact JWT
//   - error: If signing fails
func GenerateToken(subject, secret string, ttlMinutes int) (string, error) {
	if ttlMinutes <= 0 {
		ttlMinutes = defaultTokenTTLMinutes
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlMinutes) * time.Minute)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

// ParseToken validates and parses a JWT access token, returning the claims.
// It checks the signature, expiry, and required fields.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return claims, nil
}
