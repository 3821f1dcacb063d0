package gateway

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/careledger/registry/pkg/types"
)

// TokenValidator is the identity-substrate adapter. It verifies a bearer
// token issued by the authentication collaborator and hands the registry a
// verified caller principal; the registry core never sees the token.
type TokenValidator struct {
	jwtSecret []byte
	issuer    string
}

// NewTokenValidator creates a new token validator
func NewTokenValidator(secret, issuer string) *TokenValidator {
	return &TokenValidator{
		jwtSecret: []byte(secret),
		issuer:    issuer,
	}
}

// ValidateJWT validates a JWT token and returns the caller principal
func (tv *TokenValidator) ValidateJWT(tokenString string) (types.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tv.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	if tv.issuer != "" && claims.Issuer != tv.issuer {
		return "", fmt.Errorf("unexpected token issuer %q", claims.Issuer)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return "", fmt.Errorf("token expired")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token carries no subject principal")
	}

	return types.Principal(claims.Subject), nil
}

// IssueToken signs a token for the given principal. Used by tooling and
// tests; production tokens come from the identity substrate.
func (tv *TokenValidator) IssueToken(principal types.Principal, validity time.Duration) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   string(principal),
		Issuer:    tv.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tv.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
