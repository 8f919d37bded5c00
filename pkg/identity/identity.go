package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a bearer credential and yields the verified email
// address. Token issuance belongs to the external identity provider; this
// service only checks what it is handed.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoEmailClaim = errors.New("token has no email claim")
)

// Claims is the subset of provider claims this service reads.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 tokens signed with the shared identity-provider
// secret.
type JWTVerifier struct {
	secret string
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.secret), nil
	})

	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return "", ErrNoEmailClaim
	}

	return email, nil
}
