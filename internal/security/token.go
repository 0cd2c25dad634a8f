package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims are the claims the external identity provider puts in its
// tokens. The backend never issues tokens, it only verifies them.
type IdentityClaims struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier validates bearer tokens minted by the identity provider
// (HS256, shared secret).
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify validates a token and returns the identity claims.
func (t *TokenVerifier) Verify(tokenStr string) (*IdentityClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)

	return &IdentityClaims{
		Subject: sub,
		Email:   email,
		Name:    name,
		Picture: picture,
	}, nil
}
