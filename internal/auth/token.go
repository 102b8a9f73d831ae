package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenValidity is the fixed lifetime of an issued token.
const tokenValidity = time.Hour

// Claims is the signed token payload: the registered claims plus the
// owning user's identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenService issues and verifies signed identity tokens. It is
// stateless; the signing secret is injected at construction.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token embedding userID, valid for one hour from now.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenValidity)),
		},
		UserID: userID,
	})

	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the embedded user
// identifier. A missing, malformed, expired, or foreign-signed token
// yields the empty string; callers treat that single sentinel as "not
// authenticated".
func (s *TokenService) Verify(tokenStr string) string {
	if tokenStr == "" {
		return ""
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	return claims.UserID
}
