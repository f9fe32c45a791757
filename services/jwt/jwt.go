package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// AccessTokenValidity bounds how long an access token is honoured.
const AccessTokenValidity = time.Hour * 24

// ResetTokenValidity bounds how long a password-reset token is honoured.
const ResetTokenValidity = time.Minute * 20

// GenerateToken mints a signed access token carrying the user id and role.
func GenerateToken(userID uint, role string, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is empty")
	}
	claims := jwt.MapClaims{
		"id":   float64(userID),
		"sub":  float64(userID),
		"role": role,
		"exp":  time.Now().Add(AccessTokenValidity).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GeneratePasswordResetToken mints a short-lived token bound to the email.
func GeneratePasswordResetToken(email string, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is empty")
	}
	claims := jwt.MapClaims{
		"email": email,
		"reset": true,
		"exp":   time.Now().Add(ResetTokenValidity).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAndGetClaims parses the token, verifies the signature and expiry,
// and returns its claims.
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// UserIDFromClaims extracts the numeric user id claim.
func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	v, ok := claims["id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid userID format")
	}
	return uint(v), nil
}
