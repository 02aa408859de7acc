package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

func NewJWTManager(secretKey string, duration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: duration,
	}
}

// GenerateToken signs an HS256 token carrying the user UUID and staff flag.
func (j *JWTManager) GenerateToken(userUUID string, isStaff bool) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userUUID,
		"staff": isStaff,
		"exp":   now.Add(j.tokenDuration).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// VerifyToken validates the signature and expiry and returns the UUID and
// staff flag embedded in the claims.
func (j *JWTManager) VerifyToken(tokenStr string) (string, bool, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return j.secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", false, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false, fmt.Errorf("invalid token claims")
	}

	userUUID, ok := claims["sub"].(string)
	if !ok {
		return "", false, fmt.Errorf("invalid sub claim")
	}

	isStaff, _ := claims["staff"].(bool)
	return userUUID, isStaff, nil
}
