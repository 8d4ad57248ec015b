// Package auth issues and validates the signed identity tokens carried by
// the session cookie and Authorization header. A token encodes exactly the
// claims the access layer reads: email, role, and the email-verified flag.
package auth

import (
	"errors"
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Roles a claim may carry.
const (
	RoleUser   = "user"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Token types. A refresh token must never pass as a bearer credential,
// and an access token must not mint new pairs.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// ErrWrongTokenType is returned when a token is valid but presented at
// the wrong boundary.
var ErrWrongTokenType = errors.New("auth: wrong token type")

// Claims is the typed JWT payload. Role and EmailVerified are fixed at
// token issuance; a role change or verification takes effect on the next
// login, never mid-request.
type Claims struct {
	UserID        uint   `json:"user_id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	TokenType     string `json:"typ"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// GenerateToken creates a signed access token valid for 24 hours.
func GenerateToken(userID uint, email, role string, emailVerified bool) (string, error) {
	return sign(userID, email, role, emailVerified, TokenAccess, 24*time.Hour)
}

// GenerateRefreshToken creates a longer-lived token used to refresh access.
func GenerateRefreshToken(userID uint, email, role string, emailVerified bool) (string, error) {
	return sign(userID, email, role, emailVerified, TokenRefresh, 7*24*time.Hour)
}

func sign(userID uint, email, role string, emailVerified bool, tokenType string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:        userID,
		Email:         email,
		Role:          role,
		EmailVerified: emailVerified,
		TokenType:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a token string.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ValidateAccessToken validates a token and requires the access type.
// A refresh token presented as a bearer credential fails here.
func ValidateAccessToken(t string) (*Claims, error) {
	return validateTyped(t, TokenAccess)
}

// ValidateRefreshToken validates a token and requires the refresh type.
func ValidateRefreshToken(t string) (*Claims, error) {
	return validateTyped(t, TokenRefresh)
}

func validateTyped(t, tokenType string) (*Claims, error) {
	claims, err := ValidateToken(t)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
