package util

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

var ErrInvalidToken = errors.New("invalid token")

// Claims 只携带外部身份提供方确认过的邮箱
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func GenerateJWT(email, secret string, expiration time.Duration) (string, error) {
	claims := &Claims{
		Email: NormalizeEmail(email),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Email != "" {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func SetIdentity(c *gin.Context, claims *Claims) {
	c.Set(identityKey, claims)
}

// GetIdentity 未启用身份校验时返回 nil
func GetIdentity(c *gin.Context) *Claims {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// CanActAs 身份校验开启时只允许操作自己的账户
func CanActAs(c *gin.Context, email string) bool {
	claims := GetIdentity(c)
	if claims == nil {
		return true
	}
	return strings.EqualFold(claims.Email, NormalizeEmail(email))
}
