package middleware

import (
	"errors"
	"strings"
	"time"

	"go-gin-ecommerce/internal/model"
	apperrors "go-gin-ecommerce/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	currentUserKey = "currentUser"
	TokenCookie    = "accessToken"
)

// Claims JWT 內容
type Claims struct {
	UserID string     `json:"uid"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	CartID string     `json:"cart,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken 簽發 HS256 token；登入流程不在這個服務內，主要給工具與測試使用
func IssueToken(secret string, identity *model.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   identity.Role,
		CartID: identity.CartID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken 驗證 token 並轉成 Identity
func ParseToken(secret, tokenString string) (*model.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.Email == "" || !claims.Role.IsValid() {
		return nil, errors.New("token is missing identity claims")
	}

	return &model.Identity{
		ID:     claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		CartID: claims.CartID,
	}, nil
}

// Auth 沒有 token 時以匿名身分繼續，token 無效時回 403
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		identity, err := ParseToken(secret, tokenString)
		if err != nil {
			appErr := apperrors.ErrInvalidToken.WithCause("the access token is invalid or expired")
			c.AbortWithStatusJSON(appErr.Status(), appErr.Response())
			return
		}

		SetCurrentUser(c, identity)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

func SetCurrentUser(c *gin.Context, identity *model.Identity) {
	c.Set(currentUserKey, identity)
}

// CurrentUser 匿名請求回傳 nil
func CurrentUser(c *gin.Context) *model.Identity {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*model.Identity)
	return identity
}
