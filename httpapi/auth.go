// Package httpapi exposes the lottery over HTTP with gin.
package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lottosix/lotto"
)

const contextUserKey = "auth_user"

// Claims are the JWT claims issued at login
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates JWT tokens for the API
type Authenticator struct {
	users    lotto.UserStore
	secret   []byte
	tokenTTL time.Duration
	logger   lotto.Logger
}

// NewAuthenticator creates an authenticator over the given user store
func NewAuthenticator(users lotto.UserStore, secret string, tokenTTL time.Duration, logger lotto.Logger) *Authenticator {
	if logger == nil {
		logger = &lotto.DefaultLogger{}
	}

	return &Authenticator{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a token for the user
func (a *Authenticator) IssueToken(user *lotto.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a token string
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Middleware validates the Bearer token and stores the claims on the request
// context
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := a.ValidateToken(parts[1])
		if err != nil {
			a.logger.Debug("token validation failed: %v", err)
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(contextUserKey, claims)
		c.Next()
	}
}

// AdminOnly rejects requests whose token does not carry the admin role. It
// must run after Middleware.
func (a *Authenticator) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if claims == nil || claims.Role != lotto.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, APIResponse{
				Success: false,
				Error:   "admin access required",
			})
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) *Claims {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{
		Success: false,
		Error:   msg,
	})
}
