package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenTTL is the lifetime of issued dashboard tokens.
const tokenTTL = 12 * time.Hour

// ErrBadAPIKey is returned when a token exchange presents the wrong key.
var ErrBadAPIKey = errors.New("invalid api key")

// Auth guards the upload endpoint with a shared API key and the dashboard
// endpoints with short-lived HS256 bearer tokens exchanged for that key.
// With no key configured, both guards are no-ops (open deployment).
type Auth struct {
	apiKey []byte
	secret []byte
}

// NewAuth creates the auth guard.
func NewAuth(apiKey, jwtSecret string) *Auth {
	return &Auth{apiKey: []byte(apiKey), secret: []byte(jwtSecret)}
}

// Enabled reports whether any guard is active.
func (a *Auth) Enabled() bool {
	return len(a.apiKey) > 0
}

// RequireAPIKey checks the X-API-Key header.
func (a *Auth) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), a.apiKey) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "invalid api key",
			})
			return
		}
		c.Next()
	}
}

// RequireToken checks the Authorization bearer token.
func (a *Auth) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() || len(a.secret) == 0 {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "bearer token required",
			})
			return
		}

		token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "invalid or expired token",
			})
			return
		}
		c.Next()
	}
}

// IssueToken exchanges the API key for a dashboard bearer token.
func (a *Auth) IssueToken(apiKey string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(apiKey), a.apiKey) != 1 {
		return "", time.Time{}, ErrBadAPIKey
	}

	expiresAt := time.Now().Add(tokenTTL)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   "dashboard",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
