package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"payment-reconciler/internal/handler/httperr"
	"payment-reconciler/internal/pkg/jwt"
	"payment-reconciler/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserIDKey = "user_id"
	bearerPrefix = "Bearer "
	authRealm    = `Bearer realm="payments"`
)

var errMissingToken = httperr.Sentinel("access token required")

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// RequireAuth accepts only an Authorization bearer token. Failures carry an
// RFC 6750 challenge so clients can tell a refreshable expiry from a bad token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Header("WWW-Authenticate", authRealm)
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		userID, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "caller token rejected", "error", err.Error(), "client_ip", c.ClientIP())
			if errors.Is(err, jwt.ErrExpiredToken) {
				c.Header("WWW-Authenticate", authRealm+`, error="invalid_token", error_description="token expired"`)
				httperr.AbortWithError(c, http.StatusUnauthorized, err, "Access token expired", nil)
				return
			}
			c.Header("WWW-Authenticate", authRealm+`, error="invalid_token"`)
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid access token", nil)
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}
