package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"lunchrun/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Viewer is the authenticated caller: one user acting inside one org. Every
// downstream operation takes the org id explicitly, so the middleware is the
// only place the tenant is read off the token.
type Viewer struct {
	UserID  uuid.UUID
	OrgID   uuid.UUID
	IsAdmin bool
}

type AuthMiddleware struct {
	tokens *jwt.Service
}

const ctxViewerKey = "viewer"

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxViewerKey, Viewer{
			UserID:  claims.UserID,
			OrgID:   claims.OrgID,
			IsAdmin: claims.IsAdmin,
		})
		c.Set("jwt_claims", map[string]any{
			"user_id": claims.UserID.String(),
			"org_id":  claims.OrgID.String(),
		})
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := GetViewer(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}
		if !viewer.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetViewer(c *gin.Context) (Viewer, bool) {
	v, exists := c.Get(ctxViewerKey)
	if !exists {
		return Viewer{}, false
	}
	viewer, ok := v.(Viewer)
	return viewer, ok
}
