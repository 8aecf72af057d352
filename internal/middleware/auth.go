package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"courtbook/internal/pkg/jwt"
	"courtbook/internal/pkg/response"
)

const (
	ctxUserID  = "user_id"
	ctxRole    = "role"
	ctxCoachID = "coach_id"
	ctxName    = "name"
	ctxEmail   = "email"
)

// Identity is the caller as described by the access token.
type Identity struct {
	UserID  int64
	Role    string
	CoachID int64
	Name    string
	Email   string
}

// JWTAuth validates the bearer token and stores its claims on the context.
func JWTAuth(j *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}
		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Empty token")
			c.Abort()
			return
		}

		claims, err := j.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxCoachID, claims.CoachID)
		c.Set(ctxName, claims.Name)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

// CurrentIdentity reads what JWTAuth stored.
func CurrentIdentity(c *gin.Context) Identity {
	return Identity{
		UserID:  c.GetInt64(ctxUserID),
		Role:    c.GetString(ctxRole),
		CoachID: c.GetInt64(ctxCoachID),
		Name:    c.GetString(ctxName),
		Email:   c.GetString(ctxEmail),
	}
}
