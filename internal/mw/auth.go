package mw

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the role claim required on admin routes.
const RoleAdmin = "admin"

// AdminAuth requires a bearer HS256 JWT signed with secret and carrying
// role=admin. With an empty secret every request passes, which is only
// meant for local development.
func AdminAuth(secret string, logger *log.Logger) gin.HandlerFunc {
	if secret == "" {
		if logger != nil {
			logger.Println("WARNING: admin_jwt_secret is empty; admin routes are unauthenticated")
		}
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token", "code": "unauthorized"})
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "code": "unauthorized"})
			return
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok || claims["role"] != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required", "code": "forbidden"})
			return
		}

		c.Set("admin_subject", claims["sub"])
		c.Next()
	}
}
