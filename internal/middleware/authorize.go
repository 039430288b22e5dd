package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vuelas/api/internal/models"
)

// RequireRoles must run after Auth.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
			return
		}

		role := claims.Rol
		if role == "" {
			role = claims.Role
		}
		if _, ok := roleSet[models.Role(role)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Acceso denegado"})
			return
		}

		c.Next()
	}
}
