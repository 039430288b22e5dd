package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vuelas/api/internal/security"
)

const claimsKey = "auth_claims"

// TokenValidator is satisfied by *security.TokenService.
type TokenValidator interface {
	Validate(token string) (*security.Claims, bool)
}

// Auth requires a valid bearer token and stores its claims on the context.
func Auth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
			return
		}

		claims, ok := tokens.Validate(tokenStr)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c *gin.Context) (*security.Claims, bool) {
	val, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*security.Claims)
	return claims, ok && claims != nil
}
