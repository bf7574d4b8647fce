// File: middleware/auth.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"playpark/config"
	"playpark/models"
)

const actorContextKey = "actor"

// ActorMiddleware resolves the authenticated actor from the request's bearer
// token. Identity is a collaborator concern: the claims are trusted once the
// signature checks out, and no account lookup happens here.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(config.AppConfig.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		actor := models.Actor{
			ID:       stringClaim(claims, "sub"),
			Name:     stringClaim(claims, "name"),
			Role:     models.Role(stringClaim(claims, "role")),
			BranchID: stringClaim(claims, "branchId"),
		}
		if actor.ID == "" || actor.Role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFrom returns the actor resolved by ActorMiddleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	val, exists := c.Get(actorContextKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := val.(models.Actor)
	return actor, ok
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
