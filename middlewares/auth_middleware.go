package middlewares

import (
	"context"
	"net/http"
	"strings"

	"foodlens/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"
	ctxClaims = "claims"
)

// TokenAuthenticator validates a bearer token.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Claims, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return token, token != ""
}

func setClaims(c *gin.Context, claims *utils.Claims) bool {
	uid, err := claims.UserID()
	if err != nil {
		return false
	}
	c.Set(ctxUserID, uid)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxClaims, claims)
	return true
}

// AuthMiddleware rejects requests without a valid, non-revoked token.
func AuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil || !setClaims(c, claims) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the user when a valid token is sent and otherwise
// lets the request through anonymously. A bad token is still rejected.
func OptionalAuth(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil || !setClaims(c, claims) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// UserID is 0 for anonymous requests.
func UserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

func CurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
