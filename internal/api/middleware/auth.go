package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/LeapSeeker/matzip-demo/internal/config"
	"github.com/LeapSeeker/matzip-demo/internal/identity"
	"github.com/LeapSeeker/matzip-demo/internal/rowstore"
	"github.com/LeapSeeker/matzip-demo/internal/types"
	"github.com/LeapSeeker/matzip-demo/internal/utils"
)

// AuthMiddleware resolves the bearer session token into an identity and
// binds it both to the gin context (for handlers) and to the request
// context as the row-store actor (for the server-side ownership policy).
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.SendUnauthorized(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := identity.ParseAccessToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.SendUnauthorized(c, "Invalid session token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Request = c.Request.WithContext(rowstore.WithActor(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// IdentityFrom rebuilds the identity stored by AuthMiddleware.
func IdentityFrom(c *gin.Context) types.Identity {
	return types.Identity{
		ID:    c.GetString("user_id"),
		Email: c.GetString("user_email"),
	}
}
