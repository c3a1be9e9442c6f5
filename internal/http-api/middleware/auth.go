package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/access"
	"reviewhub/internal/http-api/service"
)

const claimsKey = "claims"

// AuthMiddleware authenticates API requests by validating the bearer token
// in the Authorization header. Requests without a valid token are rejected
// with 401.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromHeader(c, authService)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing authorization header"})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the actor identity when a valid token is
// present but lets anonymous requests through; the handlers decide with the
// access package.
func OptionalAuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromHeader(c, authService); ok {
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, authService service.AuthService) (*service.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Actor builds the access-control actor for the current request; anonymous
// when no valid token was attached.
func Actor(c *gin.Context) access.Actor {
	value, exists := c.Get(claimsKey)
	if !exists {
		return access.Anonymous
	}
	claims, ok := value.(*service.Claims)
	if !ok {
		return access.Anonymous
	}
	return access.Actor{
		ID:            claims.UserID,
		Role:          claims.Role,
		Superuser:     claims.Superuser,
		Authenticated: true,
	}
}
