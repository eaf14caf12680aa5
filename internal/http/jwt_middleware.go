package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"safe-harbor/internal/service"
)

const authClaimsKey = "auth_claims"

// authCookieName es la cookie http-only que emite el login.
const authCookieName = "authToken"

// JWTAuthMiddleware valida el authToken (cookie o header Bearer) y guarda
// los claims en el contexto.
func JWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "jwt not configured"})
			c.Abort()
			return
		}

		token := ""
		if cookie, err := c.Cookie(authCookieName); err == nil {
			token = cookie
		}
		if token == "" {
			header := strings.TrimSpace(c.GetHeader("Authorization"))
			if header != "" && strings.HasPrefix(strings.ToLower(header), "bearer ") {
				token = strings.TrimSpace(header[len("Bearer "):])
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing token"})
			c.Abort()
			return
		}

		claims, err := jwtSvc.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}
