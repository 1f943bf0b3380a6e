package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/blisscet/store-api/pkg/helpers"
	"github.com/blisscet/store-api/pkg/response"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxClaimsKey = "claims"
	CtxUserIDKey = "userID"
)

// Auth validates the Authorization: Bearer token, rejects tokens issued
// before a revocation mark (set on account delete/demote), and stores the
// claims in the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error[any](c, http.StatusUnauthorized, "no token provided", nil)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}

		if rdb != nil {
			mark, err := rdb.Get(c.Request.Context(), helpers.KeyRevokedTokens(claims.UserID)).Result()
			if err == nil && mark != "" {
				if revokedAt, perr := time.Parse(helpers.RevocationFormat, mark); perr == nil {
					if claims.IssuedAt == nil || !claims.IssuedAt.Time.After(revokedAt) {
						response.Error[any](c, http.StatusUnauthorized, "token has been revoked", nil)
						c.Abort()
						return
					}
				}
			}
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// ClaimsFrom returns the verified claims stored by Auth, if any.
func ClaimsFrom(c *gin.Context) (*helpers.Claims, bool) {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*helpers.Claims)
	return claims, ok
}

// SelfOrAdmin permits the request when the verified subject matches the
// path's :id, or when the subject holds the admin flag.
func SelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "no token provided", nil)
			c.Abort()
			return
		}
		if claims.UserID == c.Param("id") || claims.Admin {
			c.Next()
			return
		}
		response.Error[any](c, http.StatusForbidden, "you are not allowed to do that", nil)
		c.Abort()
	}
}

// AdminOnly permits the request only when the subject holds the admin flag.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "no token provided", nil)
			c.Abort()
			return
		}
		if !claims.Admin {
			response.Error[any](c, http.StatusForbidden, "only admins are allowed", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
