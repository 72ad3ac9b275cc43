package middleware

import (
	"net/http"
	"strings"

	"svu_forum/pkg/response"
	"svu_forum/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ContextUsername 上下文中保存当前登录用户名的 key
const ContextUsername = "username"

// AuthMiddleware JWT认证中间件
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, response.ErrLoginRequired, "Authorization header is required")
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid authorization header format")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			return
		}

		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// OptionalAuthMiddleware 有合法 token 时写入用户名，否则按匿名访问继续
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := utils.ParseToken(tokenString); err == nil {
				c.Set(ContextUsername, claims.Username)
			}
		}
		c.Next()
	}
}

// GetUsername 读取当前登录用户名，匿名时为空
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

// 检查格式 "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
