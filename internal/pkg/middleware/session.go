package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie 匿名会话 cookie，收藏列表按它区分
	SessionCookie = "forum_session"
	// ContextSessionID 上下文中的会话 ID key
	ContextSessionID = "sessionID"

	sessionMaxAge = 30 * 24 * 3600
)

// SessionMiddleware 读取或下发会话 cookie
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sessionID, sessionMaxAge, "/", "", false, true)
		}

		c.Set(ContextSessionID, sessionID)
		c.Next()
	}
}

// GetSessionID 读取当前会话 ID
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
