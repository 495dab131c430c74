package user

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SlpAus/idle-miner-tycoon-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	CookieName   = "user-id"
	CookieMaxAge = 365 * 24 * 60 * 60
	UserIDKey    = "userID"
)

// EnsureUserCookieMiddleware 确保玩家的浏览器中有一个格式正确的user-id cookie。
// 如果没有或格式不正确，它会生成一个新的临时ID并设置cookie。
func EnsureUserCookieMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := c.Cookie(CookieName)

		// 如果Cookie不存在，或存在但格式不正确，则分发一个新的
		if err != nil || !IsValidUUID(userID) {
			if err != http.ErrNoCookie {
				fmt.Printf("检测到无效的玩家Cookie: %s, err: %v\n", userID, err)
			}
			provisionalUserID, err := CreateProvisionalUser()
			if err != nil {
				fmt.Printf("创建临时玩家ID时发生错误: %v\n", err)
			} else {
				c.SetCookie(CookieName, provisionalUserID, CookieMaxAge, "/", "", false, true)
				c.Set(UserIDKey, provisionalUserID)
			}
		} else {
			c.Set(UserIDKey, userID)
		}

		c.Next()
	}
}

// RequireSessionMiddleware 验证云存档会话令牌并把玩家ID放入Gin上下文。
// 令牌缺失、签名非法或玩家未激活时，以401 not_logged_in拒绝请求。
func RequireSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := extractBearerToken(c)
		if sessionToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"code":    "not_logged_in",
				"message": "使用云存档需要先登录。",
			})
			return
		}

		userID, ok := token.ValidateSession(sessionToken)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"code":    "not_logged_in",
				"message": "会话令牌无效或已过期。",
			})
			return
		}

		activated, err := IsUserActivated(userID)
		if err != nil || !activated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"code":    "not_logged_in",
				"message": "未知的玩家身份。",
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// extractBearerToken 从Authorization头中取出Bearer令牌。
func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
