package user

import (
	"net/http"

	"github.com/SlpAus/idle-miner-tycoon-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

// createSessionRequest 是 POST /api/user/session 的请求体。
type createSessionRequest struct {
	DisplayName string `json:"displayName"`
}

// CreateSession 激活当前cookie对应的玩家并签发云存档会话令牌。
// 云存档的保存与读取都以持有该令牌为前置条件。
func CreateSession(c *gin.Context) {
	userID := c.GetString(UserIDKey)
	if userID == "" || !IsValidUUID(userID) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"code":    "not_logged_in",
			"message": "缺少玩家身份Cookie。",
		})
		return
	}

	var req createSessionRequest
	// 请求体可以为空，绑定失败不视为错误
	_ = c.ShouldBindJSON(&req)

	if err := ActivateUser(userID, req.DisplayName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"code":    "save_failed",
			"message": "无法激活玩家身份。",
		})
		return
	}

	sessionToken, err := token.SignSession(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"code":    "save_failed",
			"message": "无法签发会话令牌。",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userId":  userID,
		"token":   sessionToken,
	})
}
