package save

import (
	"fmt"
	"io"
	"net/http"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/config"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// RequireCloudSavesMiddleware 在任何状态被触碰之前检查云存档功能开关。
func RequireCloudSavesMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Cfg.Game.CloudSaves.Enabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"code":    "cloud_saves_disabled",
				"message": "本站未开启云存档功能。",
			})
			return
		}
		c.Next()
	}
}

// SaveGame 处理 POST /api/game/save。
// 请求体是完整的GameState快照；校验失败时整体拒绝，不做部分应用。
func SaveGame(c *gin.Context) {
	userUUID := c.GetString(user.UserIDKey)

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    "invalid_save_data",
			"message": "无法读取存档数据。",
		})
		return
	}

	state, err := ValidateSaveData(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"code":    "invalid_save_data",
			"message": err.Error(),
		})
		return
	}

	// 反作弊只标记不拒绝
	if IsSuspicious(state) {
		fmt.Printf("反作弊: 玩家 %s 的存档超出理论收益上限 (currency=%.0f)\n", userUUID, state.Currency)
	}

	rankScore, err := UpsertSave(userUUID, state, raw)
	if err != nil {
		fmt.Printf("保存存档失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"code":    "save_failed",
			"message": "存档写入失败。",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "存档已保存。",
		"rankScore": rankScore,
	})
}

// LoadGame 处理 GET /api/game/load。
func LoadGame(c *gin.Context) {
	userUUID := c.GetString(user.UserIDKey)

	data, found, err := LoadSave(userUUID)
	if err != nil {
		fmt.Printf("读取存档失败: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"code":    "save_failed",
			"message": "存档读取失败。",
		})
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "没有找到存档。",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "存档已读取。",
		"data":    data,
	})
}
