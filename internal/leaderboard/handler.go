package leaderboard

import (
	"net/http"
	"strconv"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// GetLeaderboard 处理 GET /api/game/leaderboard。
// 公开接口，不要求登录；limit参数收敛到[1, maxLimit]。
func GetLeaderboard(c *gin.Context) {
	cfg := config.Cfg.Game.Leaderboard
	if !cfg.Enabled {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"code":    "leaderboard_disabled",
			"message": "排行榜功能未开启。",
		})
		return
	}

	requested := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			requested = parsed
		}
	}
	limit := ClampLimit(requested, cfg.DefaultLimit, cfg.MaxLimit)

	entries, err := Top(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"code":    "save_failed",
			"message": "获取排行榜数据失败。",
		})
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"leaderboard": entries,
	})
}
