package api

import (
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/leaderboard"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/save"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 玩家身份相关的路由组 /api/user
		userRoutes := api.Group("/user")
		userRoutes.Use(user.EnsureUserCookieMiddleware())
		{
			userRoutes.POST("/session", user.CreateSession)
		}

		// 云存档相关的路由组 /api/game
		gameRoutes := api.Group("/game")
		{
			// 排行榜是公开端点，不要求会话令牌
			gameRoutes.GET("/leaderboard", leaderboard.GetLeaderboard)

			authed := gameRoutes.Group("")
			authed.Use(save.RequireCloudSavesMiddleware(), user.RequireSessionMiddleware())
			{
				authed.POST("/save", save.SaveGame)
				authed.GET("/load", save.LoadGame)
			}
		}
	}
}
