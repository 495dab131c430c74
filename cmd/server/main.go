package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/api"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/config"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/database"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/health"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/shutdown"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/startup"
	"github.com/SlpAus/idle-miner-tycoon-backend/pkg/lifecycle"
	"github.com/SlpAus/idle-miner-tycoon-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env 只在本地开发时存在，缺失不是错误
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("无法加载配置文件: %v", err))
	}

	token.GenerateSecretKey()
	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)

	// 1. 阻塞式获取初始Run ID
	health.InitializeRunID()

	// 2. 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 3. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 4. 异步启动后台的持续健康检查器
	go health.StartRedisHealthCheck()

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	gracefulManager := lifecycle.NewManager()
	forcefulManager := lifecycle.NewManager()
	coordinator := shutdown.NewCoordinator(gracefulManager, forcefulManager)

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 阻塞直到收到停机信号并完成优雅停机
	coordinator.ListenForSignalsAndShutdown(server)
}
