package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/persistence"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/session"
	"github.com/SlpAus/idle-miner-tycoon-backend/pkg/lifecycle"
	"github.com/joho/godotenv"
)

// simulate 是一个无头客户端：它加载存档、启动收益与自动保存循环，
// 并按固定节奏点击和购买，用来端到端地演练经济与持久化链路。
func main() {
	_ = godotenv.Load()

	savePath := flag.String("save", "simulate.db", "本地存档数据库路径")
	serverURL := flag.String("server", "", "云存档服务器地址，留空则纯本地运行")
	sessionToken := flag.String("token", "", "云存档会话令牌")
	clickRate := flag.Int("clicks", 5, "每秒点击次数")
	flag.Parse()

	local, err := persistence.NewLocalStore(*savePath)
	if err != nil {
		fmt.Printf("无法打开本地存档: %v\n", err)
		os.Exit(1)
	}

	var adapter persistence.Adapter = local
	if *serverURL != "" {
		adapter = persistence.NewRemoteStore(*serverURL, *sessionToken, local)
		fmt.Printf("云存档已启用: %s\n", *serverURL)
	}

	sess := session.NewSession(economy.DefaultCatalog(), adapter, session.RealClock{})

	report, err := sess.Load(context.Background())
	if err != nil {
		fmt.Printf("读取存档失败: %v\n", err)
		os.Exit(1)
	}
	if report.FirstVisit {
		fmt.Println("欢迎来到挖矿大亨！")
	}
	if report.OfflineEarned > 0 {
		fmt.Printf("离线收益: %.6f\n", report.OfflineEarned)
	}

	gracefulManager := lifecycle.NewManager()
	scheduler := session.NewScheduler(sess)
	if err := scheduler.Start(gracefulManager); err != nil {
		fmt.Printf("无法启动调度器: %v\n", err)
		os.Exit(1)
	}

	playerHandle, err := gracefulManager.NewServiceHandle("simulated-player")
	if err != nil {
		fmt.Printf("无法注册模拟玩家: %v\n", err)
		os.Exit(1)
	}
	go runPlayer(playerHandle, sess, *clickRate)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\n收到关闭信号，正在保存并退出...")

	gracefulManager.Shutdown()
	remaining := gracefulManager.WaitWithTimeout(10 * time.Second)
	if len(remaining) > 0 {
		fmt.Printf("以下服务未能及时退出: %v\n", remaining)
	}

	state := sess.State()
	fmt.Printf("最终状态: currency=%.6f clickPower=%.2f passiveIncome=%.2f prestige=%d\n",
		state.Currency, state.ClickPower, state.PassiveIncome, state.PrestigeLevel)
}

// runPlayer 以固定频率点击，并在买得起时贪心购买目录里最便宜的升级。
func runPlayer(handle *lifecycle.Handle, sess *session.Session, clickRate int) {
	defer handle.Close()

	if clickRate < 1 {
		clickRate = 1
	}
	interval := time.Second / time.Duration(clickRate)

	for {
		if err := handle.Sleep(interval); err != nil {
			return
		}
		sess.Click()
		buyCheapestAffordable(handle.Ctx(), sess)
	}
}

func buyCheapestAffordable(ctx context.Context, sess *session.Session) {
	state := sess.State()
	catalog := sess.Catalog()

	bestID := ""
	bestCost := 0.0
	for _, def := range catalog.Definitions() {
		cost := economy.UpgradeCost(state, def)
		if cost <= state.Currency && (bestID == "" || cost < bestCost) {
			bestID = def.ID
			bestCost = cost
		}
	}
	if bestID == "" {
		return
	}
	if err := sess.Buy(ctx, bestID); err != nil {
		fmt.Printf("购买 %s 失败: %v\n", bestID, err)
	}
}
