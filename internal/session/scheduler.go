package session

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/pkg/lifecycle"
)

const (
	// incomeTickInterval 是被动收益的结算周期
	incomeTickInterval = 100 * time.Millisecond
	// incomeTickSeconds 是每个tick结算的时长
	incomeTickSeconds = 0.1

	// autoSaveInterval 是自动保存周期；最坏情况丢失的进度以它为界
	autoSaveInterval = 10 * time.Second
)

// Scheduler 驱动一个会话的两个固定周期任务：
// 100ms的被动收益tick和独立的10秒自动保存。
// 两个任务各占一个Goroutine，保存在途时收益tick继续触发。
type Scheduler struct {
	session *Session
}

// NewScheduler 为一个会话创建调度器。
func NewScheduler(session *Session) *Scheduler {
	return &Scheduler{session: session}
}

// Start 向生命周期管理器注册并启动两个后台任务。
func (sc *Scheduler) Start(manager *lifecycle.Manager) error {
	incomeHandle, err := manager.NewServiceHandle("income-tick")
	if err != nil {
		return err
	}
	saveHandle, err := manager.NewServiceHandle("auto-save")
	if err != nil {
		return err
	}

	go sc.runIncomeLoop(incomeHandle)
	go sc.runAutoSaveLoop(saveHandle)
	return nil
}

// runIncomeLoop 按固定周期结算被动收益，直到收到停机信号。
func (sc *Scheduler) runIncomeLoop(handle *lifecycle.Handle) {
	defer handle.Close()
	fmt.Println("收益调度器已启动。")

	for {
		if err := handle.Sleep(incomeTickInterval); err != nil {
			fmt.Println("收益调度器: 收到停机信号，正在退出...")
			return
		}
		sc.session.TickIncome(incomeTickSeconds)
	}
}

// runAutoSaveLoop 按固定周期触发自动保存，退出前补一次最终保存。
func (sc *Scheduler) runAutoSaveLoop(handle *lifecycle.Handle) {
	defer handle.Close()
	fmt.Println("自动保存调度器已启动。")

	for {
		if err := handle.Sleep(autoSaveInterval); err != nil {
			fmt.Println("自动保存调度器: 收到停机信号，执行最终保存...")
			// 停机路径不复用已取消的生命周期ctx，保存需要完整跑完
			result := sc.session.Save(context.Background())
			fmt.Printf("最终保存完成 [%s]。\n", result.Outcome)
			return
		}

		result := sc.session.Save(handle.Ctx())
		if result.Err != nil {
			fmt.Printf("自动保存 [%s]: %v\n", result.Outcome, result.Err)
		}
	}
}
