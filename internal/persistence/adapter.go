package persistence

import (
	"context"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
)

// Outcome 显式地记录一次保存走过的路径。
// 云保存的静默降级不允许被吞掉成普通成功，测试需要能确定性地断言降级路径。
type Outcome int

const (
	// OutcomeSaved 表示保存按所选策略正常完成
	OutcomeSaved Outcome = iota
	// OutcomeDegradedToLocal 表示远端保存失败，已透明降级为本地保存
	OutcomeDegradedToLocal
	// OutcomeRejected 表示远端明确拒绝了这次保存（校验或鉴权失败），本地备份仍然写入
	OutcomeRejected
)

// String 返回Outcome的可读名称。
func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeDegradedToLocal:
		return "degraded_to_local"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// SaveResult 是一次保存操作的完整结果。
type SaveResult struct {
	Outcome Outcome

	// RankScore 是服务端在成功保存后返回的排名分，仅OutcomeSaved且走远端时有效
	RankScore float64

	// Err 记录触发降级或拒绝的原因，供日志与软提示使用，不作为硬失败向玩家传播
	Err error
}

// Adapter 是持久化策略的统一接口，本地与远端两种策略可互换。
// 策略在启动时按配置选择一次：云存档开启且用户已登录时用远端，否则用本地。
type Adapter interface {
	// Save 持久化完整的状态快照。任何策略下都不返回硬错误，结果由SaveResult描述。
	Save(ctx context.Context, state economy.GameState) SaveResult

	// Load 读取最近的状态快照。第二个返回值为false表示没有可用存档。
	Load(ctx context.Context) (economy.GameState, bool, error)

	// LastSaveTime 返回独立于策略、始终保存在本地的最后保存时刻。
	// 它只用于下次加载时的离线收益结算。
	LastSaveTime() (time.Time, bool)

	// FirstRun 标记本地的"已访问"标志并报告这是否是首次运行，控制首次帮助的展示。
	FirstRun() bool
}
