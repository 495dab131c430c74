package persistence

import (
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
)

const (
	// offlineCap 是离线收益可结算的最长离线时长
	offlineCap = 24 * time.Hour
	// offlineMinGap 是触发离线结算的最小间隔，过滤切换标签页产生的微小间隙
	offlineMinGap = 60 * time.Second
)

// OfflineEarnings 计算一次加载时应补发的离线被动收益。
// 收益 = min(now-lastSave, 24h) * passiveIncome * prestigeMultiplier，
// 间隔不超过60秒时不结算。结果只应用一次，调用方负责入账。
func OfflineEarnings(state economy.GameState, lastSave, now time.Time) float64 {
	if lastSave.IsZero() || !now.After(lastSave) {
		return 0
	}

	gap := now.Sub(lastSave)
	if gap <= offlineMinGap {
		return 0
	}
	if gap > offlineCap {
		gap = offlineCap
	}

	earned := gap.Seconds() * state.PassiveIncome * state.PrestigeMultiplier
	return economy.RoundCurrency(earned)
}
