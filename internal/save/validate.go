package save

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
)

// ValidationError 描述一次被拒绝的存档提交。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("存档字段 %s 非法: %s", e.Field, e.Reason)
}

// requiredFields 是存档快照必须携带的七个字段。
var requiredFields = []string{
	"currency",
	"clickPower",
	"passiveIncome",
	"rating",
	"prestigeLevel",
	"prestigeMultiplier",
	"upgrades",
}

// ValidateSaveData 校验一份原始存档提交。
// 校验失败时返回ValidationError，任何字段都不会被部分应用。
// 校验通过时返回解析后的GameState。
func ValidateSaveData(raw []byte) (economy.GameState, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return economy.GameState{}, &ValidationError{Field: "save_data", Reason: "必须是一个JSON对象"}
	}

	// 七个必需字段必须全部在场
	for _, field := range requiredFields {
		if _, ok := fields[field]; !ok {
			return economy.GameState{}, &ValidationError{Field: field, Reason: "缺少必需字段"}
		}
	}

	var state economy.GameState
	if err := json.Unmarshal(raw, &state); err != nil {
		return economy.GameState{}, &ValidationError{Field: "save_data", Reason: "字段类型不匹配"}
	}

	if !isFinite(state.Currency) || state.Currency < 0 {
		return economy.GameState{}, &ValidationError{Field: "currency", Reason: "必须是非负数"}
	}
	if !isFinite(state.ClickPower) || state.ClickPower < 1 {
		return economy.GameState{}, &ValidationError{Field: "clickPower", Reason: "必须不小于1"}
	}
	if !isFinite(state.PassiveIncome) || state.PassiveIncome < 0 {
		return economy.GameState{}, &ValidationError{Field: "passiveIncome", Reason: "必须是非负数"}
	}
	if state.PrestigeLevel < 0 {
		return economy.GameState{}, &ValidationError{Field: "prestigeLevel", Reason: "必须是非负整数"}
	}
	// prestigeLevel在JSON中必须是整数而不是小数
	var prestigeRaw float64
	if err := json.Unmarshal(fields["prestigeLevel"], &prestigeRaw); err != nil || prestigeRaw != math.Trunc(prestigeRaw) {
		return economy.GameState{}, &ValidationError{Field: "prestigeLevel", Reason: "必须是非负整数"}
	}
	if state.Upgrades == nil {
		return economy.GameState{}, &ValidationError{Field: "upgrades", Reason: "必须是一个映射"}
	}
	for id, count := range state.Upgrades {
		if count < 0 {
			return economy.GameState{}, &ValidationError{Field: "upgrades", Reason: fmt.Sprintf("升级 %s 的数量为负", id)}
		}
	}

	return state, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// --- 反作弊 ---

const (
	antiCheatDays          = 30
	antiCheatSecondsPerDay = 86400
	antiCheatMaxClicksPS   = 10
	antiCheatTolerance     = 2.0
)

// MaxTheoreticalEarnings 按提交的产出率估算30天不间断游玩的理论货币上限。
// 点击按每秒10次计，被动收益全程累积，两者都乘声望加成。
func MaxTheoreticalEarnings(state economy.GameState) float64 {
	window := float64(antiCheatSecondsPerDay * antiCheatDays)
	maxClickEarnings := state.ClickPower * state.PrestigeMultiplier * antiCheatMaxClicksPS * window
	maxPassiveEarnings := state.PassiveIncome * state.PrestigeMultiplier * window
	return maxClickEarnings + maxPassiveEarnings
}

// IsSuspicious 判断一份存档的货币余额是否超出理论上限的2倍。
// 超出只做标记与记录，不拒绝保存。
func IsSuspicious(state economy.GameState) bool {
	max := MaxTheoreticalEarnings(state)
	if max <= 0 {
		return false
	}
	return state.Currency > max*antiCheatTolerance
}
