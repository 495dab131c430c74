package economy

import (
	"errors"
	"math"
)

// --- 算法常量 ---

const (
	// eloDivisor 是Elo定价公式中的分母，与对战类Elo公式中的400保持一致
	eloDivisor = 400.0
	// eloMultiplierFloor 是Elo价格系数的下限，防止价格塌缩到零
	eloMultiplierFloor = 0.5

	// ratingGainPerPurchase 是每次购买后玩家Rating的涨幅
	ratingGainPerPurchase = 10.0

	// prestigeBaseCost 是0级硬分叉的价格
	prestigeBaseCost = 1_000_000.0
	// prestigeCostGrowth 是每级硬分叉价格的倍增系数
	prestigeCostGrowth = 5.0
	// prestigeBonusPerLevel 是每级硬分叉带来的产出加成
	prestigeBonusPerLevel = 0.1

	// currencyPrecision 是货币累加后固定保留的小数位数
	// 长时间挂机会做数十万次浮点累加，必须在每次加法后截断漂移
	currencyPrecision = 1e6
)

// 经济模型的拒绝原因
var (
	ErrInsufficientCurrency = errors.New("货币余额不足")
	ErrUnknownUpgrade       = errors.New("未知的升级ID")
)

// RoundCurrency 将货币值舍入到固定的6位小数精度。
func RoundCurrency(value float64) float64 {
	return math.Round(value*currencyPrecision) / currencyPrecision
}

// DiminishingMultiplier 返回同一升级第 ownedBefore+1 件的收益递减系数。
// 依次为 100% / 80% / 60% / 40%，第5件起固定20%。递减按升级ID独立计算。
func DiminishingMultiplier(ownedBefore int) float64 {
	switch {
	case ownedBefore <= 0:
		return 1.0
	case ownedBefore == 1:
		return 0.8
	case ownedBefore == 2:
		return 0.6
	case ownedBefore == 3:
		return 0.4
	default:
		return 0.2
	}
}

// TotalEffect 全量重算某个升级当前提供的总效果。
// 必须始终全量求和而不是增量累加，保证任何时刻都能从台账精确还原。
func TotalEffect(state GameState, def UpgradeDefinition) float64 {
	owned := state.Owned(def.ID)
	if owned <= 0 {
		return 0
	}

	totalEffect := 0.0
	for i := 0; i < owned; i++ {
		totalEffect += def.BaseEffect * DiminishingMultiplier(i)
	}
	return totalEffect
}

// NextEffect 返回再购买一件该升级将获得的边际效果。
func NextEffect(state GameState, def UpgradeDefinition) float64 {
	return def.BaseEffect * DiminishingMultiplier(state.Owned(def.ID))
}

// UpgradeCost 用Elo定价公式计算升级的当前价格。
// 价格 = ceil(基础价 * Elo系数 * 增长系数^已购数)，Elo系数下限0.5。
func UpgradeCost(state GameState, def UpgradeDefinition) float64 {
	ratingDiff := def.Rating - state.Rating
	eloMultiplier := math.Max(eloMultiplierFloor, 1+ratingDiff/eloDivisor)
	ownedMultiplier := math.Pow(def.CostMultiplier, float64(state.Owned(def.ID)))
	return math.Ceil(def.BaseCost * eloMultiplier * ownedMultiplier)
}

// RecalculateProduction 从升级台账全量重算ClickPower与PassiveIncome。
// 点击产出的基础值恒为1，与声望等级无关。
func RecalculateProduction(state *GameState, catalog *Catalog) {
	totalClickPower := InitialClickPower
	totalPassiveIncome := 0.0

	for _, def := range catalog.Definitions() {
		effect := TotalEffect(*state, def)
		switch def.Type {
		case UpgradeTypeClick:
			totalClickPower += effect
		case UpgradeTypePassive:
			totalPassiveIncome += effect
		}
	}

	state.ClickPower = totalClickPower
	state.PassiveIncome = totalPassiveIncome
}

// BuyUpgrade 尝试购买一件升级。
// 成功时扣款、登记台账、全量重算产出并增加Rating；余额不足时不做任何修改。
func BuyUpgrade(state *GameState, catalog *Catalog, upgradeID string) error {
	def, ok := catalog.ByID(upgradeID)
	if !ok {
		return ErrUnknownUpgrade
	}

	cost := UpgradeCost(*state, def)
	if state.Currency < cost {
		return ErrInsufficientCurrency
	}

	state.Currency = RoundCurrency(state.Currency - cost)
	if state.Upgrades == nil {
		state.Upgrades = make(map[string]int)
	}
	state.Upgrades[upgradeID]++

	RecalculateProduction(state, catalog)
	state.Rating += ratingGainPerPurchase
	return nil
}

// PrestigeCost 返回指定声望等级进行硬分叉的价格: 1,000,000 * 5^level。
func PrestigeCost(prestigeLevel int) float64 {
	return prestigeBaseCost * math.Pow(prestigeCostGrowth, float64(prestigeLevel))
}

// PrestigeMultiplierFor 返回指定声望等级对应的产出加成系数。
// 该系数永远从等级推导，不单独演化，避免与等级产生漂移。
func PrestigeMultiplierFor(prestigeLevel int) float64 {
	return 1 + float64(prestigeLevel)*prestigeBonusPerLevel
}

// ApplyPrestige 执行一次硬分叉。
// 仅当余额不低于当前等级的硬分叉价格时才生效：清空进度、等级+1、重算加成系数。
// 余额不足时返回ErrInsufficientCurrency且状态不变。
func ApplyPrestige(state *GameState) error {
	if state.Currency < PrestigeCost(state.PrestigeLevel) {
		return ErrInsufficientCurrency
	}

	state.PrestigeLevel++
	state.PrestigeMultiplier = PrestigeMultiplierFor(state.PrestigeLevel)
	state.Currency = 0
	state.ClickPower = InitialClickPower
	state.PassiveIncome = 0
	state.Rating = InitialRating
	state.Upgrades = make(map[string]int)
	return nil
}

// EarnFromClick 结算一次手动点击的产出并返回产出额。
// 声望加成在产出时应用，而不是在购买时折算进基础值。
func EarnFromClick(state *GameState) float64 {
	earned := state.ClickPower * state.PrestigeMultiplier
	state.Currency = RoundCurrency(state.Currency + earned)
	return earned
}

// EarnFromTick 结算一段时长的被动产出并返回产出额。
func EarnFromTick(state *GameState, elapsedSeconds float64) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	earned := state.PassiveIncome * state.PrestigeMultiplier * elapsedSeconds
	state.Currency = RoundCurrency(state.Currency + earned)
	return earned
}
