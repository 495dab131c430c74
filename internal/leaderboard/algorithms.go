package leaderboard

import "math"

// --- 算法常量 ---

const (
	// rankScoreCurrencyWeight 是对数货币项的权重
	rankScoreCurrencyWeight = 1000.0
	// rankScorePrestigeBonus 是每级声望的线性加分
	rankScorePrestigeBonus = 10000.0
)

// RankScore 计算玩家的排名分。
// 分数 = log10(货币+1) * 1000 + 声望等级 * 10000。
// 对数项刻意压缩货币量级：声望领先的玩家总是排在只有裸货币的玩家之前。
func RankScore(currency float64, prestigeLevel int) float64 {
	if currency < 0 {
		currency = 0
	}
	baseScore := math.Log10(currency+1) * rankScoreCurrencyWeight
	prestigeBonus := float64(prestigeLevel) * rankScorePrestigeBonus
	return baseScore + prestigeBonus
}

// ClampLimit 将请求的榜单长度收敛到[1, maxLimit]，非法值回落到defaultLimit。
func ClampLimit(requested, defaultLimit, maxLimit int) int {
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit < 1 || defaultLimit > maxLimit {
		defaultLimit = 10
	}
	if requested <= 0 {
		return defaultLimit
	}
	if requested > maxLimit {
		return maxLimit
	}
	return requested
}
