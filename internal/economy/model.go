package economy

// GameState 是玩家进度的唯一持久化实体。
// 字段的JSON名称即存档的线上格式，客户端与服务端共用。
type GameState struct {
	// Currency 是主资源余额，任何时刻都不为负
	Currency float64 `json:"currency"`

	// ClickPower 是单次点击产出的基础值（未乘声望加成），始终 >= 1
	ClickPower float64 `json:"clickPower"`

	// PassiveIncome 是每秒被动产出的基础值（未乘声望加成），始终 >= 0
	PassiveIncome float64 `json:"passiveIncome"`

	// Rating 是内部的经济平衡分，随购买上升，用于Elo定价
	Rating float64 `json:"rating"`

	// PrestigeLevel 是已完成的重置（硬分叉）次数
	PrestigeLevel int `json:"prestigeLevel"`

	// PrestigeMultiplier 恒等于 1 + PrestigeLevel*0.1，仅在产出时应用
	PrestigeMultiplier float64 `json:"prestigeMultiplier"`

	// Upgrades 是升级ID到已购数量的台账，ClickPower/PassiveIncome总是由它全量重算
	Upgrades map[string]int `json:"upgrades"`
}

// 初始数值
const (
	InitialClickPower = 1.0
	InitialRating     = 1000.0
)

// NewGameState 返回一个全新玩家的初始状态。
func NewGameState() GameState {
	return GameState{
		Currency:           0,
		ClickPower:         InitialClickPower,
		PassiveIncome:      0,
		Rating:             InitialRating,
		PrestigeLevel:      0,
		PrestigeMultiplier: 1,
		Upgrades:           make(map[string]int),
	}
}

// Clone 返回状态的深拷贝，Upgrades台账不与原状态共享。
func (s GameState) Clone() GameState {
	cloned := s
	cloned.Upgrades = make(map[string]int, len(s.Upgrades))
	for id, count := range s.Upgrades {
		cloned.Upgrades[id] = count
	}
	return cloned
}

// Owned 返回某个升级的已购数量，未购买过的升级返回0。
func (s GameState) Owned(upgradeID string) int {
	return s.Upgrades[upgradeID]
}
