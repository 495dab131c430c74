package save

import "gorm.io/gorm"

// PlayerSave 定义了玩家存档在SQLite数据库中的持久化模型。
// 每个玩家一行，保存总是整行覆盖：每次写入携带完整的自洽快照，最新写入获胜。
type PlayerSave struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	// UpdatedAt 即榜单上的 lastUpdated
	gorm.Model

	// UserUUID 引用users表的主键，一个玩家只有一行存档
	UserUUID string `gorm:"uniqueIndex;not null;type:varchar(36)"`

	// SaveData 是完整GameState快照的JSON文本，读档时原样返回
	SaveData string `gorm:"type:text;not null"`

	// --- 以下是从快照中提出的冗余列，用于榜单查询与反作弊审计 ---

	// BaseClickPower 是提交时的基础点击产出
	BaseClickPower float64

	// BasePassiveIncome 是提交时的基础被动产出
	BasePassiveIncome float64

	// PrestigeLevel 是提交时的声望等级
	PrestigeLevel int

	// TotalCurrency 是提交时的货币余额
	TotalCurrency float64

	// RankScore 是服务端计算的排名分
	RankScore float64 `gorm:"index"`
}
