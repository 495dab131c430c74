package user

import (
	"time"

	"gorm.io/gorm"
)

// User 定义了玩家在SQLite数据库中的持久化模型。
// 一行对应一个玩家身份，存档表通过UUID外键引用它。
type User struct {
	// UUID 是玩家的主键，来自客户端Cookie。
	UUID string `gorm:"primarykey;type:varchar(36)"`

	// DisplayName 是展示在排行榜上的名字，为空时用UUID前缀代替。
	DisplayName string `gorm:"type:varchar(64)"`

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
