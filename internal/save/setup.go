package save

import (
	"fmt"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/database"
)

// PrimeDB 负责初始化save模块的数据库部分
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&PlayerSave{}); err != nil {
		return fmt.Errorf("无法迁移player_saves表: %w", err)
	}
	fmt.Println("PlayerSave数据库表迁移成功。")
	return nil
}
