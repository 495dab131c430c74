package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/leaderboard"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/database"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertSave 将一份已通过校验的快照整行写入玩家的存档行，并返回排名分。
// 服务端持久化是按玩家身份键控的整行覆盖，后写的完整快照总是获胜，
// 因此并发在途的保存请求之间不需要任何顺序保证。
func UpsertSave(userUUID string, state economy.GameState, raw []byte) (float64, error) {
	rankScore := leaderboard.RankScore(state.Currency, state.PrestigeLevel)

	row := PlayerSave{
		UserUUID:          userUUID,
		SaveData:          string(raw),
		BaseClickPower:    state.ClickPower,
		BasePassiveIncome: state.PassiveIncome,
		PrestigeLevel:     state.PrestigeLevel,
		TotalCurrency:     state.Currency,
		RankScore:         rankScore,
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"save_data", "base_click_power", "base_passive_income",
			"prestige_level", "total_currency", "rank_score", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return 0, fmt.Errorf("无法写入存档行: %w", err)
	}

	// 写穿榜单缓存；Redis不可用时静默跳过，恢复后由健康检查触发全量重建
	leaderboard.UpsertEntry(
		userUUID,
		user.DisplayNameFor(userUUID),
		state.Currency,
		state.PrestigeLevel,
		rankScore,
		time.Now(),
	)

	return rankScore, nil
}

// LoadSave 读取玩家的存档快照。
// 第二个返回值为false表示该玩家没有存档。
func LoadSave(userUUID string) (json.RawMessage, bool, error) {
	var row PlayerSave
	err := database.DB.Where("user_uuid = ?", userUUID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("无法读取存档行: %w", err)
	}

	// 损坏的存档按服务端错误处理，让客户端回落到本地快照
	if !json.Valid([]byte(row.SaveData)) {
		return nil, false, fmt.Errorf("玩家 %s 的存档数据损坏", userUUID)
	}
	return json.RawMessage(row.SaveData), true, nil
}
