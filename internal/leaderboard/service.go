package leaderboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/database"
)

// Entry 是一条对外的榜单记录。
type Entry struct {
	Rank          int     `json:"rank"`
	Username      string  `json:"username"`
	Currency      float64 `json:"currency"`
	PrestigeLevel int     `json:"prestigeLevel"`
	RankScore     float64 `json:"rankScore"`
	LastUpdated   string  `json:"lastUpdated"`
}

// savedRow 是从SQLite读取榜单数据的只读投影。
// 用独立的读模型避免反向依赖存档模块。
type savedRow struct {
	UserUUID      string
	DisplayName   string
	TotalCurrency float64
	PrestigeLevel int
	RankScore     float64
	UpdatedAt     time.Time
}

// tieOverfetch 是从ZSET多取的条目数。
// ZSET只按分数排序，截断页边界上的同分组前必须先看到组内全部成员，
// 否则与SQLite路径的全局二级排序可能选出不同的人。
const tieOverfetch = 16

// Top 返回前limit名玩家，按RankScore降序。
// 同分时按LastUpdated升序（先到先排），保证结果确定。
// Redis健康时从缓存读取，否则直接查询SQLite。
func Top(limit int) ([]Entry, error) {
	if database.IsRedisHealthy() {
		entries, members, err := topFromCache(limit + tieOverfetch)
		if err == nil {
			return formatCached(entries, members, limit), nil
		}
		fmt.Printf("排行榜缓存读取失败，降级到SQLite: %v\n", err)
	}
	return topFromDB(limit)
}

// formatCached 把缓存条目转换为对外记录：应用二级排序后截断到limit。
func formatCached(entries []cachedEntry, members []string, limit int) []Entry {
	type pair struct {
		entry  cachedEntry
		member string
	}
	pairs := make([]pair, len(entries))
	for i := range entries {
		pairs[i] = pair{entry: entries[i], member: members[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].entry.RankScore != pairs[j].entry.RankScore {
			return pairs[i].entry.RankScore > pairs[j].entry.RankScore
		}
		return pairs[i].entry.LastUpdated < pairs[j].entry.LastUpdated
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}

	result := make([]Entry, len(pairs))
	for i, p := range pairs {
		result[i] = Entry{
			Rank:          i + 1,
			Username:      p.entry.Username,
			Currency:      p.entry.Currency,
			PrestigeLevel: p.entry.PrestigeLevel,
			RankScore:     p.entry.RankScore,
			LastUpdated:   time.Unix(p.entry.LastUpdated, 0).UTC().Format(time.RFC3339),
		}
	}
	return result
}

// topFromDB 直接从SQLite查询榜单（Redis不可用时的降级路径）。
func topFromDB(limit int) ([]Entry, error) {
	var rows []savedRow
	err := database.DB.
		Table("player_saves").
		Select("player_saves.user_uuid, users.display_name, player_saves.total_currency, player_saves.prestige_level, player_saves.rank_score, player_saves.updated_at").
		Joins("LEFT JOIN users ON users.uuid = player_saves.user_uuid").
		Where("player_saves.deleted_at IS NULL").
		Order("player_saves.rank_score DESC, player_saves.updated_at ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("无法从SQLite查询排行榜: %w", err)
	}

	result := make([]Entry, len(rows))
	for i, row := range rows {
		username := row.DisplayName
		if username == "" && len(row.UserUUID) >= 8 {
			username = "miner-" + row.UserUUID[:8]
		}
		result[i] = Entry{
			Rank:          i + 1,
			Username:      username,
			Currency:      row.TotalCurrency,
			PrestigeLevel: row.PrestigeLevel,
			RankScore:     row.RankScore,
			LastUpdated:   row.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	return result, nil
}

// WarmupCache 从SQLite全量重建Redis榜单缓存。
// 注意：此函数不包含锁，调用方需要确保在安全的时机调用。
func WarmupCache() error {
	var rows []savedRow
	err := database.DB.
		Table("player_saves").
		Select("player_saves.user_uuid, users.display_name, player_saves.total_currency, player_saves.prestige_level, player_saves.rank_score, player_saves.updated_at").
		Joins("LEFT JOIN users ON users.uuid = player_saves.user_uuid").
		Where("player_saves.deleted_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("无法从SQLite读取存档数据: %w", err)
	}

	entries := make(map[string]cachedEntry, len(rows))
	for _, row := range rows {
		username := row.DisplayName
		if username == "" && len(row.UserUUID) >= 8 {
			username = "miner-" + row.UserUUID[:8]
		}
		entries[row.UserUUID] = cachedEntry{
			Username:      username,
			Currency:      row.TotalCurrency,
			PrestigeLevel: row.PrestigeLevel,
			RankScore:     row.RankScore,
			LastUpdated:   row.UpdatedAt.Unix(),
		}
	}

	if err := rebuildCacheUnsafe(entries); err != nil {
		return err
	}
	fmt.Printf("成功预热 %d 条榜单条目到Redis。\n", len(entries))
	return nil
}
