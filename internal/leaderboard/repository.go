package leaderboard

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// --- Redis键名 ---
// 这些定义归属于排行榜仓库，描述它所管理的外部动态数据结构

const (
	// RankingKey 是一个Redis Sorted Set，按RankScore实时排序玩家
	// Score: RankScore, Member: 玩家UUID
	RankingKey = "leaderboard:ranking"

	// EntriesKey 是一个Redis Hash，存储每个玩家的榜单条目
	// Field: 玩家UUID, Value: cachedEntry 的JSON序列化字符串
	EntriesKey = "leaderboard:entries"
)

// cachedEntry 定义了在Redis Hash中缓存的榜单条目。
type cachedEntry struct {
	Username      string  `json:"username"`
	Currency      float64 `json:"currency"`
	PrestigeLevel int     `json:"prestigeLevel"`
	RankScore     float64 `json:"rankScore"`
	LastUpdated   int64   `json:"lastUpdated"`
}

// repoMutex 保护对本模块管理的Redis键的并发访问。
var repoMutex sync.RWMutex

// LockRepository 封装了对模块全局锁的写锁定操作。
func LockRepository() {
	repoMutex.Lock()
}

// UnlockRepository 封装了对模块全局锁的写解锁操作。
func UnlockRepository() {
	repoMutex.Unlock()
}

// UpsertEntry 在一次成功保存后，把玩家的榜单条目写入Redis缓存。
// Redis不可用时静默跳过，SQLite仍然是数据源，缓存会在恢复后全量重建。
func UpsertEntry(userUUID, username string, currency float64, prestigeLevel int, rankScore float64, lastUpdated time.Time) {
	if !database.IsRedisHealthy() {
		return
	}

	repoMutex.Lock()
	defer repoMutex.Unlock()

	entry := cachedEntry{
		Username:      username,
		Currency:      currency,
		PrestigeLevel: prestigeLevel,
		RankScore:     rankScore,
		LastUpdated:   lastUpdated.Unix(),
	}
	entryJSON, _ := json.Marshal(entry)

	pipe := database.RDB.TxPipeline()
	pipe.HSet(database.Ctx, EntriesKey, userUUID, entryJSON)
	pipe.ZAdd(database.Ctx, RankingKey, redis.Z{Score: rankScore, Member: userUUID})
	if _, err := pipe.Exec(database.Ctx); err != nil {
		fmt.Printf("更新排行榜缓存失败，等待下次重建: %v\n", err)
	}
}

// topFromCache 从Redis按RankScore降序读取前limit名玩家的条目。
// 返回的条目保持ZSET顺序，同分时由调用方按LastUpdated做二级排序。
func topFromCache(limit int) ([]cachedEntry, []string, error) {
	repoMutex.RLock()
	defer repoMutex.RUnlock()

	uuids, err := database.RDB.ZRevRange(database.Ctx, RankingKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("无法从Redis读取排名: %w", err)
	}
	if len(uuids) == 0 {
		return nil, nil, nil
	}

	rawEntries, err := database.RDB.HMGet(database.Ctx, EntriesKey, uuids...).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("无法从Redis读取榜单条目: %w", err)
	}

	entries := make([]cachedEntry, 0, len(uuids))
	members := make([]string, 0, len(uuids))
	for i, raw := range rawEntries {
		rawStr, ok := raw.(string)
		if !ok {
			// 条目丢失说明缓存撕裂，让调用方降级到SQLite
			return nil, nil, fmt.Errorf("榜单条目 %s 缺失", uuids[i])
		}
		var entry cachedEntry
		if err := json.Unmarshal([]byte(rawStr), &entry); err != nil {
			return nil, nil, fmt.Errorf("榜单条目 %s 无法解析: %w", uuids[i], err)
		}
		entries = append(entries, entry)
		members = append(members, uuids[i])
	}
	return entries, members, nil
}

// rebuildCacheUnsafe 用给定的条目全量重建Redis缓存。
// 注意：此函数不包含锁，调用方需要在持有写锁或单线程启动时调用。
func rebuildCacheUnsafe(entries map[string]cachedEntry) error {
	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, RankingKey, EntriesKey)

	for uuid, entry := range entries {
		entryJSON, _ := json.Marshal(entry)
		pipe.HSet(database.Ctx, EntriesKey, uuid, entryJSON)
		pipe.ZAdd(database.Ctx, RankingKey, redis.Z{Score: entry.RankScore, Member: uuid})
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("重建排行榜缓存失败: %w", err)
	}
	return nil
}
