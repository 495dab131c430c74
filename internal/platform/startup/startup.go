package startup

import (
	"fmt"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/leaderboard"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/database"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/metadata"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/save"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/user"
)

// schemaVersion 是当前存档表结构的版本号，随不兼容的迁移递增
const schemaVersion = "1"

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := metadata.PrimeDB(); err != nil {
		return err
	}
	if err := metadata.SetValue(database.DB, metadata.SchemaVersionKey, schemaVersion); err != nil {
		return fmt.Errorf("无法记录存档表结构版本: %w", err)
	}
	if err := user.PrimeCachedDB(); err != nil {
		return err
	}
	if err := save.PrimeDB(); err != nil {
		return err
	}
	if err := leaderboard.PrimeCache(); err != nil {
		return err
	}

	if err := metadata.SetLastCacheRebuild(database.DB, time.Now().Unix()); err != nil {
		fmt.Printf("警告: 无法记录缓存重建时间: %v\n", err)
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 是一个专门用于在运行时热重建Redis缓存的函数
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")
	if lastRebuild, err := metadata.GetLastCacheRebuild(database.DB); err == nil && lastRebuild > 0 {
		fmt.Printf("上一次缓存重建发生在 %s。\n", time.Unix(lastRebuild, 0).Format(time.RFC3339))
	}

	err := func() error {
		user.LockRepository()
		defer user.UnlockRepository()
		if err := user.WarmupCache(); err != nil {
			return err
		}

		leaderboard.LockRepository()
		defer leaderboard.UnlockRepository()
		return leaderboard.WarmupCache()
	}()
	if err != nil {
		return err
	}

	// 缓存代次自增，读侧可据此识别整批条目被替换过
	if err := database.RDB.Incr(database.Ctx, metadata.RedisCacheEpochKey).Err(); err != nil {
		fmt.Printf("警告: 无法更新缓存代次: %v\n", err)
	}
	if err := metadata.SetLastCacheRebuild(database.DB, time.Now().Unix()); err != nil {
		fmt.Printf("警告: 无法记录缓存重建时间: %v\n", err)
	}

	fmt.Println("缓存热重建完成。")
	return nil
}
