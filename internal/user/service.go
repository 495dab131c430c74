package user

import (
	"errors"
	"fmt"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProvisionalUser 生成一个临时的、尚未持久化的新玩家UUID。
// 这个UUID将被设置到cookie中，但此时尚未被“认证”。
func CreateProvisionalUser() (string, error) {
	newUUID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("无法生成UUID v7: %w", err)
	}
	return newUUID.String(), nil
}

// IsValidUUID 检查一个字符串是否是合法的UUID格式。
func IsValidUUID(uuidStr string) bool {
	_, err := uuid.Parse(uuidStr)
	return err == nil
}

// IsUserActivated 检查一个给定的UUID是否已经被认证（即存在于持久化系统中）。
// 优先查询Redis缓存；Redis不可用时直接回落到SQLite。
func IsUserActivated(uuidStr string) (bool, error) {
	if uuidStr == "" {
		return false, nil
	}

	if database.IsRedisHealthy() {
		RLockRepository()
		exists, err := database.RDB.SIsMember(database.Ctx, KnownUsersKey, uuidStr).Result()
		RUnlockRepository()
		if err == nil {
			return exists, nil
		}
		fmt.Printf("检查Redis用户缓存时出错，回落到SQLite: %v\n", err)
	}

	var count int64
	if err := database.DB.Model(&User{}).Where("uuid = ?", uuidStr).Count(&count).Error; err != nil {
		return false, fmt.Errorf("检查SQLite用户表时出错: %w", err)
	}
	return count > 0, nil
}

// ActivateUser 将一个临时的UUID正式持久化到数据库和缓存中。
// 这个操作是原子性的，如果缓存写入失败，数据库写入将被回滚。
func ActivateUser(uuidStr string, displayName string) error {
	// 首先检查该玩家是否已经被激活，避免重复写入
	activated, err := IsUserActivated(uuidStr)
	if err != nil {
		return err
	}
	if activated {
		// 已激活玩家允许更新展示名
		if displayName != "" {
			return database.DB.Model(&User{}).Where("uuid = ?", uuidStr).
				Update("display_name", displayName).Error
		}
		return nil
	}

	// 开启一个SQLite事务
	tx := database.DB.Begin()
	if tx.Error != nil {
		return fmt.Errorf("无法开始数据库事务: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback() // 如果发生panic，回滚事务
		}
	}()

	// 在事务中创建数据库记录
	newUser := User{UUID: uuidStr, DisplayName: displayName}
	if err := tx.Create(&newUser).Error; err != nil {
		tx.Rollback()
		// 如果是因为记录已存在而出错，这不是一个真正的错误
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("无法在SQLite中创建新玩家: %w", err)
	}

	// 尝试将新UUID添加到Redis缓存中
	if database.IsRedisHealthy() {
		LockRepository()
		defer UnlockRepository()
		if err := database.RDB.SAdd(database.Ctx, KnownUsersKey, uuidStr).Err(); err != nil {
			// 如果Redis写入失败，回滚SQLite的写入，保证数据一致性
			tx.Rollback()
			return fmt.Errorf("无法将新玩家 %s 添加到Redis缓存: %w", uuidStr, err)
		}
	}

	// 所有操作都成功，提交事务
	return tx.Commit().Error
}

// DisplayNameFor 返回玩家的展示名；没有设置时返回UUID前缀。
func DisplayNameFor(uuidStr string) string {
	var u User
	err := database.DB.Select("display_name").Where("uuid = ?", uuidStr).First(&u).Error
	if err == nil && u.DisplayName != "" {
		return u.DisplayName
	}
	if len(uuidStr) >= 8 {
		return "miner-" + uuidStr[:8]
	}
	return "miner"
}
