package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// 本地存储槽位的键名：一个存档槽、一个时间戳槽、一个首次访问标志槽。
const (
	slotSaveGame     = "miner_save"
	slotLastSaveTime = "miner_last_save_time"
	slotVisited      = "miner_visited"
)

// Slot 定义了本地键值槽位的表结构。
type Slot struct {
	gorm.Model

	Key   string `gorm:"uniqueIndex;not null;type:varchar(255)"`
	Value string `gorm:"type:text"`
}

// LocalStore 是本地持久化策略：把状态序列化进本机SQLite文件的键值槽位。
// 它的失败模式只有"当作无存档处理"，不需要向调用方传播错误。
type LocalStore struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewLocalStore 打开（必要时创建）本地存档数据库。
func NewLocalStore(path string) (*LocalStore, error) {
	silentLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{LogLevel: logger.Silent},
	)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: silentLogger})
	if err != nil {
		return nil, fmt.Errorf("无法打开本地存档数据库: %w", err)
	}
	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, fmt.Errorf("无法迁移本地存档槽位表: %w", err)
	}
	return &LocalStore{db: db, clock: time.Now}, nil
}

// setSlot 原子地写入一个槽位。
func (ls *LocalStore) setSlot(key, value string) error {
	slot := Slot{Key: key, Value: value}
	return ls.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&slot).Error
}

// getSlot 读取一个槽位，不存在时返回空字符串。
func (ls *LocalStore) getSlot(key string) (string, error) {
	var slot Slot
	err := ls.db.Where("key = ?", key).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return slot.Value, nil
}

// Save 将完整快照写入本地槽位并刷新最后保存时刻。
func (ls *LocalStore) Save(ctx context.Context, state economy.GameState) SaveResult {
	ls.touchLastSaveTime()

	payload, err := json.Marshal(state)
	if err != nil {
		// 序列化固定结构不应失败；保守起见按降级记录而不是panic
		return SaveResult{Outcome: OutcomeDegradedToLocal, Err: fmt.Errorf("无法序列化存档: %w", err)}
	}
	if err := ls.setSlot(slotSaveGame, string(payload)); err != nil {
		return SaveResult{Outcome: OutcomeDegradedToLocal, Err: fmt.Errorf("无法写入本地存档槽位: %w", err)}
	}
	return SaveResult{Outcome: OutcomeSaved}
}

// Load 读取本地快照。损坏的存档按"无存档"处理并打印日志，游戏从头开始而不是崩溃。
func (ls *LocalStore) Load(ctx context.Context) (economy.GameState, bool, error) {
	raw, err := ls.getSlot(slotSaveGame)
	if err != nil {
		return economy.GameState{}, false, fmt.Errorf("无法读取本地存档槽位: %w", err)
	}
	if raw == "" {
		return economy.GameState{}, false, nil
	}

	var state economy.GameState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		fmt.Printf("本地存档损坏，按无存档处理: %v\n", err)
		return economy.GameState{}, false, nil
	}
	return state, true, nil
}

// touchLastSaveTime 独立于所选策略，始终在本地记录最后保存时刻。
func (ls *LocalStore) touchLastSaveTime() {
	now := ls.clock().Unix()
	if err := ls.setSlot(slotLastSaveTime, strconv.FormatInt(now, 10)); err != nil {
		fmt.Printf("无法记录最后保存时刻: %v\n", err)
	}
}

// LastSaveTime 返回最后保存时刻；从未保存过时第二个返回值为false。
func (ls *LocalStore) LastSaveTime() (time.Time, bool) {
	raw, err := ls.getSlot(slotLastSaveTime)
	if err != nil || raw == "" {
		return time.Time{}, false
	}
	epoch, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Printf("最后保存时刻槽位损坏，忽略: %v\n", err)
		return time.Time{}, false
	}
	return time.Unix(epoch, 0), true
}

// FirstRun 标记已访问标志，并报告本次是否为首次运行。
func (ls *LocalStore) FirstRun() bool {
	raw, err := ls.getSlot(slotVisited)
	if err != nil {
		return false
	}
	if raw != "" {
		return false
	}
	if err := ls.setSlot(slotVisited, "true"); err != nil {
		fmt.Printf("无法写入已访问标志: %v\n", err)
	}
	return true
}
