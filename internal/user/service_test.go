package user

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/platform/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 把全局数据库句柄指向一个临时SQLite文件，
// 并把Redis标记为不可用，使所有读写都走SQLite回落路径。
func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrate user table: %v", err)
	}
	database.DB = db
	database.UpdateStatus(false, "")
}

func TestActivateUserSqliteFallback(t *testing.T) {
	setupTestDB(t)

	uuidStr, err := CreateProvisionalUser()
	if err != nil {
		t.Fatalf("create provisional user: %v", err)
	}

	activated, err := IsUserActivated(uuidStr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activated {
		t.Fatalf("临时UUID在激活前不应是已知玩家")
	}

	if err := ActivateUser(uuidStr, "深矿老王"); err != nil {
		t.Fatalf("activate user: %v", err)
	}

	activated, err = IsUserActivated(uuidStr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !activated {
		t.Fatalf("激活后的UUID应当是已知玩家")
	}
	if got := DisplayNameFor(uuidStr); got != "深矿老王" {
		t.Fatalf("DisplayNameFor = %q, 期望 深矿老王", got)
	}
}

func TestActivateUserUpdatesDisplayName(t *testing.T) {
	setupTestDB(t)

	uuidStr, _ := CreateProvisionalUser()
	if err := ActivateUser(uuidStr, ""); err != nil {
		t.Fatalf("activate user: %v", err)
	}

	// 未设置展示名时回落到UUID前缀
	want := "miner-" + uuidStr[:8]
	if got := DisplayNameFor(uuidStr); got != want {
		t.Fatalf("DisplayNameFor = %q, 期望 %q", got, want)
	}

	// 再次激活可以补设展示名
	if err := ActivateUser(uuidStr, "矿工甲"); err != nil {
		t.Fatalf("re-activate user: %v", err)
	}
	if got := DisplayNameFor(uuidStr); got != "矿工甲" {
		t.Fatalf("DisplayNameFor = %q, 期望 矿工甲", got)
	}
}

func TestDisplayNameForUnknownUser(t *testing.T) {
	setupTestDB(t)

	uuidStr, _ := CreateProvisionalUser()
	want := "miner-" + uuidStr[:8]
	if got := DisplayNameFor(uuidStr); got != want {
		t.Fatalf("DisplayNameFor = %q, 期望 %q", got, want)
	}
}

// 激活检查与仓库锁的持有者可以安全并发。
func TestIsUserActivatedConcurrentWithRepositoryLock(t *testing.T) {
	setupTestDB(t)

	uuidStr, _ := CreateProvisionalUser()
	if err := ActivateUser(uuidStr, ""); err != nil {
		t.Fatalf("activate user: %v", err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := IsUserActivated(uuidStr); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				LockRepository()
				UnlockRepository()
				RLockRepository()
				RUnlockRepository()
			}
		}()
	}
	wg.Wait()
}
