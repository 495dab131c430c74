package session

import (
	"testing"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
	"github.com/SlpAus/idle-miner-tycoon-backend/pkg/lifecycle"
)

func TestSchedulerAccruesPassiveIncome(t *testing.T) {
	adapter := &fakeAdapter{}
	sess := newTestSession(adapter, nil)

	seeded := economy.NewGameState()
	seeded.PassiveIncome = 10
	sessStoreReplace(sess, seeded)

	manager := lifecycle.NewManager()
	scheduler := NewScheduler(sess)
	if err := scheduler.Start(manager); err != nil {
		t.Fatalf("unexpected scheduler error: %v", err)
	}

	// 等几个100ms tick
	time.Sleep(450 * time.Millisecond)

	manager.Shutdown()
	if remaining := manager.WaitWithTimeout(2 * time.Second); remaining != nil {
		t.Fatalf("services did not stop: %v", remaining)
	}

	got := sess.State().Currency
	if got < 2 || got > 10 {
		t.Fatalf("accrued currency = %v, expected a few ticks worth (2..10)", got)
	}

	// 停机路径必须补一次最终保存
	if adapter.saveCount() == 0 {
		t.Fatalf("shutdown should flush a final save")
	}
}

func TestSchedulerRejectsDoubleRegistration(t *testing.T) {
	manager := lifecycle.NewManager()
	sess := newTestSession(&fakeAdapter{}, nil)

	if err := NewScheduler(sess).Start(manager); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if err := NewScheduler(sess).Start(manager); err == nil {
		t.Fatalf("second start on the same manager should fail")
	}

	manager.Shutdown()
	manager.WaitWithTimeout(2 * time.Second)
}
