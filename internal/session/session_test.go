package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/persistence"
)

// fakeClock 是测试用的可推进时钟。
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

// fakeAdapter 是内存中的持久化策略替身。
type fakeAdapter struct {
	mu        sync.Mutex
	saves     []economy.GameState
	loadState *economy.GameState
	lastSave  time.Time
	visited   bool
}

func (f *fakeAdapter) Save(ctx context.Context, state economy.GameState) persistence.SaveResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, state.Clone())
	return persistence.SaveResult{Outcome: persistence.OutcomeSaved}
}

func (f *fakeAdapter) Load(ctx context.Context) (economy.GameState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadState == nil {
		return economy.GameState{}, false, nil
	}
	return f.loadState.Clone(), true, nil
}

func (f *fakeAdapter) LastSaveTime() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSave, !f.lastSave.IsZero()
}

func (f *fakeAdapter) FirstRun() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visited {
		return false
	}
	f.visited = true
	return true
}

func (f *fakeAdapter) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func newTestSession(adapter persistence.Adapter, clock Clock) *Session {
	return NewSession(economy.DefaultCatalog(), adapter, clock)
}

func TestClickEarnsAndAccumulates(t *testing.T) {
	sess := newTestSession(&fakeAdapter{}, nil)

	earned := sess.Click()
	if earned != 1 {
		t.Fatalf("first click earned %v, want 1", earned)
	}
	if got := sess.State().Currency; got != 1 {
		t.Fatalf("currency = %v, want 1", got)
	}
}

func TestBuyRejectionDoesNotSave(t *testing.T) {
	adapter := &fakeAdapter{}
	sess := newTestSession(adapter, nil)

	if err := sess.Buy(context.Background(), "betterClicker"); err != economy.ErrInsufficientCurrency {
		t.Fatalf("expected ErrInsufficientCurrency, got %v", err)
	}
	if adapter.saveCount() != 0 {
		t.Fatalf("rejected purchase must not trigger a save")
	}
}

func TestBuySucceedsAndTriggersSave(t *testing.T) {
	adapter := &fakeAdapter{}
	sess := newTestSession(adapter, nil)

	// betterClicker基础价10
	for i := 0; i < 10; i++ {
		sess.Click()
	}
	if err := sess.Buy(context.Background(), "betterClicker"); err != nil {
		t.Fatalf("unexpected buy error: %v", err)
	}

	state := sess.State()
	if state.Upgrades["betterClicker"] != 1 {
		t.Fatalf("upgrade not recorded: %+v", state.Upgrades)
	}
	if state.ClickPower != 2 {
		t.Fatalf("ClickPower = %v, want 2", state.ClickPower)
	}

	// 保存是异步的，等它落地
	deadline := time.Now().Add(2 * time.Second)
	for adapter.saveCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if adapter.saveCount() == 0 {
		t.Fatalf("successful purchase should trigger an async save")
	}
}

func TestLoadRecomputesProductionFromLedger(t *testing.T) {
	// 老版本的增量式存档：clickPower/passiveIncome与台账不一致
	legacy := economy.NewGameState()
	legacy.Currency = 500
	legacy.ClickPower = 9999
	legacy.PassiveIncome = 9999
	legacy.PrestigeLevel = 2
	legacy.PrestigeMultiplier = 42 // 与等级脱节的非法值
	legacy.Upgrades = map[string]int{"betterClicker": 2, "cpuMiner": 1}

	adapter := &fakeAdapter{loadState: &legacy}
	sess := newTestSession(adapter, &fakeClock{now: time.Now()})

	report, err := sess.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if !report.Loaded {
		t.Fatalf("expected a loaded save")
	}

	state := sess.State()
	// clickPower = 1 + 1*(1.0+0.8) = 2.8, passiveIncome = 0.1
	if state.ClickPower != 2.8 {
		t.Fatalf("ClickPower = %v, want recomputed 2.8", state.ClickPower)
	}
	if state.PassiveIncome != 0.1 {
		t.Fatalf("PassiveIncome = %v, want recomputed 0.1", state.PassiveIncome)
	}
	if state.PrestigeMultiplier != 1.2 {
		t.Fatalf("PrestigeMultiplier = %v, want derived 1.2", state.PrestigeMultiplier)
	}
}

func TestLoadAppliesOfflineEarningsOnce(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	saved := economy.NewGameState()
	saved.PassiveIncome = 10
	saved.PrestigeLevel = 2
	saved.Upgrades = map[string]int{"asicMiner": 1}

	adapter := &fakeAdapter{loadState: &saved, lastSave: now.Add(-1 * time.Hour)}
	sess := newTestSession(adapter, &fakeClock{now: now})

	report, err := sess.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	// 重算后passiveIncome=10 (asicMiner一件)，加成1.2: 3600 * 10 * 1.2 = 43200
	if report.OfflineEarned != 43200 {
		t.Fatalf("OfflineEarned = %v, want 43200", report.OfflineEarned)
	}
	if got := sess.State().Currency; got != 43200 {
		t.Fatalf("currency = %v, want 43200", got)
	}
}

func TestLoadWithoutSaveStartsFresh(t *testing.T) {
	adapter := &fakeAdapter{}
	sess := newTestSession(adapter, nil)

	report, err := sess.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if report.Loaded || report.OfflineEarned != 0 {
		t.Fatalf("unexpected report for fresh start: %+v", report)
	}
	if !report.FirstVisit {
		t.Fatalf("first load should report first visit")
	}

	state := sess.State()
	if state.ClickPower != 1 || state.Currency != 0 {
		t.Fatalf("fresh state malformed: %+v", state)
	}
}

func TestPrestigeThroughSession(t *testing.T) {
	adapter := &fakeAdapter{}
	sess := newTestSession(adapter, nil)

	if err := sess.Prestige(context.Background()); err != economy.ErrInsufficientCurrency {
		t.Fatalf("expected ErrInsufficientCurrency, got %v", err)
	}

	rich := economy.NewGameState()
	rich.Currency = 1_000_000
	sessStoreReplace(sess, rich)

	if err := sess.Prestige(context.Background()); err != nil {
		t.Fatalf("unexpected prestige error: %v", err)
	}
	state := sess.State()
	if state.PrestigeLevel != 1 || state.Currency != 0 {
		t.Fatalf("prestige not applied: %+v", state)
	}
}

// sessStoreReplace 直接覆盖会话状态，仅测试使用。
func sessStoreReplace(s *Session, state economy.GameState) {
	s.store.Replace(state)
}
