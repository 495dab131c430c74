package session

import (
	"context"
	"fmt"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
	"github.com/SlpAus/idle-miner-tycoon-backend/internal/persistence"
)

// Session 是一个玩家会话：状态容器、升级目录、持久化策略与时钟的组合。
// 所有玩家操作（点击/购买/硬分叉）都在这里经由经济模型的转移函数路由到状态容器。
type Session struct {
	store   *Store
	catalog *economy.Catalog
	adapter persistence.Adapter
	clock   Clock
}

// LoadReport 汇总一次加载的结果，供上层展示欢迎信息。
type LoadReport struct {
	// Loaded 表示是否找到了可用存档（否则从全新状态开始）
	Loaded bool

	// OfflineEarned 是本次加载补发的离线被动收益
	OfflineEarned float64

	// FirstVisit 表示这是本机的首次运行，应当展示新手帮助
	FirstVisit bool
}

// NewSession 创建一个玩家会话，初始为全新状态。
func NewSession(catalog *economy.Catalog, adapter persistence.Adapter, clock Clock) *Session {
	if clock == nil {
		clock = RealClock{}
	}
	return &Session{
		store:   NewStore(economy.NewGameState()),
		catalog: catalog,
		adapter: adapter,
		clock:   clock,
	}
}

// State 返回当前状态的快照。
func (s *Session) State() economy.GameState {
	return s.store.Get()
}

// Catalog 返回会话使用的升级目录。
func (s *Session) Catalog() *economy.Catalog {
	return s.catalog
}

// Click 结算一次手动点击，返回本次产出额。
func (s *Session) Click() float64 {
	var earned float64
	_ = s.store.Mutate(func(state *economy.GameState) error {
		earned = economy.EarnFromClick(state)
		return nil
	})
	return earned
}

// TickIncome 结算一段时长的被动产出（由调度器按固定周期调用）。
func (s *Session) TickIncome(elapsedSeconds float64) float64 {
	var earned float64
	_ = s.store.Mutate(func(state *economy.GameState) error {
		earned = economy.EarnFromTick(state, elapsedSeconds)
		return nil
	})
	return earned
}

// Buy 尝试购买一件升级。购买成功后异步触发一次保存。
func (s *Session) Buy(ctx context.Context, upgradeID string) error {
	err := s.store.Mutate(func(state *economy.GameState) error {
		return economy.BuyUpgrade(state, s.catalog, upgradeID)
	})
	if err != nil {
		return err
	}
	s.SaveAsync(ctx)
	return nil
}

// Prestige 尝试执行一次硬分叉。成功后异步触发一次保存。
func (s *Session) Prestige(ctx context.Context) error {
	err := s.store.Mutate(func(state *economy.GameState) error {
		return economy.ApplyPrestige(state)
	})
	if err != nil {
		return err
	}
	s.SaveAsync(ctx)
	return nil
}

// Load 从持久化策略读取存档并恢复会话状态。
// 加载后产出从台账全量重算、加成系数从等级重新推导——
// 提交上来的clickPower/passiveIncome一律丢弃，老版本的增量式存档由此也能干净导入。
// 最后按本地时间戳结算一次离线收益。
func (s *Session) Load(ctx context.Context) (LoadReport, error) {
	report := LoadReport{}

	loaded, found, err := s.adapter.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("读取存档失败: %w", err)
	}

	state := economy.NewGameState()
	if found {
		state = s.normalize(loaded)
		report.Loaded = true
	}

	if lastSave, ok := s.adapter.LastSaveTime(); ok && found {
		earned := persistence.OfflineEarnings(state, lastSave, s.clock.Now())
		if earned > 0 {
			state.Currency = economy.RoundCurrency(state.Currency + earned)
			report.OfflineEarned = earned
		}
	}

	s.store.Replace(state)
	report.FirstVisit = s.adapter.FirstRun()
	return report, nil
}

// normalize 把任意形状的历史存档恢复成满足不变量的状态。
func (s *Session) normalize(loaded economy.GameState) economy.GameState {
	state := loaded.Clone()
	if state.Upgrades == nil {
		state.Upgrades = make(map[string]int)
	}
	if state.Currency < 0 {
		state.Currency = 0
	}
	if state.PrestigeLevel < 0 {
		state.PrestigeLevel = 0
	}
	if state.Rating <= 0 {
		state.Rating = economy.InitialRating
	}
	state.PrestigeMultiplier = economy.PrestigeMultiplierFor(state.PrestigeLevel)
	economy.RecalculateProduction(&state, s.catalog)
	return state
}

// Save 同步执行一次保存并返回结果。
func (s *Session) Save(ctx context.Context) persistence.SaveResult {
	return s.adapter.Save(ctx, s.store.Get())
}

// SaveAsync 在后台执行一次保存，不阻塞调用方（收益tick在保存期间继续累积）。
// 结果只用于日志与软提示；本地降级保证了它可以安全地即发即忘。
func (s *Session) SaveAsync(ctx context.Context) {
	snapshot := s.store.Get()
	go func() {
		result := s.adapter.Save(ctx, snapshot)
		if result.Outcome != persistence.OutcomeSaved && result.Err != nil {
			fmt.Printf("保存结果 [%s]: %v\n", result.Outcome, result.Err)
		}
	}()
}
