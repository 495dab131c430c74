package session

import (
	"sync"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
)

// Store 持有会话中唯一的存活GameState。
// 所有修改都必须经过Mutate走经济模型的转移函数，字段级的写入不对外暴露，
// 以保证“产出永远可由台账重算”的不变量。
// 在抢占式运行时下，互斥锁使每次转移成为一个完整的临界区。
type Store struct {
	mu    sync.Mutex
	state economy.GameState
}

// NewStore 用给定的初始状态创建一个状态容器。
func NewStore(initial economy.GameState) *Store {
	return &Store{state: initial.Clone()}
}

// Get 返回当前状态的深拷贝快照。
func (s *Store) Get() economy.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Replace 用新状态整体覆盖当前状态（用于加载存档）。
func (s *Store) Replace(newState economy.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newState.Clone()
}

// Mutate 在互斥保护下原子地应用一次经济模型转移。
// fn返回错误时，状态恢复为调用前的快照，不产生部分修改。
func (s *Store) Mutate(fn func(*economy.GameState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.state.Clone()
	if err := fn(&s.state); err != nil {
		s.state = backup
		return err
	}
	return nil
}
