package persistence

import (
	"testing"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
)

func offlineState(passiveIncome, multiplier float64) economy.GameState {
	state := economy.NewGameState()
	state.PassiveIncome = passiveIncome
	state.PrestigeMultiplier = multiplier
	return state
}

func TestOfflineEarningsBasic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	state := offlineState(10, 1.2)

	got := OfflineEarnings(state, now.Add(-3600*time.Second), now)
	if got != 43200 {
		t.Fatalf("offline earnings = %v, want 43200", got)
	}
}

func TestOfflineEarningsCappedAt24Hours(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	state := offlineState(1, 1)

	// 离线一周也只按86400秒结算
	got := OfflineEarnings(state, now.Add(-7*24*time.Hour), now)
	if got != 86400 {
		t.Fatalf("capped earnings = %v, want 86400", got)
	}
}

func TestOfflineEarningsMicroGapIgnored(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	state := offlineState(100, 2)

	cases := []time.Duration{0, 5 * time.Second, 59 * time.Second, 60 * time.Second}
	for _, gap := range cases {
		if got := OfflineEarnings(state, now.Add(-gap), now); got != 0 {
			t.Fatalf("gap %v should earn nothing, got %v", gap, got)
		}
	}

	if got := OfflineEarnings(state, now.Add(-61*time.Second), now); got != 61*100*2 {
		t.Fatalf("61s gap earnings = %v, want %v", got, 61*100*2)
	}
}

func TestOfflineEarningsZeroTimestamp(t *testing.T) {
	state := offlineState(100, 2)
	if got := OfflineEarnings(state, time.Time{}, time.Now()); got != 0 {
		t.Fatalf("zero last-save must earn nothing, got %v", got)
	}
}
