package economy

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog([]UpgradeDefinition{
		{ID: "pick", Name: "Pick", BaseEffect: 5, BaseCost: 100, Rating: 1000, Type: UpgradeTypeClick, CostMultiplier: 1.15},
		{ID: "rig", Name: "Rig", BaseEffect: 10, BaseCost: 500, Rating: 1200, Type: UpgradeTypePassive, CostMultiplier: 1.25},
	})
	if err != nil {
		t.Fatalf("unexpected catalog error: %v", err)
	}
	return catalog
}

func TestDiminishingMultiplierLadder(t *testing.T) {
	cases := []struct {
		ownedBefore int
		want        float64
	}{
		{0, 1.0},
		{1, 0.8},
		{2, 0.6},
		{3, 0.4},
		{4, 0.2},
		{5, 0.2},
		{100, 0.2},
	}
	for _, tc := range cases {
		if got := DiminishingMultiplier(tc.ownedBefore); got != tc.want {
			t.Fatalf("DiminishingMultiplier(%d) = %v, want %v", tc.ownedBefore, got, tc.want)
		}
	}
}

func TestTotalEffectPartialSums(t *testing.T) {
	catalog := testCatalog(t)
	def, _ := catalog.ByID("pick")

	// N件同一升级的总效果: baseEffect * (1.0 + 0.8 + 0.6 + 0.4 + 0.2*(N-4))
	cases := []struct {
		owned int
		want  float64
	}{
		{0, 0},
		{1, 5 * 1.0},
		{2, 5 * (1.0 + 0.8)},
		{3, 5 * (1.0 + 0.8 + 0.6)},
		{4, 5 * (1.0 + 0.8 + 0.6 + 0.4)},
		{5, 5 * (1.0 + 0.8 + 0.6 + 0.4 + 0.2)},
		{10, 5 * (1.0 + 0.8 + 0.6 + 0.4 + 0.2*6)},
	}
	for _, tc := range cases {
		state := NewGameState()
		if tc.owned > 0 {
			state.Upgrades["pick"] = tc.owned
		}
		if got := TotalEffect(state, def); !almostEqual(got, tc.want) {
			t.Fatalf("TotalEffect with %d owned = %v, want %v", tc.owned, got, tc.want)
		}
	}
}

func TestRecalculateProductionSplitsByType(t *testing.T) {
	catalog := testCatalog(t)
	state := NewGameState()
	state.Upgrades["pick"] = 2
	state.Upgrades["rig"] = 3

	RecalculateProduction(&state, catalog)

	wantClick := 1 + 5*(1.0+0.8)
	wantPassive := 10 * (1.0 + 0.8 + 0.6)
	if !almostEqual(state.ClickPower, wantClick) {
		t.Fatalf("ClickPower = %v, want %v", state.ClickPower, wantClick)
	}
	if !almostEqual(state.PassiveIncome, wantPassive) {
		t.Fatalf("PassiveIncome = %v, want %v", state.PassiveIncome, wantPassive)
	}
}

func TestUpgradeCostEloFloor(t *testing.T) {
	catalog := testCatalog(t)
	def, _ := catalog.ByID("pick")

	// Rating远超参考分时，Elo系数必须停在0.5而不是继续下降
	state := NewGameState()
	state.Rating = 100000

	got := UpgradeCost(state, def)
	want := math.Ceil(def.BaseCost * 0.5)
	if got != want {
		t.Fatalf("UpgradeCost at huge rating = %v, want floor %v", got, want)
	}
}

func TestUpgradeCostGrowsWithOwnership(t *testing.T) {
	catalog := testCatalog(t)
	def, _ := catalog.ByID("pick")

	state := NewGameState()
	base := UpgradeCost(state, def)

	state.Upgrades["pick"] = 3
	grown := UpgradeCost(state, def)

	want := math.Ceil(def.BaseCost * 1 * math.Pow(1.15, 3))
	if grown != want {
		t.Fatalf("UpgradeCost with 3 owned = %v, want %v", grown, want)
	}
	if grown <= base {
		t.Fatalf("cost should grow with ownership: base %v, grown %v", base, grown)
	}
}

func TestBuyUpgradeSuccess(t *testing.T) {
	catalog := testCatalog(t)
	state := NewGameState()
	state.Currency = 1000

	def, _ := catalog.ByID("pick")
	cost := UpgradeCost(state, def)

	if err := BuyUpgrade(&state, catalog, "pick"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(state.Currency, 1000-cost) {
		t.Fatalf("Currency = %v, want %v", state.Currency, 1000-cost)
	}
	if state.Upgrades["pick"] != 1 {
		t.Fatalf("owned = %d, want 1", state.Upgrades["pick"])
	}
	if !almostEqual(state.ClickPower, 1+5) {
		t.Fatalf("ClickPower = %v, want 6", state.ClickPower)
	}
	if !almostEqual(state.Rating, InitialRating+10) {
		t.Fatalf("Rating = %v, want %v", state.Rating, InitialRating+10)
	}
}

func TestBuyUpgradeRejections(t *testing.T) {
	catalog := testCatalog(t)

	state := NewGameState()
	state.Currency = 1
	before := state.Clone()

	if err := BuyUpgrade(&state, catalog, "pick"); err != ErrInsufficientCurrency {
		t.Fatalf("expected ErrInsufficientCurrency, got %v", err)
	}
	// 被拒绝的购买不得产生任何部分修改
	if state.Currency != before.Currency || state.Rating != before.Rating || len(state.Upgrades) != 0 {
		t.Fatalf("rejected purchase mutated state: %+v", state)
	}

	if err := BuyUpgrade(&state, catalog, "nosuch"); err != ErrUnknownUpgrade {
		t.Fatalf("expected ErrUnknownUpgrade, got %v", err)
	}
}

func TestPrestigeCostTable(t *testing.T) {
	cases := []struct {
		level int
		want  float64
	}{
		{0, 1_000_000},
		{1, 5_000_000},
		{2, 25_000_000},
		{3, 125_000_000},
	}
	for _, tc := range cases {
		if got := PrestigeCost(tc.level); got != tc.want {
			t.Fatalf("PrestigeCost(%d) = %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestApplyPrestigeResetsToBaseline(t *testing.T) {
	catalog := testCatalog(t)
	state := NewGameState()
	state.Currency = 5_200_000
	state.PrestigeLevel = 1
	state.PrestigeMultiplier = 1.1
	state.Rating = 1800
	state.Upgrades["pick"] = 7
	state.Upgrades["rig"] = 4
	RecalculateProduction(&state, catalog)

	if err := ApplyPrestige(&state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if state.PrestigeLevel != 2 {
		t.Fatalf("PrestigeLevel = %d, want 2", state.PrestigeLevel)
	}
	if !almostEqual(state.PrestigeMultiplier, 1.2) {
		t.Fatalf("PrestigeMultiplier = %v, want 1.2", state.PrestigeMultiplier)
	}
	if state.Currency != 0 || state.Rating != InitialRating || len(state.Upgrades) != 0 {
		t.Fatalf("prestige did not reset progress: %+v", state)
	}

	// 重置后的空台账重算必须回到 clickPower=1 / passiveIncome=0，与历史无关
	RecalculateProduction(&state, catalog)
	if state.ClickPower != 1 || state.PassiveIncome != 0 {
		t.Fatalf("fresh production = (%v, %v), want (1, 0)", state.ClickPower, state.PassiveIncome)
	}
}

func TestApplyPrestigeInsufficientIsNoop(t *testing.T) {
	state := NewGameState()
	state.Currency = 999_999
	before := state.Clone()

	if err := ApplyPrestige(&state); err != ErrInsufficientCurrency {
		t.Fatalf("expected ErrInsufficientCurrency, got %v", err)
	}
	if state.Currency != before.Currency || state.PrestigeLevel != before.PrestigeLevel {
		t.Fatalf("rejected prestige mutated state: %+v", state)
	}
}

func TestEarnAppliesPrestigeAtEarnTime(t *testing.T) {
	state := NewGameState()
	state.ClickPower = 10
	state.PassiveIncome = 4
	state.PrestigeLevel = 2
	state.PrestigeMultiplier = PrestigeMultiplierFor(2)

	earned := EarnFromClick(&state)
	if !almostEqual(earned, 12) {
		t.Fatalf("click earned = %v, want 12", earned)
	}
	if !almostEqual(state.Currency, 12) {
		t.Fatalf("Currency = %v, want 12", state.Currency)
	}

	earned = EarnFromTick(&state, 0.1)
	if !almostEqual(earned, 0.48) {
		t.Fatalf("tick earned = %v, want 0.48", earned)
	}
	if !almostEqual(state.Currency, 12.48) {
		t.Fatalf("Currency = %v, want 12.48", state.Currency)
	}
}

func TestEarnFromTickIgnoresNonPositiveElapsed(t *testing.T) {
	state := NewGameState()
	state.PassiveIncome = 100
	if earned := EarnFromTick(&state, 0); earned != 0 || state.Currency != 0 {
		t.Fatalf("zero elapsed should earn nothing")
	}
	if earned := EarnFromTick(&state, -5); earned != 0 || state.Currency != 0 {
		t.Fatalf("negative elapsed should earn nothing")
	}
}

func TestRoundCurrencyBoundsDrift(t *testing.T) {
	state := NewGameState()
	state.PassiveIncome = 0.1

	// 模拟一小时的100ms tick累加，结果必须停留在6位小数精度上
	for i := 0; i < 36000; i++ {
		EarnFromTick(&state, 0.1)
	}
	want := 360.0
	if math.Abs(state.Currency-want) > 1e-3 {
		t.Fatalf("accumulated currency = %v, want ~%v", state.Currency, want)
	}
	if state.Currency != RoundCurrency(state.Currency) {
		t.Fatalf("currency not at fixed precision: %v", state.Currency)
	}
}
