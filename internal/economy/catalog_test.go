package economy

import "testing"

func TestDefaultCatalogShape(t *testing.T) {
	catalog := DefaultCatalog()
	if catalog.Size() != 10 {
		t.Fatalf("default catalog size = %d, want 10", catalog.Size())
	}

	clickCount, passiveCount := 0, 0
	for _, def := range catalog.Definitions() {
		switch def.Type {
		case UpgradeTypeClick:
			clickCount++
		case UpgradeTypePassive:
			passiveCount++
		}
	}
	if clickCount != 5 || passiveCount != 5 {
		t.Fatalf("catalog split = (%d click, %d passive), want (5, 5)", clickCount, passiveCount)
	}

	def, ok := catalog.ByID("datacenter")
	if !ok {
		t.Fatalf("datacenter missing from catalog")
	}
	if def.BaseCost != 500000 || def.Rating != 1800 || def.Type != UpgradeTypePassive {
		t.Fatalf("unexpected datacenter record: %+v", def)
	}
}

func TestNewCatalogRejectsBadRecords(t *testing.T) {
	cases := []struct {
		name string
		defs []UpgradeDefinition
	}{
		{"missing id", []UpgradeDefinition{{Name: "x", BaseCost: 1, CostMultiplier: 1.1, Type: UpgradeTypeClick}}},
		{"duplicate id", []UpgradeDefinition{
			{ID: "a", BaseCost: 1, CostMultiplier: 1.1, Type: UpgradeTypeClick},
			{ID: "a", BaseCost: 1, CostMultiplier: 1.1, Type: UpgradeTypeClick},
		}},
		{"bad type", []UpgradeDefinition{{ID: "a", BaseCost: 1, CostMultiplier: 1.1, Type: "aura"}}},
		{"bad cost", []UpgradeDefinition{{ID: "a", BaseCost: 0, CostMultiplier: 1.1, Type: UpgradeTypeClick}}},
		{"shrinking cost", []UpgradeDefinition{{ID: "a", BaseCost: 1, CostMultiplier: 0.9, Type: UpgradeTypeClick}}},
	}
	for _, tc := range cases {
		if _, err := NewCatalog(tc.defs); err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestNextEffectUsesOwnedCount(t *testing.T) {
	catalog := DefaultCatalog()
	def, _ := catalog.ByID("betterClicker")

	state := NewGameState()
	if got := NextEffect(state, def); got != 1.0 {
		t.Fatalf("first purchase effect = %v, want 1.0", got)
	}
	state.Upgrades["betterClicker"] = 4
	if got := NextEffect(state, def); got != 0.2 {
		t.Fatalf("fifth purchase effect = %v, want 0.2", got)
	}
}
