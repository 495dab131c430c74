package persistence

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/SlpAus/idle-miner-tycoon-backend/internal/economy"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "save.db"))
	if err != nil {
		t.Fatalf("unexpected error opening local store: %v", err)
	}
	return store
}

func sampleState() economy.GameState {
	state := economy.NewGameState()
	state.Currency = 1234.567891
	state.ClickPower = 7
	state.PassiveIncome = 12.3
	state.Rating = 1120
	state.PrestigeLevel = 2
	state.PrestigeMultiplier = 1.2
	state.Upgrades = map[string]int{"betterClicker": 3, "cpuMiner": 5}
	return state
}

func TestLocalSaveLoadRoundTrip(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()

	state := sampleState()
	result := store.Save(ctx, state)
	if result.Outcome != OutcomeSaved {
		t.Fatalf("save outcome = %v, want saved (err: %v)", result.Outcome, result.Err)
	}

	loaded, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if !found {
		t.Fatalf("expected a save to be found")
	}
	if !reflect.DeepEqual(loaded, state) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", loaded, state)
	}
}

func TestLocalLoadWithoutSave(t *testing.T) {
	store := newTestLocalStore(t)

	_, found, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("empty store should report no save")
	}
}

func TestLocalCorruptSaveTreatedAsAbsent(t *testing.T) {
	store := newTestLocalStore(t)

	if err := store.setSlot(slotSaveGame, "{not json"); err != nil {
		t.Fatalf("unexpected slot write error: %v", err)
	}

	_, found, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("corrupt save must not surface an error, got %v", err)
	}
	if found {
		t.Fatalf("corrupt save must be treated as absent")
	}
}

func TestLocalSaveRecordsTimestamp(t *testing.T) {
	store := newTestLocalStore(t)
	frozen := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	store.clock = func() time.Time { return frozen }

	if _, ok := store.LastSaveTime(); ok {
		t.Fatalf("fresh store should have no timestamp")
	}

	store.Save(context.Background(), economy.NewGameState())

	got, ok := store.LastSaveTime()
	if !ok {
		t.Fatalf("timestamp missing after save")
	}
	if !got.Equal(time.Unix(frozen.Unix(), 0)) {
		t.Fatalf("timestamp = %v, want %v", got, frozen)
	}
}

func TestFirstRunFlagFlipsOnce(t *testing.T) {
	store := newTestLocalStore(t)

	if !store.FirstRun() {
		t.Fatalf("first call should report first run")
	}
	if store.FirstRun() {
		t.Fatalf("second call should not report first run")
	}
}
