package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/saeidalz13/battleship-solo/internal/cache"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

type countingAnalytics struct {
	mu     sync.Mutex
	fleets int
	shots  int
}

func (c *countingAnalytics) RecordFleetPlaced(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fleets++
	return nil
}

func (c *countingAnalytics) RecordShotFired(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shots++
	return nil
}

type failingPlacer struct {
	err error
}

func (f failingPlacer) PlaceFleet([]mb.ShipKind) (mb.Fleet, error) {
	return nil, f.err
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *cache.MemoryStore) {
	t.Helper()

	store := cache.NewMemoryStore()
	opts = append([]Option{WithPlacer(mb.NewRandomFleetPlacer(mb.NewRandomSource(7)))}, opts...)
	return NewManager(store, opts...), store
}

// firstMiss finds a cell no ship of fleet occupies.
func firstMiss(t *testing.T, fleet mb.Fleet) mb.Coordinates {
	t.Helper()

	for row := mb.GridLowerBound; row <= mb.GridUpperBound; row++ {
		for column := mb.GridLowerBound; column <= mb.GridUpperBound; column++ {
			c := mb.NewCoordinates(row, column)
			if !fleet.IsOccupied(c) {
				return c
			}
		}
	}
	t.Fatal("fleet covers the whole grid")
	return mb.Coordinates{}
}

func TestPlaceFleetStoresFleet(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	resp, err := manager.PlaceFleet(ctx, "player-1")
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatalf("expected successful placement, got: %+v", resp)
	}
	if len(*resp.Data) != len(mb.AllShipKinds) {
		t.Fatalf("expected ships: %d\tgot: %d", len(mb.AllShipKinds), len(*resp.Data))
	}

	encoded, ok, err := store.Get(ctx, "player-1-AllShips")
	if err != nil || !ok {
		t.Fatalf("fleet not stored, ok: %t err: %v", ok, err)
	}
	var stored mb.Fleet
	if err := json.Unmarshal(encoded, &stored); err != nil {
		t.Fatal(err)
	}
	for i, ship := range stored {
		if ship.Kind != mb.AllShipKinds[i] || len(ship.Cells) != ship.Size {
			t.Fatalf("unexpected stored ship: %+v", ship)
		}
	}
}

func TestPlaceFleetResetsHistory(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	placed, _ := manager.PlaceFleet(ctx, "player-1")
	miss := firstMiss(t, *placed.Data)
	if _, err := manager.Shoot(ctx, "player-1", miss.Row, miss.Column); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, "player-1-ShootResult"); !ok {
		t.Fatal("expected shot result to be stored")
	}

	if _, err := manager.PlaceFleet(ctx, "player-1"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, "player-1-ShootResult"); ok {
		t.Fatal("placing a new fleet must drop the old history")
	}
}

func TestShootWithoutFleet(t *testing.T) {
	manager, _ := newTestManager(t)

	resp, err := manager.Shoot(context.Background(), "nobody", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Success || resp.Data != nil {
		t.Fatalf("expected failed result, got: %+v", resp)
	}
	if resp.Message != mc.MsgNoFleetFound {
		t.Fatalf("expected message: %q\tgot: %q", mc.MsgNoFleetFound, resp.Message)
	}
}

func TestMissingSessionKey(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.PlaceFleet(ctx, ""); !errors.Is(err, cerr.ErrMissingSessionKey) {
		t.Fatalf("expected error: %v\tgot: %v", cerr.ErrMissingSessionKey, err)
	}
	if _, err := manager.Shoot(ctx, " ", 1, 1); !errors.Is(err, cerr.ErrMissingSessionKey) {
		t.Fatalf("expected error: %v\tgot: %v", cerr.ErrMissingSessionKey, err)
	}
	if err := manager.Forget(ctx, ""); !errors.Is(err, cerr.ErrMissingSessionKey) {
		t.Fatalf("expected error: %v\tgot: %v", cerr.ErrMissingSessionKey, err)
	}
}

func TestPlaceFleetNoSpace(t *testing.T) {
	manager, _ := newTestManager(t, WithPlacer(failingPlacer{err: cerr.ErrNoSpaceForShip("Battleship", 3)}))

	resp, err := manager.PlaceFleet(context.Background(), "player-1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Success || resp.Message != mc.MsgNotEnoughSpace {
		t.Fatalf("expected failed result %q, got: %+v", mc.MsgNotEnoughSpace, resp)
	}
}

func TestShootPlaysGameToWin(t *testing.T) {
	analytics := &countingAnalytics{}
	manager, _ := newTestManager(t, WithAnalytics(analytics))
	ctx := context.Background()

	placed, err := manager.PlaceFleet(ctx, "player-1")
	if err != nil {
		t.Fatal(err)
	}
	fleet := *placed.Data

	resp, err := manager.Shoot(ctx, "player-1", 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data.Outcome != mb.ShotOutcomeInvalid || resp.Message != mb.MsgInvalidPosition {
		t.Fatalf("expected invalid shot, got: %+v", resp)
	}

	var shots int
	var last mc.RespShot
	for _, ship := range fleet {
		for _, cell := range ship.Cells {
			last, err = manager.Shoot(ctx, "player-1", cell.Row, cell.Column)
			if err != nil {
				t.Fatal(err)
			}
			shots++
			if len(last.Data.History) != shots {
				t.Fatalf("expected history length: %d\tgot: %d", shots, len(last.Data.History))
			}
			if last.Data.DamagedShip != ship.Name {
				t.Fatalf("expected damaged ship: %s\tgot: %s", ship.Name, last.Data.DamagedShip)
			}
		}
	}

	if last.Data.Outcome != mb.ShotOutcomeWon || last.Message != mb.MsgWon {
		t.Fatalf("expected win, got: %s %q", last.Data.Outcome, last.Message)
	}

	first := fleet[0].Cells[0]
	again, err := manager.Shoot(ctx, "player-1", first.Row, first.Column)
	if err != nil {
		t.Fatal(err)
	}
	if again.Data.Outcome != mb.ShotOutcomeSame || again.Message != mb.MsgSameHit {
		t.Fatalf("expected same hit, got: %s %q", again.Data.Outcome, again.Message)
	}

	if analytics.fleets != 1 || analytics.shots != shots {
		t.Fatalf("expected analytics fleets: 1 shots: %d\tgot fleets: %d shots: %d", shots, analytics.fleets, analytics.shots)
	}
}

func TestForget(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()

	placed, _ := manager.PlaceFleet(ctx, "player-1")
	miss := firstMiss(t, *placed.Data)
	_, _ = manager.Shoot(ctx, "player-1", miss.Row, miss.Column)

	if err := manager.Forget(ctx, "player-1"); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, len: %d", store.Len())
	}

	resp, _ := manager.Shoot(ctx, "player-1", miss.Row, miss.Column)
	if resp.Success {
		t.Fatal("shooting a forgotten session must fail")
	}
}

func TestConcurrentShotsAreSerialized(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := manager.PlaceFleet(ctx, "player-1"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for row := mb.GridLowerBound; row <= mb.GridUpperBound; row++ {
		for column := mb.GridLowerBound; column <= mb.GridUpperBound; column++ {
			wg.Add(1)
			go func(row, column int) {
				defer wg.Done()
				if _, err := manager.Shoot(ctx, "player-1", row, column); err != nil {
					t.Error(err)
				}
			}(row, column)
		}
	}
	wg.Wait()

	// every cell of the grid is already in the history now
	resp, err := manager.Shoot(ctx, "player-1", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Data.History) != mb.GridSize*mb.GridSize {
		t.Fatalf("lost updates, expected history length: %d\tgot: %d", mb.GridSize*mb.GridSize, len(resp.Data.History))
	}
	if resp.Data.Outcome != mb.ShotOutcomeSame {
		t.Fatalf("expected status: %s\tgot: %s", mb.ShotOutcomeSame, resp.Data.Outcome)
	}
}

var errStorageUnavailable = errors.New("storage unavailable")

// flakyStore fails every write that touches a shot result while failing
// is set.
type flakyStore struct {
	*cache.MemoryStore
	failing atomic.Bool
}

func (f *flakyStore) touchesShotResult(keys ...string) bool {
	for _, key := range keys {
		if strings.HasSuffix(key, string(cache.NamespaceShootResult)) {
			return true
		}
	}
	return false
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if f.failing.Load() && f.touchesShotResult(key) {
		return errStorageUnavailable
	}
	return f.MemoryStore.Set(ctx, key, value, ttl)
}

func (f *flakyStore) SetMany(ctx context.Context, ttl time.Duration, entries ...cache.Entry) error {
	keys := make([]string, len(entries))
	for i, entry := range entries {
		keys[i] = entry.Key
	}
	if f.failing.Load() && f.touchesShotResult(keys...) {
		return errStorageUnavailable
	}
	return f.MemoryStore.SetMany(ctx, ttl, entries...)
}

func TestFailedShotWriteLeavesNoDamage(t *testing.T) {
	store := &flakyStore{MemoryStore: cache.NewMemoryStore()}
	manager := NewManager(store, WithPlacer(mb.NewRandomFleetPlacer(mb.NewRandomSource(7))))
	ctx := context.Background()

	placed, err := manager.PlaceFleet(ctx, "player-1")
	if err != nil {
		t.Fatal(err)
	}
	target := (*placed.Data)[0].Cells[0]

	store.failing.Store(true)
	if _, err := manager.Shoot(ctx, "player-1", target.Row, target.Column); !errors.Is(err, errStorageUnavailable) {
		t.Fatalf("expected error: %v\tgot: %v", errStorageUnavailable, err)
	}
	store.failing.Store(false)

	retry, err := manager.Shoot(ctx, "player-1", target.Row, target.Column)
	if err != nil {
		t.Fatal(err)
	}
	if retry.Data.Outcome != mb.ShotOutcomeHit || len(retry.Data.History) != 1 {
		t.Fatalf("expected first hit with one history entry\tgot: %s with %d", retry.Data.Outcome, len(retry.Data.History))
	}

	battleship, _ := retry.Data.Fleet.Ship(mb.ShipKindBattleship)
	if battleship.Health != mb.ShipSizeBattleship-1 {
		t.Fatalf("one coordinate damaged the ship more than once, health: %d", battleship.Health)
	}
}

// slowStore widens the window between reading and writing a session.
type slowStore struct {
	*cache.MemoryStore
}

func (s slowStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok, err := s.MemoryStore.Get(ctx, key)
	time.Sleep(time.Millisecond * 5)
	return value, ok, err
}

func TestManagersSharingStoreSerializeShots(t *testing.T) {
	store := slowStore{MemoryStore: cache.NewMemoryStore()}
	first := NewManager(store, WithPlacer(mb.NewRandomFleetPlacer(mb.NewRandomSource(3))))
	second := NewManager(store)
	ctx := context.Background()

	if _, err := first.PlaceFleet(ctx, "player-1"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i, manager := range []*Manager{first, second} {
		column := i + 1
		for row := mb.GridLowerBound; row <= mb.GridUpperBound; row++ {
			wg.Add(1)
			go func(manager *Manager, row int) {
				defer wg.Done()
				if _, err := manager.Shoot(ctx, "player-1", row, column); err != nil {
					t.Error(err)
				}
			}(manager, row)
		}
	}
	wg.Wait()

	resp, err := second.Shoot(ctx, "player-1", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Data.History) != 2*mb.GridSize {
		t.Fatalf("lost updates, expected history length: %d\tgot: %d", 2*mb.GridSize, len(resp.Data.History))
	}
}

// plainStore hides the Lock method of the store it wraps.
type plainStore struct {
	cache.Store
}

func TestManagerFallsBackToProcessLock(t *testing.T) {
	memory := cache.NewMemoryStore()

	if _, ok := NewManager(memory).locker.(*cache.MemoryStore); !ok {
		t.Fatal("expected a locking store to serialize keys itself")
	}
	if _, ok := NewManager(plainStore{Store: memory}).locker.(*cache.KeyLocker); !ok {
		t.Fatal("expected a store without locks to fall back to a process lock")
	}
}
