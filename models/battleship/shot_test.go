package battleship

import (
	"errors"
	"testing"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

func mustShip(t *testing.T, kind ShipKind, anchor Placement) Ship {
	t.Helper()

	ship, err := NewShip(kind)
	if err != nil {
		t.Fatal(err)
	}
	if !anchor.IsValid(ship.Size) {
		t.Fatalf("invalid test placement for %s: %+v", kind, anchor)
	}
	ship.Anchor = anchor
	ship.Cells = anchor.Expand(ship.Size)
	return ship
}

// testFleet:
// battleship (5,5)-(5,9) right, destroyer (4,1)-(1,1) up,
// backup (9,9)-(9,6) left.
func testFleet(t *testing.T) Fleet {
	t.Helper()

	return Fleet{
		mustShip(t, ShipKindBattleship, NewPlacement(5, 5, DirectionRight)),
		mustShip(t, ShipKindDestroyer, NewPlacement(4, 1, DirectionUp)),
		mustShip(t, ShipKindDestroyerBackup, NewPlacement(9, 9, DirectionLeft)),
	}
}

func TestResolveShotScenario(t *testing.T) {
	tests := []struct {
		name           string
		target         Coordinates
		expectedStatus ShotOutcome
		expectedShip   string
		expectedLen    int
	}{
		{"first battleship hit", Coordinates{5, 5}, ShotOutcomeHit, "Battleship", 1},
		{"row outside grid", Coordinates{12, 5}, ShotOutcomeInvalid, "", 1},
		{"column outside grid", Coordinates{5, 0}, ShotOutcomeInvalid, "", 1},
		{"repeated hit", Coordinates{5, 5}, ShotOutcomeSame, "", 1},
		{"battleship hit 2", Coordinates{5, 6}, ShotOutcomeHit, "Battleship", 2},
		{"battleship hit 3", Coordinates{5, 7}, ShotOutcomeHit, "Battleship", 3},
		{"battleship hit 4", Coordinates{5, 8}, ShotOutcomeHit, "Battleship", 4},
		{"battleship sunk", Coordinates{5, 9}, ShotOutcomeSunk, "Battleship", 5},
		{"water", Coordinates{10, 10}, ShotOutcomeMiss, "", 6},
		{"repeated miss", Coordinates{10, 10}, ShotOutcomeSame, "", 6},
		{"destroyer hit 1", Coordinates{1, 1}, ShotOutcomeHit, "Destroyer", 7},
		{"destroyer hit 2", Coordinates{2, 1}, ShotOutcomeHit, "Destroyer", 8},
		{"destroyer hit 3", Coordinates{3, 1}, ShotOutcomeHit, "Destroyer", 9},
		{"destroyer sunk", Coordinates{4, 1}, ShotOutcomeSunk, "Destroyer", 10},
		{"backup hit 1", Coordinates{9, 6}, ShotOutcomeHit, "DestroyerBackup", 11},
		{"backup hit 2", Coordinates{9, 7}, ShotOutcomeHit, "DestroyerBackup", 12},
		{"backup hit 3", Coordinates{9, 8}, ShotOutcomeHit, "DestroyerBackup", 13},
		{"last ship sunk wins", Coordinates{9, 9}, ShotOutcomeWon, "DestroyerBackup", 14},
		{"shot after win still won", Coordinates{7, 3}, ShotOutcomeWon, "", 15},
		{"repeat after win is same", Coordinates{7, 3}, ShotOutcomeSame, "", 15},
	}

	fleet := testFleet(t)
	var history ShotHistory

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := ResolveShot(fleet, history, test.target)
			if err != nil {
				t.Fatal(err)
			}

			if result.Outcome != test.expectedStatus {
				t.Fatalf("expected status: %s\tgot: %s", test.expectedStatus, result.Outcome)
			}
			if result.DamagedShip != test.expectedShip {
				t.Fatalf("expected damaged ship: %q\tgot: %q", test.expectedShip, result.DamagedShip)
			}
			if len(result.History) != test.expectedLen {
				t.Fatalf("expected history length: %d\tgot: %d", test.expectedLen, len(result.History))
			}
			if (result.Outcome == ShotOutcomeWon) != result.Fleet.AllSunk() {
				t.Fatalf("won reported: %t\tall sunk: %t", result.Outcome == ShotOutcomeWon, result.Fleet.AllSunk())
			}

			fleet = result.Fleet
			history = result.History
		})
	}

	if last := history[len(history)-1]; last.Outcome != ShotOutcomeMiss {
		t.Fatalf("history keeps the outcome at shot time, expected: %s\tgot: %s", ShotOutcomeMiss, last.Outcome)
	}
	if winning := history[13]; winning.Outcome != ShotOutcomeSunk {
		t.Fatalf("expected winning shot recorded as: %s\tgot: %s", ShotOutcomeSunk, winning.Outcome)
	}
}

func TestResolveShotHealth(t *testing.T) {
	fleet := testFleet(t)
	var history ShotHistory

	targets := []Coordinates{{5, 9}, {5, 5}, {5, 7}, {5, 6}, {5, 8}}
	for i, target := range targets {
		result, err := ResolveShot(fleet, history, target)
		if err != nil {
			t.Fatal(err)
		}

		battleship, _ := result.Fleet.Ship(ShipKindBattleship)
		expectedHealth := ShipSizeBattleship - (i + 1)
		if battleship.Health != expectedHealth {
			t.Fatalf("expected health: %d\tgot: %d", expectedHealth, battleship.Health)
		}
		if battleship.IsSunk != (expectedHealth == 0) {
			t.Fatalf("expected sunk: %t\tgot: %t", expectedHealth == 0, battleship.IsSunk)
		}

		for _, kind := range []ShipKind{ShipKindDestroyer, ShipKindDestroyerBackup} {
			other, _ := result.Fleet.Ship(kind)
			if other.Health != kind.Size() {
				t.Fatalf("%s took damage from a shot at the battleship", kind)
			}
		}

		fleet, history = result.Fleet, result.History
	}
}

func TestResolveShotDamagesOwningShip(t *testing.T) {
	fleet := testFleet(t)

	result, err := ResolveShot(fleet, nil, Coordinates{9, 7})
	if err != nil {
		t.Fatal(err)
	}

	if result.Outcome != ShotOutcomeHit || result.DamagedShip != "DestroyerBackup" {
		t.Fatalf("expected hit on DestroyerBackup\tgot: %s on %q", result.Outcome, result.DamagedShip)
	}

	battleship, _ := result.Fleet.Ship(ShipKindBattleship)
	backup, _ := result.Fleet.Ship(ShipKindDestroyerBackup)
	if battleship.Health != ShipSizeBattleship {
		t.Fatalf("battleship health changed to %d", battleship.Health)
	}
	if backup.Health != ShipSizeDestroyerBackup-1 {
		t.Fatalf("expected backup health: %d\tgot: %d", ShipSizeDestroyerBackup-1, backup.Health)
	}
}

func TestResolveShotLeavesInputsUntouched(t *testing.T) {
	fleet := testFleet(t)
	history := ShotHistory{{Coordinates: Coordinates{1, 10}, Outcome: ShotOutcomeMiss}}

	result, err := ResolveShot(fleet, history, Coordinates{5, 5})
	if err != nil {
		t.Fatal(err)
	}

	if fleet[0].Health != ShipSizeBattleship {
		t.Fatalf("caller fleet mutated, health: %d", fleet[0].Health)
	}
	if len(history) != 1 {
		t.Fatalf("caller history mutated, length: %d", len(history))
	}
	if len(result.History) != 2 {
		t.Fatalf("expected history length: %d\tgot: %d", 2, len(result.History))
	}
}

func TestResolveShotNoShips(t *testing.T) {
	_, err := ResolveShot(nil, nil, Coordinates{1, 1})
	if !errors.Is(err, cerr.ErrNoShipsFound) {
		t.Fatalf("expected error: %v\tgot: %v", cerr.ErrNoShipsFound, err)
	}
}

func TestResolveShotInvalidBeforeSame(t *testing.T) {
	fleet := testFleet(t)
	history := ShotHistory{{Coordinates: Coordinates{11, 11}, Outcome: ShotOutcomeMiss}}

	result, err := ResolveShot(fleet, history, Coordinates{11, 11})
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != ShotOutcomeInvalid {
		t.Fatalf("expected status: %s\tgot: %s", ShotOutcomeInvalid, result.Outcome)
	}
	if result.Message != MsgInvalidPosition {
		t.Fatalf("expected message: %q\tgot: %q", MsgInvalidPosition, result.Message)
	}
}
