package battleship

import (
	"fmt"
	"slices"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type ShotOutcome uint8

const (
	ShotOutcomeInvalid ShotOutcome = iota
	ShotOutcomeSame
	ShotOutcomeHit
	ShotOutcomeSunk
	ShotOutcomeMiss
	ShotOutcomeWon
)

const (
	MsgInvalidPosition = "Invalid position."
	MsgSameHit         = "Same hit found."
	MsgWon             = "Won"
)

var shotOutcomeNames = map[ShotOutcome]string{
	ShotOutcomeInvalid: "Invalid",
	ShotOutcomeSame:    "Same",
	ShotOutcomeHit:     "Hit",
	ShotOutcomeSunk:    "Sunk",
	ShotOutcomeMiss:    "Miss",
	ShotOutcomeWon:     "Won",
}

func (o ShotOutcome) String() string {
	if name, ok := shotOutcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("ShotOutcome(%d)", uint8(o))
}

func (o ShotOutcome) MarshalText() ([]byte, error) {
	if _, ok := shotOutcomeNames[o]; !ok {
		return nil, fmt.Errorf("unknown shot outcome: %d", uint8(o))
	}
	return []byte(o.String()), nil
}

func (o *ShotOutcome) UnmarshalText(text []byte) error {
	for outcome, name := range shotOutcomeNames {
		if name == string(text) {
			*o = outcome
			return nil
		}
	}
	return fmt.Errorf("unknown shot outcome: %q", text)
}

type HistoryEntry struct {
	Coordinates
	Outcome ShotOutcome `json:"status"`
}

// ShotHistory is append-only and never holds the same coordinates twice.
type ShotHistory []HistoryEntry

func (h ShotHistory) Contains(c Coordinates) bool {
	return slices.ContainsFunc(h, func(e HistoryEntry) bool {
		return e.Coordinates == c
	})
}

type ShotResult struct {
	Outcome     ShotOutcome `json:"shoot_status"`
	DamagedShip string      `json:"damaged_ship"`
	History     ShotHistory `json:"shoot_history"`

	// Fleet after the shot. Persisted on its own, never sent with the result.
	Fleet   Fleet  `json:"-"`
	Message string `json:"-"`
}

// ResolveShot classifies a shot at target. The given fleet and history
// are left untouched; the updated copies come back in the result.
func ResolveShot(fleet Fleet, history ShotHistory, target Coordinates) (ShotResult, error) {
	if len(fleet) == 0 {
		return ShotResult{}, cerr.ErrNoShipsFound
	}

	result := ShotResult{
		Fleet:   fleet.Clone(),
		History: slices.Clone(history),
	}
	if result.History == nil {
		result.History = ShotHistory{}
	}

	if !target.IsInsideGrid() {
		result.Outcome = ShotOutcomeInvalid
		result.Message = MsgInvalidPosition
		return result, nil
	}

	if result.History.Contains(target) {
		result.Outcome = ShotOutcomeSame
		result.Message = MsgSameHit
		return result, nil
	}

	owner := -1
	for i := range result.Fleet {
		if result.Fleet[i].IsSunk {
			continue
		}
		if result.Fleet[i].Occupies(target) {
			owner = i
			break
		}
	}

	if owner < 0 {
		result.Outcome = ShotOutcomeMiss
	} else {
		ship := &result.Fleet[owner]
		if ship.GotHit() {
			result.Outcome = ShotOutcomeSunk
		} else {
			result.Outcome = ShotOutcomeHit
		}
		result.DamagedShip = ship.Name
	}
	result.History = append(result.History, HistoryEntry{Coordinates: target, Outcome: result.Outcome})

	if result.Fleet.AllSunk() {
		result.Outcome = ShotOutcomeWon
		result.Message = MsgWon
	}

	return result, nil
}
