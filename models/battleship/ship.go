package battleship

import (
	"fmt"
	"slices"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type ShipKind uint8

const (
	ShipKindBattleship ShipKind = iota
	ShipKindDestroyer
	ShipKindDestroyerBackup
)

const (
	ShipSizeBattleship      = 5
	ShipSizeDestroyer       = 4
	ShipSizeDestroyerBackup = 4
)

// The fixed fleet, in placement order.
var AllShipKinds = []ShipKind{ShipKindBattleship, ShipKindDestroyer, ShipKindDestroyerBackup}

var shipKindNames = map[ShipKind]string{
	ShipKindBattleship:      "Battleship",
	ShipKindDestroyer:       "Destroyer",
	ShipKindDestroyerBackup: "DestroyerBackup",
}

var shipKindSizes = map[ShipKind]int{
	ShipKindBattleship:      ShipSizeBattleship,
	ShipKindDestroyer:       ShipSizeDestroyer,
	ShipKindDestroyerBackup: ShipSizeDestroyerBackup,
}

func (k ShipKind) IsValid() bool {
	_, ok := shipKindSizes[k]
	return ok
}

func (k ShipKind) String() string {
	if name, ok := shipKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ShipKind(%d)", uint8(k))
}

func (k ShipKind) Size() int {
	return shipKindSizes[k]
}

func (k ShipKind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, cerr.ErrInvalidShipKind(k.String())
	}
	return []byte(k.String()), nil
}

func (k *ShipKind) UnmarshalText(text []byte) error {
	for kind, name := range shipKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return cerr.ErrInvalidShipKind(string(text))
}

type Ship struct {
	Kind   ShipKind      `json:"ship_type"`
	Name   string        `json:"ship_name"`
	Size   int           `json:"ship_size"`
	Anchor Placement     `json:"anchor"`
	Cells  []Coordinates `json:"ship_positions"`
	Health int           `json:"health"`
	IsSunk bool          `json:"is_sunk"`
}

func NewShip(kind ShipKind) (Ship, error) {
	if !kind.IsValid() {
		return Ship{}, cerr.ErrInvalidShipKind(kind.String())
	}

	return Ship{
		Kind:   kind,
		Name:   kind.String(),
		Size:   kind.Size(),
		Health: kind.Size(),
	}, nil
}

func (sh *Ship) Occupies(c Coordinates) bool {
	return slices.Contains(sh.Cells, c)
}

// GotHit takes one point of health and reports whether the ship sank.
func (sh *Ship) GotHit() bool {
	if sh.IsSunk {
		return true
	}

	sh.Health--
	if sh.Health <= 0 {
		sh.Health = 0
		sh.IsSunk = true
	}
	return sh.IsSunk
}

func (sh Ship) clone() Ship {
	sh.Cells = slices.Clone(sh.Cells)
	return sh
}
