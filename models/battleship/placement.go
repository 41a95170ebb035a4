package battleship

import (
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// A 10x10 grid with the fixed fleet finds a layout within a handful of
// draws. The ceiling only exists so a broken source cannot spin forever.
const DefaultMaxPlacementAttempts = 10_000

type FleetPlacer interface {
	PlaceFleet(kinds []ShipKind) (Fleet, error)
}

type RandomFleetPlacer struct {
	source      RandomSource
	maxAttempts int
}

var _ FleetPlacer = (*RandomFleetPlacer)(nil)

type PlacerOption func(*RandomFleetPlacer)

func WithMaxAttempts(attempts int) PlacerOption {
	return func(p *RandomFleetPlacer) {
		if attempts > 0 {
			p.maxAttempts = attempts
		}
	}
}

func NewRandomFleetPlacer(source RandomSource, opts ...PlacerOption) *RandomFleetPlacer {
	if source == nil {
		source = NewTimeSeededSource()
	}

	placer := &RandomFleetPlacer{
		source:      source,
		maxAttempts: DefaultMaxPlacementAttempts,
	}
	for _, opt := range opts {
		opt(placer)
	}
	return placer
}

// PlaceFleet lays the given kinds out one after another. A ship that
// cannot be placed never undoes the ships placed before it.
func (p *RandomFleetPlacer) PlaceFleet(kinds []ShipKind) (Fleet, error) {
	fleet := make(Fleet, 0, len(kinds))

	for _, kind := range kinds {
		if fleet.Index(kind) >= 0 {
			return nil, cerr.ErrShipKindTwice(kind.String())
		}

		ship, err := p.placeShip(kind, fleet)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, ship)
	}

	return fleet, nil
}

func (p *RandomFleetPlacer) placeShip(kind ShipKind, placed Fleet) (Ship, error) {
	ship, err := NewShip(kind)
	if err != nil {
		return Ship{}, err
	}

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		direction := p.source.Direction()
		row := p.source.Between(AnchorLowerBound, AnchorUpperBound)
		column := p.source.Between(AnchorLowerBound, AnchorUpperBound)
		anchor := NewPlacement(row, column, direction)

		cells, ok := layout(anchor, ship.Size, placed)
		if !ok {
			continue
		}

		ship.Anchor = anchor
		ship.Cells = cells
		return ship, nil
	}

	return Ship{}, cerr.ErrNoSpaceForShip(kind.String(), p.maxAttempts)
}

// layout expands anchor into length cells and rejects the candidate if
// any cell leaves the grid or lands on a ship that is already placed.
func layout(anchor Placement, length int, placed Fleet) ([]Coordinates, bool) {
	if !anchor.IsValid(length) {
		return nil, false
	}

	cells := anchor.Expand(length)
	if len(cells) != length {
		return nil, false
	}

	for _, cell := range cells {
		if !cell.IsInsideGrid() {
			return nil, false
		}
		if placed.IsOccupied(cell) {
			return nil, false
		}
	}
	return cells, true
}
