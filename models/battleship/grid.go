package battleship

import "fmt"

const (
	GridSize = 10

	GridLowerBound = 1
	GridUpperBound = GridSize

	// Anchors are sampled one short of the grid's upper bound.
	AnchorLowerBound = 1
	AnchorUpperBound = GridSize - 1
)

type Direction uint8

const (
	DirectionNotSet Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

// Directions a ship can be laid out in. DirectionNotSet is excluded.
var Directions = [...]Direction{DirectionUp, DirectionDown, DirectionLeft, DirectionRight}

var directionNames = map[Direction]string{
	DirectionNotSet: "NotSet",
	DirectionUp:     "Up",
	DirectionDown:   "Down",
	DirectionLeft:   "Left",
	DirectionRight:  "Right",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	for dir, name := range directionNames {
		if name == string(text) {
			*d = dir
			return nil
		}
	}
	return fmt.Errorf("unknown direction: %q", text)
}

// step returns the row and column delta of one cell in direction d.
func (d Direction) step() (int, int) {
	switch d {
	case DirectionUp:
		return -1, 0
	case DirectionDown:
		return 1, 0
	case DirectionLeft:
		return 0, -1
	case DirectionRight:
		return 0, 1
	default:
		return 0, 0
	}
}

// Coordinates are compared by row and column only. Anything carrying a
// tag (direction, shot outcome) wraps Coordinates instead of extending it.
type Coordinates struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func NewCoordinates(row, column int) Coordinates {
	return Coordinates{Row: row, Column: column}
}

func (c Coordinates) IsInsideGrid() bool {
	return c.Row >= GridLowerBound && c.Row <= GridUpperBound &&
		c.Column >= GridLowerBound && c.Column <= GridUpperBound
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}

// Placement is the anchor of a ship together with the direction its
// hull extends in.
type Placement struct {
	Coordinates
	Direction Direction `json:"direction"`
}

func NewPlacement(row, column int, direction Direction) Placement {
	return Placement{Coordinates: NewCoordinates(row, column), Direction: direction}
}

// IsValid reports whether a hull of length cells laid out from p stays
// inside the grid. Every direction uses the same containment rule.
func (p Placement) IsValid(length int) bool {
	if length <= 0 || !p.Coordinates.IsInsideGrid() {
		return false
	}

	switch p.Direction {
	case DirectionRight:
		return p.Column+length-1 <= GridUpperBound
	case DirectionLeft:
		return p.Column-length+1 >= GridLowerBound
	case DirectionUp:
		return p.Row-length+1 >= GridLowerBound
	case DirectionDown:
		return p.Row+length-1 <= GridUpperBound
	default:
		return false
	}
}

// Expand walks length cells from the anchor in its direction.
func (p Placement) Expand(length int) []Coordinates {
	dRow, dCol := p.Direction.step()
	if dRow == 0 && dCol == 0 {
		return nil
	}

	cells := make([]Coordinates, 0, length)
	for i := 0; i < length; i++ {
		cells = append(cells, NewCoordinates(p.Row+i*dRow, p.Column+i*dCol))
	}
	return cells
}
