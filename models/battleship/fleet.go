package battleship

// Fleet holds one ship per kind. Ships never share a cell.
type Fleet []Ship

func (f Fleet) Clone() Fleet {
	if f == nil {
		return nil
	}

	cloned := make(Fleet, len(f))
	for i, ship := range f {
		cloned[i] = ship.clone()
	}
	return cloned
}

// Index returns the position of the ship of the given kind, or -1.
func (f Fleet) Index(kind ShipKind) int {
	for i := range f {
		if f[i].Kind == kind {
			return i
		}
	}
	return -1
}

func (f Fleet) Ship(kind ShipKind) (*Ship, bool) {
	i := f.Index(kind)
	if i < 0 {
		return nil, false
	}
	return &f[i], true
}

// OwnerOf returns the index of the ship whose hull covers c, or -1.
func (f Fleet) OwnerOf(c Coordinates) int {
	for i := range f {
		if f[i].Occupies(c) {
			return i
		}
	}
	return -1
}

func (f Fleet) IsOccupied(c Coordinates) bool {
	return f.OwnerOf(c) >= 0
}

func (f Fleet) AllSunk() bool {
	if len(f) == 0 {
		return false
	}

	for i := range f {
		if !f[i].IsSunk {
			return false
		}
	}
	return true
}
