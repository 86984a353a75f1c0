package roadnet

// Dir identifies one of the four directional neighbor slots on a node.
// Slots are topological positions, not world-space compass headings.
type Dir int

const (
	North Dir = iota
	East
	South
	West
)

// DirNone marks the absence of a directional slot.
const DirNone Dir = -1

// dirCount is the fixed size of a neighbor slot array.
const dirCount = 4

// Valid reports whether d names one of the four slots.
func (d Dir) Valid() bool {
	return d >= North && d <= West
}

func (d Dir) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "none"
	}
}

// Flip converts an outgoing slot at one node into the incoming slot at the
// node it leads to. Flip is its own inverse.
func Flip(d Dir) Dir {
	if !d.Valid() {
		return DirNone
	}
	return (d + 2) % dirCount
}

// heading is the slot a vehicle exits through when continuing straight after
// entering via the given entrance slot.
func heading(entrance Dir) Dir {
	return Flip(entrance)
}

// rightOf and leftOf rotate a heading clockwise and counter-clockwise.
func rightOf(h Dir) Dir {
	return (h + 1) % dirCount
}

func leftOf(h Dir) Dir {
	return (h + 3) % dirCount
}
