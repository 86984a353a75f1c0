package roadnet

// NodeID identifies a road node.
type NodeID string

// Tag marks a semantic role carried by a node.
type Tag string

const (
	TagPath         Tag = "path"
	TagIntersection Tag = "intersection"
	TagPickup       Tag = "pickup"
	TagDropoff      Tag = "dropoff"
	TagRedLight     Tag = "red_light"
	TagService      Tag = "service"
)

// LightTimings holds the phase durations for a red-light node.
type LightTimings struct {
	GreenMillis int64 `json:"greenMillis"`
	RedMillis   int64 `json:"redMillis"`
}

// RoadNode is one vertex of the road graph. Intersection-capable nodes carry
// a 4-slot directional neighbor array; simple path nodes carry an unordered
// successor list instead. An empty NodeID marks a vacant slot.
type RoadNode struct {
	ID       NodeID `json:"id"`
	Position Vec3   `json:"position"`

	// Neighbors is nil when the node only has legacy successor data.
	// When present it always has exactly four slots, indexed by Dir.
	Neighbors *[4]NodeID `json:"neighbors,omitempty"`

	// Successors lists outgoing connections for legacy path nodes.
	Successors []NodeID `json:"successors,omitempty"`

	Tags []Tag `json:"tags,omitempty"`

	Zone             string        `json:"zone,omitempty"`
	PayoutMultiplier float64       `json:"payoutMultiplier,omitempty"`
	Light            *LightTimings `json:"light,omitempty"`
}

// HasTag reports whether the node carries the given semantic tag.
func (n *RoadNode) HasTag(tag Tag) bool {
	if n == nil {
		return false
	}
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasNeighborData reports whether the node carries a directional slot array.
func (n *RoadNode) HasNeighborData() bool {
	return n != nil && n.Neighbors != nil
}

// PopulatedSlots counts the non-vacant directional slots.
func (n *RoadNode) PopulatedSlots() int {
	if !n.HasNeighborData() {
		return 0
	}
	count := 0
	for _, id := range n.Neighbors {
		if id != "" {
			count++
		}
	}
	return count
}

// SlotOf returns the directional slot occupied by the given neighbor id.
func (n *RoadNode) SlotOf(id NodeID) (Dir, bool) {
	if !n.HasNeighborData() || id == "" {
		return DirNone, false
	}
	for slot, neighbor := range n.Neighbors {
		if neighbor == id {
			return Dir(slot), true
		}
	}
	return DirNone, false
}

// Neighbor returns the occupant of a slot, or false for a vacant slot.
func (n *RoadNode) Neighbor(d Dir) (NodeID, bool) {
	if !n.HasNeighborData() || !d.Valid() {
		return "", false
	}
	id := n.Neighbors[d]
	if id == "" {
		return "", false
	}
	return id, true
}

// IntersectionEligible reports whether the node can host routing decisions:
// at least two populated directional slots.
func (n *RoadNode) IntersectionEligible() bool {
	return n.PopulatedSlots() >= 2
}

// Connections returns every outgoing neighbor id, regardless of which
// connectivity representation the node uses.
func (n *RoadNode) Connections() []NodeID {
	if n == nil {
		return nil
	}
	if n.HasNeighborData() {
		out := make([]NodeID, 0, dirCount)
		for _, id := range n.Neighbors {
			if id != "" {
				out = append(out, id)
			}
		}
		return out
	}
	if len(n.Successors) == 0 {
		return nil
	}
	out := make([]NodeID, len(n.Successors))
	copy(out, n.Successors)
	return out
}

// ZoneMultiplier returns the payout multiplier, defaulting to 1.
func (n *RoadNode) ZoneMultiplier() float64 {
	if n == nil || n.PayoutMultiplier <= 0 {
		return 1
	}
	return n.PayoutMultiplier
}
