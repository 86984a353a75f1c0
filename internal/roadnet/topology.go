package roadnet

import (
	"context"

	"crosstown-courier/server/logging"
	"crosstown-courier/server/logging/traffic"
)

// Mode is a player-settable routing preference for an intersection.
type Mode string

const (
	ModePassThrough Mode = "pass_through"
	ModeTurnLeft    Mode = "turn_left"
	ModeTurnRight   Mode = "turn_right"
)

// CycleMode steps through the routing modes in a fixed order.
func CycleMode(m Mode) Mode {
	switch m {
	case ModePassThrough:
		return ModeTurnLeft
	case ModeTurnLeft:
		return ModeTurnRight
	default:
		return ModePassThrough
	}
}

// Hop is the outcome of a routing decision at a node.
type Hop struct {
	Next     NodeID
	Outgoing Dir
}

// priorityOrder is the fallback chain of exits tried for a vehicle that
// entered via the given slot. pass_through prefers continuing straight;
// turn_left and turn_right promote the counter-clockwise or clockwise exit
// while keeping the same full chain, so a route is always found when any
// non-entrance exit exists.
func priorityOrder(entrance Dir, mode Mode) [4]Dir {
	straight := heading(entrance)
	right := rightOf(straight)
	left := leftOf(straight)
	switch mode {
	case ModeTurnLeft:
		return [4]Dir{left, straight, right, entrance}
	case ModeTurnRight:
		return [4]Dir{right, straight, left, entrance}
	default:
		return [4]Dir{straight, right, left, entrance}
	}
}

// NextHop resolves the exit a vehicle takes out of a node it entered via the
// given slot. Classification counts populated slots, entrance included:
//
//   - dead end (1): U-turn back out the entrance slot
//   - corner (2): the populated slot that is not the entrance
//   - intersection (3-4): the first populated non-entrance slot in the
//     priority table for (entrance, mode)
//
// A false result means no viable exit exists; callers hold position.
func NextHop(node *RoadNode, incoming Dir, mode Mode, pub logging.Publisher) (Hop, bool) {
	if node == nil || !node.HasNeighborData() || !incoming.Valid() {
		return Hop{}, false
	}

	populated := node.PopulatedSlots()
	if populated == 0 {
		return Hop{}, false
	}

	if populated == 1 {
		// Dead end: the entrance is the only way back out.
		for slot := North; slot <= West; slot++ {
			if id, ok := node.Neighbor(slot); ok {
				return Hop{Next: id, Outgoing: slot}, true
			}
		}
		return Hop{}, false
	}

	for _, slot := range priorityOrder(incoming, mode) {
		if slot == incoming {
			continue
		}
		if id, ok := node.Neighbor(slot); ok {
			return Hop{Next: id, Outgoing: slot}, true
		}
	}

	// >=2 populated slots but no non-entrance exit found: the slot data is
	// internally inconsistent.
	traffic.NoExit(context.Background(), pub, 0, traffic.NoExitPayload{
		Node:     string(node.ID),
		Incoming: incoming.String(),
		Mode:     string(mode),
	})
	return Hop{}, false
}
