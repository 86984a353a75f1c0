package world

import (
	"crosstown-courier/server/internal/roadnet"
)

// IntersectionState tracks the player-settable routing mode for one
// intersection-eligible node. States are created when the network
// (re)initializes and recreated wholesale on rebuild.
type IntersectionState struct {
	NodeID  roadnet.NodeID
	Mode    roadnet.Mode
	PathIDs []string // outgoing path ids, informational
}

// rebuildIntersections derives fresh intersection states from a network.
func rebuildIntersections(network *roadnet.Network) map[roadnet.NodeID]*IntersectionState {
	states := make(map[roadnet.NodeID]*IntersectionState)
	for _, node := range network.IntersectionNodes() {
		paths := network.PathsFrom(node.ID)
		ids := make([]string, 0, len(paths))
		for _, path := range paths {
			ids = append(ids, path.ID)
		}
		states[node.ID] = &IntersectionState{
			NodeID:  node.ID,
			Mode:    roadnet.ModePassThrough,
			PathIDs: ids,
		}
	}
	return states
}

// CycleIntersection advances the mode of one intersection, returning the new
// mode. Unknown ids report false.
func (w *World) CycleIntersection(nodeID roadnet.NodeID) (roadnet.Mode, bool) {
	if w == nil {
		return "", false
	}
	state, ok := w.intersections[nodeID]
	if !ok {
		return "", false
	}
	state.Mode = roadnet.CycleMode(state.Mode)
	return state.Mode, true
}

// IntersectionMode reads the mode for a node, defaulting to pass_through for
// nodes that are not controllable intersections.
func (w *World) IntersectionMode(nodeID roadnet.NodeID) roadnet.Mode {
	if w == nil {
		return roadnet.ModePassThrough
	}
	if state, ok := w.intersections[nodeID]; ok {
		return state.Mode
	}
	return roadnet.ModePassThrough
}

// Intersections returns a copy of every intersection state, sorted by node id.
func (w *World) Intersections() []IntersectionState {
	if w == nil {
		return nil
	}
	out := make([]IntersectionState, 0, len(w.intersections))
	for _, node := range w.network.IntersectionNodes() {
		if state, ok := w.intersections[node.ID]; ok {
			copied := *state
			copied.PathIDs = append([]string(nil), state.PathIDs...)
			out = append(out, copied)
		}
	}
	return out
}
