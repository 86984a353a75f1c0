package world

import (
	"context"

	"crosstown-courier/server/internal/roadnet"
	"crosstown-courier/server/logging/traffic"
)

// Legacy vector-geometry thresholds. Empirically tuned; kept configurable as
// package constants rather than hard invariants.
const (
	straightDotThreshold = 0.8
	turnCrossEpsilon     = 0.1
)

type turnClass int

const (
	turnStraight turnClass = iota
	turnLeft
	turnRight
)

// nextPath picks the path a vehicle continues on after finishing
// currentPathID. It returns nil when no route exists; callers hold position.
// The routing strategy was resolved per node at network build time.
func (w *World) nextPath(v *Vehicle, currentPathID string) *roadnet.RoadPath {
	if w == nil {
		return nil
	}

	ctx := context.Background()

	src, dst, ok := roadnet.SplitPathID(currentPathID)
	if !ok {
		traffic.MalformedPathID(ctx, w.publisher, w.tick, currentPathID)
		return nil
	}

	dest, ok := w.network.Node(dst)
	if !ok {
		return nil
	}

	if w.network.StrategyFor(dst) == roadnet.StrategyTopological && v != nil {
		return w.nextPathTopological(v, src, dest)
	}
	return w.nextPathVector(src, dest, currentPathID)
}

// nextPathTopological routes using the destination node's directional slot
// array and the intersection's priority table.
func (w *World) nextPathTopological(v *Vehicle, src roadnet.NodeID, dest *roadnet.RoadNode) *roadnet.RoadPath {
	ctx := context.Background()

	incoming, ok := dest.SlotOf(src)
	if !ok {
		// The finished path's source is not wired into the slot array;
		// fall back to the direction the vehicle remembers.
		traffic.DirectionFallback(ctx, w.publisher, w.tick, v.ID, string(dest.ID))
		incoming = v.Nav.IncomingDir
		if !incoming.Valid() {
			return nil
		}
	}

	mode := w.IntersectionMode(dest.ID)

	hop, ok := roadnet.NextHop(dest, incoming, mode, w.publisher)
	if !ok {
		return nil
	}

	path, ok := w.network.Path(roadnet.PathID(dest.ID, hop.Next))
	if !ok {
		return nil
	}

	v.Nav.IntersectionID = dest.ID
	v.Nav.IncomingDir = roadnet.Flip(hop.Outgoing)
	return path
}

// nextPathVector routes with the legacy tangent-geometry classification used
// by nodes that carry no directional slot data.
func (w *World) nextPathVector(src roadnet.NodeID, dest *roadnet.RoadNode, currentPathID string) *roadnet.RoadPath {
	candidates := w.network.PathsFrom(dest.ID)
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	incoming := w.incomingTangent(src, dest, currentPathID)

	if _, controllable := w.intersections[dest.ID]; controllable && incoming.Length() > 0 {
		mode := w.IntersectionMode(dest.ID)
		want := turnStraight
		switch mode {
		case roadnet.ModeTurnLeft:
			want = turnLeft
		case roadnet.ModeTurnRight:
			want = turnRight
		}

		var straightPick *roadnet.RoadPath
		for _, candidate := range candidates {
			class, ok := classifyTurn(incoming, candidate.StartTangent())
			if !ok {
				continue
			}
			if class == want {
				return candidate
			}
			if class == turnStraight && straightPick == nil {
				straightPick = candidate
			}
		}
		if straightPick != nil {
			return straightPick
		}
	}

	return candidates[w.routerRNG.Intn(len(candidates))]
}

// incomingTangent recovers the direction of travel along the finished path.
func (w *World) incomingTangent(src roadnet.NodeID, dest *roadnet.RoadNode, currentPathID string) roadnet.Vec3 {
	if path, ok := w.network.Path(currentPathID); ok {
		return path.EndTangent()
	}
	if srcNode, ok := w.network.Node(src); ok {
		return dest.Position.Sub(srcNode.Position).Normalized()
	}
	return roadnet.Vec3{}
}

// classifyTurn labels a candidate exit relative to the incoming direction.
// Near-parallel tangents read as straight; otherwise the vertical cross
// component separates left from right. Degenerate geometry reports false.
func classifyTurn(incoming, outgoing roadnet.Vec3) (turnClass, bool) {
	if incoming.Length() == 0 || outgoing.Length() == 0 {
		return turnStraight, false
	}
	if incoming.Dot(outgoing) > straightDotThreshold {
		return turnStraight, true
	}
	cross := incoming.CrossY(outgoing)
	if cross > turnCrossEpsilon {
		return turnLeft, true
	}
	if cross < -turnCrossEpsilon {
		return turnRight, true
	}
	return turnStraight, true
}
