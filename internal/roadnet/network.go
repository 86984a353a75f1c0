package roadnet

import (
	"context"
	"sort"

	"crosstown-courier/server/logging"
	"crosstown-courier/server/logging/traffic"
)

// Strategy selects how routing decisions are made when a vehicle reaches a
// node. It is resolved once per node at build time, not per routing call.
type Strategy int

const (
	// StrategyTopological uses the directional slot array and priority tables.
	StrategyTopological Strategy = iota
	// StrategyVectorGeometry classifies candidate exits by tangent geometry.
	StrategyVectorGeometry
)

// Network is an immutable snapshot of the road graph: the node set plus the
// directed paths generated from it. Rebuilding produces a new Network; the
// old one stays fully queryable until callers swap it out.
type Network struct {
	nodes      map[NodeID]*RoadNode
	paths      map[string]*RoadPath
	pathsFrom  map[NodeID][]*RoadPath
	strategies map[NodeID]Strategy
	skipped    int
}

// BuildNetwork generates the directed path set for the given nodes. Edges
// referencing unknown node ids are skipped with a warning; duplicate directed
// ids keep the first occurrence. If no node supplies any connectivity at all,
// nodes are auto-chained in sorted-id order into a closed loop.
func BuildNetwork(nodes []RoadNode, pub logging.Publisher) *Network {
	ctx := context.Background()

	n := &Network{
		nodes:      make(map[NodeID]*RoadNode, len(nodes)),
		paths:      make(map[string]*RoadPath),
		pathsFrom:  make(map[NodeID][]*RoadPath),
		strategies: make(map[NodeID]Strategy, len(nodes)),
	}

	for i := range nodes {
		node := nodes[i]
		if node.ID == "" {
			continue
		}
		if _, exists := n.nodes[node.ID]; exists {
			continue
		}
		copied := node
		n.nodes[node.ID] = &copied
		if copied.HasNeighborData() {
			n.strategies[copied.ID] = StrategyTopological
		} else {
			n.strategies[copied.ID] = StrategyVectorGeometry
		}
	}

	ids := n.sortedIDs()

	anyConnectivity := false
	for _, id := range ids {
		if len(n.nodes[id].Connections()) > 0 {
			anyConnectivity = true
			break
		}
	}

	if !anyConnectivity && len(ids) > 1 {
		// Legacy bootstrap: chain every node into a closed loop.
		traffic.LoopFallback(ctx, pub, 0, len(ids))
		for i, id := range ids {
			next := ids[(i+1)%len(ids)]
			n.addPath(n.nodes[id], n.nodes[next])
		}
		n.sortPathsFrom()
		return n
	}

	for _, id := range ids {
		node := n.nodes[id]
		for _, neighborID := range node.Connections() {
			neighbor, ok := n.nodes[neighborID]
			if !ok {
				n.skipped++
				traffic.EdgeSkipped(ctx, pub, 0, traffic.EdgeSkippedPayload{
					SourceNode:  string(id),
					MissingNode: string(neighborID),
				})
				continue
			}
			n.addPath(node, neighbor)
		}
	}

	n.sortPathsFrom()
	return n
}

func (n *Network) addPath(src, dst *RoadNode) {
	path := NewPath(src, dst)
	if _, exists := n.paths[path.ID]; exists {
		// Shared endpoints produce duplicate directed ids; first wins.
		return
	}
	n.paths[path.ID] = path
	n.pathsFrom[src.ID] = append(n.pathsFrom[src.ID], path)
}

func (n *Network) sortedIDs() []NodeID {
	ids := make([]NodeID, 0, len(n.nodes))
	for id := range n.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (n *Network) sortPathsFrom() {
	for _, paths := range n.pathsFrom {
		sort.Slice(paths, func(i, j int) bool { return paths[i].ID < paths[j].ID })
	}
}

// Node looks a node up by id.
func (n *Network) Node(id NodeID) (*RoadNode, bool) {
	if n == nil {
		return nil, false
	}
	node, ok := n.nodes[id]
	return node, ok
}

// Path looks a directed path up by id.
func (n *Network) Path(id string) (*RoadPath, bool) {
	if n == nil {
		return nil, false
	}
	path, ok := n.paths[id]
	return path, ok
}

// PathsFrom returns the outgoing paths of a node, sorted by id.
func (n *Network) PathsFrom(id NodeID) []*RoadPath {
	if n == nil {
		return nil
	}
	return n.pathsFrom[id]
}

// StrategyFor reports the routing strategy resolved for a node at build time.
func (n *Network) StrategyFor(id NodeID) Strategy {
	if n == nil {
		return StrategyVectorGeometry
	}
	strategy, ok := n.strategies[id]
	if !ok {
		return StrategyVectorGeometry
	}
	return strategy
}

// Nodes returns every node, sorted by id.
func (n *Network) Nodes() []*RoadNode {
	if n == nil {
		return nil
	}
	out := make([]*RoadNode, 0, len(n.nodes))
	for _, id := range n.sortedIDs() {
		out = append(out, n.nodes[id])
	}
	return out
}

// NodesWithTag returns every node carrying the tag, sorted by id.
func (n *Network) NodesWithTag(tag Tag) []*RoadNode {
	if n == nil {
		return nil
	}
	out := make([]*RoadNode, 0)
	for _, node := range n.Nodes() {
		if node.HasTag(tag) {
			out = append(out, node)
		}
	}
	return out
}

// IntersectionNodes returns every intersection-eligible node, sorted by id.
func (n *Network) IntersectionNodes() []*RoadNode {
	if n == nil {
		return nil
	}
	out := make([]*RoadNode, 0)
	for _, node := range n.Nodes() {
		if node.IntersectionEligible() {
			out = append(out, node)
		}
	}
	return out
}

// Paths returns every generated path, sorted by id.
func (n *Network) Paths() []*RoadPath {
	if n == nil {
		return nil
	}
	ids := make([]string, 0, len(n.paths))
	for id := range n.paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*RoadPath, 0, len(ids))
	for _, id := range ids {
		out = append(out, n.paths[id])
	}
	return out
}

// NodeCount and PathCount report snapshot sizes.
func (n *Network) NodeCount() int {
	if n == nil {
		return 0
	}
	return len(n.nodes)
}

func (n *Network) PathCount() int {
	if n == nil {
		return 0
	}
	return len(n.paths)
}

// SkippedEdges reports how many dangling connections the build dropped.
func (n *Network) SkippedEdges() int {
	if n == nil {
		return 0
	}
	return n.skipped
}
