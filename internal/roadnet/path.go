package roadnet

import "strings"

// pathIDSeparator joins the source and destination node ids of a path id.
const pathIDSeparator = "_to_"

// PathID formats the directed path identifier for an edge.
func PathID(src, dst NodeID) string {
	return string(src) + pathIDSeparator + string(dst)
}

// SplitPathID recovers the endpoints of a path id. It reports false for ids
// missing the separator.
func SplitPathID(id string) (NodeID, NodeID, bool) {
	src, dst, ok := strings.Cut(id, pathIDSeparator)
	if !ok || src == "" || dst == "" {
		return "", "", false
	}
	return NodeID(src), NodeID(dst), true
}

// ReversePathID swaps the endpoints of a path id.
func ReversePathID(id string) (string, bool) {
	src, dst, ok := SplitPathID(id)
	if !ok {
		return "", false
	}
	return PathID(dst, src), true
}

// RoadPath is a directed polyline between two nodes. A->B and B->A are
// distinct paths. Paths are generated from the node graph, never authored.
type RoadPath struct {
	ID     string  `json:"id"`
	From   NodeID  `json:"from"`
	To     NodeID  `json:"to"`
	Points []Vec3  `json:"points"`
	Length float64 `json:"length"`
}

// NewPath synthesizes the straight-line path between two nodes.
func NewPath(src, dst *RoadNode) *RoadPath {
	points := []Vec3{src.Position, dst.Position}
	return &RoadPath{
		ID:     PathID(src.ID, dst.ID),
		From:   src.ID,
		To:     dst.ID,
		Points: points,
		Length: polylineLength(points),
	}
}

func polylineLength(points []Vec3) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Dist(points[i-1], points[i])
	}
	return total
}

// Sample interpolates the path at normalized progress t, clamped to [0,1].
// Sample(0) is exactly the first point and Sample(1) exactly the last.
func (p *RoadPath) Sample(t float64) Vec3 {
	if p == nil || len(p.Points) == 0 {
		return Vec3{}
	}
	last := len(p.Points) - 1
	if last == 0 || t <= 0 {
		return p.Points[0]
	}
	if t >= 1 {
		return p.Points[last]
	}
	scaled := t * float64(last)
	segment := int(scaled)
	if segment >= last {
		segment = last - 1
	}
	return lerp(p.Points[segment], p.Points[segment+1], scaled-float64(segment))
}

// StartTangent is the unit direction of the first segment.
func (p *RoadPath) StartTangent() Vec3 {
	if p == nil || len(p.Points) < 2 {
		return Vec3{}
	}
	return p.Points[1].Sub(p.Points[0]).Normalized()
}

// EndTangent is the unit direction of the last segment.
func (p *RoadPath) EndTangent() Vec3 {
	if p == nil || len(p.Points) < 2 {
		return Vec3{}
	}
	last := len(p.Points) - 1
	return p.Points[last].Sub(p.Points[last-1]).Normalized()
}
