package traffic

import (
	"context"

	"crosstown-courier/server/logging"
)

const (
	// EventNetworkRebuilt is emitted after the road network is atomically replaced.
	EventNetworkRebuilt logging.EventType = "traffic.network_rebuilt"
	// EventEdgeSkipped is emitted when path generation drops an edge referencing an unknown node.
	EventEdgeSkipped logging.EventType = "traffic.edge_skipped"
	// EventLoopFallback is emitted when no node supplied connectivity and the legacy closed loop was synthesized.
	EventLoopFallback logging.EventType = "traffic.loop_fallback"
	// EventMalformedPathID is emitted when the router receives a path id without a separator.
	EventMalformedPathID logging.EventType = "traffic.malformed_path_id"
	// EventNoExit is emitted when the resolver finds no viable non-entrance exit despite connectivity.
	EventNoExit logging.EventType = "traffic.no_exit"
	// EventDirectionFallback is emitted when the router falls back to a vehicle's stored incoming direction.
	EventDirectionFallback logging.EventType = "traffic.direction_fallback"
	// EventCollision is emitted when two vehicles trigger mutual reversal.
	EventCollision logging.EventType = "traffic.collision"
)

// NetworkRebuiltPayload summarizes a rebuilt road network.
type NetworkRebuiltPayload struct {
	Nodes         int `json:"nodes"`
	Paths         int `json:"paths"`
	Intersections int `json:"intersections"`
	SkippedEdges  int `json:"skippedEdges"`
}

// NetworkRebuilt publishes an info event describing a completed rebuild.
func NetworkRebuilt(ctx context.Context, pub logging.Publisher, tick uint64, payload NetworkRebuiltPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventNetworkRebuilt,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryTraffic,
		Payload:  payload,
	})
}

// EdgeSkippedPayload names the dangling connection dropped during generation.
type EdgeSkippedPayload struct {
	SourceNode  string `json:"sourceNode"`
	MissingNode string `json:"missingNode"`
}

// EdgeSkipped publishes a warning for a connection referencing an unknown node.
func EdgeSkipped(ctx context.Context, pub logging.Publisher, tick uint64, payload EdgeSkippedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEdgeSkipped,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: payload.SourceNode, Kind: logging.EntityKindNode},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryTraffic,
		Payload:  payload,
	})
}

// LoopFallback publishes a warning that the closed-loop bootstrap was used.
func LoopFallback(ctx context.Context, pub logging.Publisher, tick uint64, nodes int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventLoopFallback,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryTraffic,
		Payload:  map[string]int{"nodes": nodes},
	})
}

// MalformedPathID publishes a warning for an unparseable path id.
func MalformedPathID(ctx context.Context, pub logging.Publisher, tick uint64, pathID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMalformedPathID,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryTraffic,
		Payload:  map[string]string{"pathId": pathID},
	})
}

// NoExitPayload identifies the node and entrance that produced no route.
type NoExitPayload struct {
	Node     string `json:"node"`
	Incoming string `json:"incoming"`
	Mode     string `json:"mode"`
}

// NoExit publishes a warning when the topology resolver finds no viable exit.
func NoExit(ctx context.Context, pub logging.Publisher, tick uint64, payload NoExitPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventNoExit,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: payload.Node, Kind: logging.EntityKindNode},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryTraffic,
		Payload:  payload,
	})
}

// DirectionFallback publishes a warning that a stored incoming direction was reused.
func DirectionFallback(ctx context.Context, pub logging.Publisher, tick uint64, vehicleID, node string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDirectionFallback,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: vehicleID, Kind: logging.EntityKindVehicle},
		Targets:  []logging.EntityRef{{ID: node, Kind: logging.EntityKindNode}},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryTraffic,
	})
}

// CollisionPayload records the separation that triggered mutual reversal.
type CollisionPayload struct {
	Distance  float64 `json:"distance"`
	Threshold float64 `json:"threshold"`
}

// Collision publishes an info event for a detected vehicle collision.
func Collision(ctx context.Context, pub logging.Publisher, tick uint64, firstID, secondID string, payload CollisionPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCollision,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: firstID, Kind: logging.EntityKindVehicle},
		Targets:  []logging.EntityRef{{ID: secondID, Kind: logging.EntityKindVehicle}},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryTraffic,
		Payload:  payload,
	})
}
