package roadnet

import (
	"encoding/json"
	"fmt"
)

// MapDocument is the designer-authored road map consumed by the simulation.
// It is the normalized output of the external scene-extraction tooling; the
// loader only checks well-formedness, never scene-graph concerns.
type MapDocument struct {
	Name  string         `json:"name" jsonschema:"title=Map name,minLength=1,required"`
	Nodes []NodeDocument `json:"nodes" jsonschema:"title=Road nodes,description=Normalized node list extracted from the scene,required"`
}

// NodeDocument is the wire form of a RoadNode.
type NodeDocument struct {
	ID         string        `json:"id" jsonschema:"title=Node id,minLength=1,required"`
	Position   [3]float64    `json:"position" jsonschema:"title=World position,description=Scene-space x y z,required"`
	Neighbors  *[4]string    `json:"neighbors,omitempty" jsonschema:"title=Directional neighbors,description=North east south west slot occupants; empty string marks a vacant slot"`
	Successors []string      `json:"successors,omitempty" jsonschema:"title=Legacy successors,description=Unordered outgoing connections for simple path nodes"`
	Tags       []string      `json:"tags,omitempty" jsonschema:"title=Semantic tags"`
	Zone       string        `json:"zone,omitempty" jsonschema:"title=Zone name"`
	Multiplier float64       `json:"payoutMultiplier,omitempty" jsonschema:"title=Zone payout multiplier"`
	Light      *LightTimings `json:"light,omitempty" jsonschema:"title=Red-light phase timings"`
}

// ParseMapDocument decodes and validates a map document.
func ParseMapDocument(data []byte) (MapDocument, error) {
	var doc MapDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return MapDocument{}, fmt.Errorf("decode map document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return MapDocument{}, err
	}
	return doc, nil
}

// Validate checks structural invariants the generator relies on.
func (doc MapDocument) Validate() error {
	if len(doc.Nodes) == 0 {
		return fmt.Errorf("map %q has no nodes", doc.Name)
	}
	seen := make(map[string]struct{}, len(doc.Nodes))
	for i, node := range doc.Nodes {
		if node.ID == "" {
			return fmt.Errorf("map %q: node %d has an empty id", doc.Name, i)
		}
		if _, dup := seen[node.ID]; dup {
			return fmt.Errorf("map %q: duplicate node id %q", doc.Name, node.ID)
		}
		seen[node.ID] = struct{}{}
		if node.Neighbors != nil && node.Neighbors[North] == "" && node.Neighbors[East] == "" &&
			node.Neighbors[South] == "" && node.Neighbors[West] == "" && len(node.Successors) == 0 {
			return fmt.Errorf("map %q: node %q declares a slot array with no occupants", doc.Name, node.ID)
		}
	}
	return nil
}

// RoadNodes converts the document into the in-memory node list.
func (doc MapDocument) RoadNodes() []RoadNode {
	nodes := make([]RoadNode, 0, len(doc.Nodes))
	for _, nd := range doc.Nodes {
		node := RoadNode{
			ID:               NodeID(nd.ID),
			Position:         Vec3{X: nd.Position[0], Y: nd.Position[1], Z: nd.Position[2]},
			Zone:             nd.Zone,
			PayoutMultiplier: nd.Multiplier,
			Light:            nd.Light,
		}
		if nd.Neighbors != nil {
			var slots [4]NodeID
			for i, id := range nd.Neighbors {
				slots[i] = NodeID(id)
			}
			node.Neighbors = &slots
		}
		for _, succ := range nd.Successors {
			if succ != "" {
				node.Successors = append(node.Successors, NodeID(succ))
			}
		}
		for _, tag := range nd.Tags {
			if tag != "" {
				node.Tags = append(node.Tags, Tag(tag))
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}
