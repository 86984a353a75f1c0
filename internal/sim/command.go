package sim

import (
	"time"

	"crosstown-courier/server/internal/roadnet"
)

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandCycleIntersection CommandType = "CycleIntersection"
	CommandLoadMap           CommandType = "LoadMap"
	CommandHireVehicle       CommandType = "HireVehicle"
	CommandSetRushHour       CommandType = "SetRushHour"
)

// IntersectionCommand names the intersection whose mode should advance.
type IntersectionCommand struct {
	NodeID string `json:"nodeId"`
}

// MapCommand carries a parsed node list for a network rebuild.
type MapCommand struct {
	Nodes []roadnet.RoadNode `json:"nodes"`
}

// RushHourCommand toggles the shortened delivery spawn countdown.
type RushHourCommand struct {
	Enabled bool `json:"enabled"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick   uint64               `json:"originTick"`
	ActorID      string               `json:"actorId"`
	Type         CommandType          `json:"type"`
	IssuedAt     time.Time            `json:"issuedAt"`
	Intersection *IntersectionCommand `json:"intersection,omitempty"`
	Map          *MapCommand          `json:"map,omitempty"`
	RushHour     *RushHourCommand     `json:"rushHour,omitempty"`
}
