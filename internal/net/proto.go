package net

import "crosstown-courier/server/internal/sim"

// ProtocolVersion is bumped whenever the wire contract changes shape.
const ProtocolVersion = 1

type joinResponse struct {
	Version         int          `json:"v"`
	ID              string       `json:"id"`
	State           sim.Snapshot `json:"state"`
	TickRate        int          `json:"tickRate"`
	HeartbeatMillis int64        `json:"heartbeatMillis"`
}

type stateMessage struct {
	Version    int          `json:"v"`
	Type       string       `json:"type"`
	State      sim.Snapshot `json:"state"`
	ServerTime int64        `json:"serverTime"`
}

type heartbeatMessage struct {
	Version    int    `json:"v"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

type rejectMessage struct {
	Version int    `json:"v"`
	Type    string `json:"type"`
	Command string `json:"command"`
	Reason  string `json:"reason"`
}

type clientMessage struct {
	Type    string `json:"type"`
	NodeID  string `json:"nodeId,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
	SentAt  int64  `json:"sentAt,omitempty"`
}

const (
	clientCycleIntersection = "cycle_intersection"
	clientHireVehicle       = "hire_vehicle"
	clientRushHour          = "rush_hour"
	clientHeartbeat         = "heartbeat"
)

type diagnosticsOperator struct {
	ID            string `json:"id"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
}
