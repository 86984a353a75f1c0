package net

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"crosstown-courier/server/internal/sim"
	"crosstown-courier/server/internal/telemetry"
)

const (
	writeWait         = 10 * time.Second
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval
)

// Hub tracks connected operators and fans simulation snapshots out to them.
// Operator commands are staged on the engine and applied at the next tick.
type Hub struct {
	mu          sync.Mutex
	operators   map[string]*operatorState
	subscribers map[string]*subscriber
	nextID      atomic.Uint64

	engine   sim.Engine
	logger   telemetry.Logger
	tickRate int
}

type operatorState struct {
	id            string
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub wires an engine to a fresh hub with no subscribers.
func NewHub(engine sim.Engine, logger telemetry.Logger, tickRate int) *Hub {
	if tickRate <= 0 {
		tickRate = 15
	}
	return &Hub{
		operators:   make(map[string]*operatorState),
		subscribers: make(map[string]*subscriber),
		engine:      engine,
		logger:      logger,
		tickRate:    tickRate,
	}
}

// Join registers a new operator and returns the latest snapshot.
func (h *Hub) Join() joinResponse {
	id := h.nextID.Add(1)
	operatorID := fmt.Sprintf("operator-%d", id)

	h.mu.Lock()
	h.operators[operatorID] = &operatorState{id: operatorID, lastHeartbeat: time.Now()}
	h.mu.Unlock()

	return joinResponse{
		Version:         ProtocolVersion,
		ID:              operatorID,
		State:           h.engine.Snapshot(),
		TickRate:        h.tickRate,
		HeartbeatMillis: heartbeatInterval.Milliseconds(),
	}
}

// Subscribe associates a WebSocket connection with an existing operator.
func (h *Hub) Subscribe(operatorID string, conn *websocket.Conn) (*subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.operators[operatorID]
	if !ok {
		return nil, false
	}

	state.lastHeartbeat = time.Now()

	if existing, ok := h.subscribers[operatorID]; ok {
		existing.conn.Close()
	}

	sub := &subscriber{conn: conn}
	h.subscribers[operatorID] = sub
	return sub, true
}

// Disconnect removes an operator and closes any active connection.
func (h *Hub) Disconnect(operatorID string) {
	h.mu.Lock()
	sub, subOK := h.subscribers[operatorID]
	if subOK {
		delete(h.subscribers, operatorID)
	}
	delete(h.operators, operatorID)
	h.mu.Unlock()

	if subOK {
		sub.conn.Close()
	}
}

// UpdateHeartbeat records the most recent heartbeat time and RTT for an
// operator.
func (h *Hub) UpdateHeartbeat(operatorID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.operators[operatorID]
	if !ok {
		return 0, false
	}

	state.lastHeartbeat = receivedAt

	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			state.lastRTT = rtt
		}
	}

	return state.lastRTT, true
}

// AfterStep is installed as the loop's post-tick hook. It drops operators
// whose heartbeats went stale and broadcasts the fresh snapshot.
func (h *Hub) AfterStep(result sim.LoopStepResult) {
	if h == nil {
		return
	}
	now := time.Now()

	h.mu.Lock()
	toClose := make([]*subscriber, 0)
	for id, state := range h.operators {
		if now.Sub(state.lastHeartbeat) > disconnectAfter {
			if sub, ok := h.subscribers[id]; ok {
				toClose = append(toClose, sub)
				delete(h.subscribers, id)
			}
			delete(h.operators, id)
			h.logf("disconnecting %s due to heartbeat timeout", id)
		}
	}
	h.mu.Unlock()

	for _, sub := range toClose {
		sub.conn.Close()
	}

	h.BroadcastState(result.Snapshot)
}

// BroadcastState sends the latest snapshot to every subscriber.
func (h *Hub) BroadcastState(snapshot sim.Snapshot) {
	msg := stateMessage{
		Version:    ProtocolVersion,
		Type:       "state",
		State:      snapshot,
		ServerTime: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logf("failed to marshal state message: %v", err)
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			h.logf("failed to send update to %s: %v", id, err)
			h.Disconnect(id)
		}
	}
}

// DiagnosticsSnapshot exposes heartbeat data for the diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() []diagnosticsOperator {
	h.mu.Lock()
	defer h.mu.Unlock()

	operators := make([]diagnosticsOperator, 0, len(h.operators))
	for _, state := range h.operators {
		operators = append(operators, diagnosticsOperator{
			ID:            state.id,
			LastHeartbeat: state.lastHeartbeat.UnixMilli(),
			RTTMillis:     state.lastRTT.Milliseconds(),
		})
	}
	return operators
}

// stageCommand forwards an operator intent to the engine's command queue.
func (h *Hub) stageCommand(operatorID string, msg clientMessage) (bool, string) {
	cmd := sim.Command{ActorID: operatorID, IssuedAt: time.Now()}
	switch msg.Type {
	case clientCycleIntersection:
		if msg.NodeID == "" {
			return false, "missing nodeId"
		}
		cmd.Type = sim.CommandCycleIntersection
		cmd.Intersection = &sim.IntersectionCommand{NodeID: msg.NodeID}
	case clientHireVehicle:
		cmd.Type = sim.CommandHireVehicle
	case clientRushHour:
		cmd.Type = sim.CommandSetRushHour
		cmd.RushHour = &sim.RushHourCommand{Enabled: msg.Enabled}
	default:
		return false, "unknown command"
	}
	return h.engine.Enqueue(cmd)
}

func (h *Hub) logf(format string, args ...any) {
	if h == nil || h.logger == nil {
		return
	}
	h.logger.Printf(format, args...)
}
