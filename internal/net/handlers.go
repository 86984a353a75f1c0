package net

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// NewMux exposes the hub over HTTP: health and diagnostics probes, the join
// handshake, and the WebSocket stream.
func NewMux(hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status     string                `json:"status"`
			ServerTime int64                 `json:"serverTime"`
			Operators  []diagnosticsOperator `json:"operators"`
			TickRate   int                   `json:"tickRate"`
			Heartbeat  int64                 `json:"heartbeatMillis"`
			Pending    int                   `json:"pendingCommands"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Operators:  hub.DiagnosticsSnapshot(),
			TickRate:   hub.tickRate,
			Heartbeat:  heartbeatInterval.Milliseconds(),
			Pending:    hub.engine.Pending(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		join := hub.Join()
		data, err := json.Marshal(join)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		operatorID := r.URL.Query().Get("id")
		if operatorID == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.logf("upgrade failed for %s: %v", operatorID, err)
			return
		}

		sub, ok := hub.Subscribe(operatorID, conn)
		if !ok {
			message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown operator")
			conn.WriteMessage(websocket.CloseMessage, message)
			conn.Close()
			return
		}

		initial := stateMessage{
			Version:    ProtocolVersion,
			Type:       "state",
			State:      hub.engine.Snapshot(),
			ServerTime: time.Now().UnixMilli(),
		}
		if !writeJSON(sub, initial) {
			hub.Disconnect(operatorID)
			return
		}

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				hub.Disconnect(operatorID)
				return
			}

			var msg clientMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				hub.logf("discarding malformed message from %s: %v", operatorID, err)
				continue
			}

			switch msg.Type {
			case clientHeartbeat:
				now := time.Now()
				rtt, ok := hub.UpdateHeartbeat(operatorID, now, msg.SentAt)
				if !ok {
					continue
				}

				ack := heartbeatMessage{
					Version:    ProtocolVersion,
					Type:       "heartbeat",
					ServerTime: now.UnixMilli(),
					ClientTime: msg.SentAt,
					RTTMillis:  rtt.Milliseconds(),
				}
				if !writeJSON(sub, ack) {
					hub.Disconnect(operatorID)
					return
				}
			case clientCycleIntersection, clientHireVehicle, clientRushHour:
				if accepted, reason := hub.stageCommand(operatorID, msg); !accepted {
					reject := rejectMessage{
						Version: ProtocolVersion,
						Type:    "reject",
						Command: msg.Type,
						Reason:  reason,
					}
					if !writeJSON(sub, reject) {
						hub.Disconnect(operatorID)
						return
					}
				}
			default:
				hub.logf("unknown message type %q from %s", msg.Type, operatorID)
			}
		}
	})

	return mux
}

func writeJSON(sub *subscriber, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	sub.mu.Lock()
	defer sub.mu.Unlock()
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sub.conn.WriteMessage(websocket.TextMessage, data) == nil
}
