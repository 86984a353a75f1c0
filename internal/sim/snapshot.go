package sim

// Vehicle mirrors the fleet state exposed to non-simulation callers.
type Vehicle struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	PathID         string  `json:"pathId,omitempty"`
	Progress       float64 `json:"progress"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Z              float64 `json:"z"`
	Carrying       bool    `json:"carrying"`
	DeliveryID     string  `json:"deliveryId,omitempty"`
	Money          int64   `json:"money"`
	Reversing      bool    `json:"reversing,omitempty"`
	Completed      int     `json:"completed"`
	DistanceDriven float64 `json:"distanceDriven"`
}

// Delivery mirrors an active delivery event.
type Delivery struct {
	ID        string `json:"id"`
	Pickup    string `json:"pickup"`
	Dropoff   string `json:"dropoff"`
	Status    string `json:"status"`
	Payout    int64  `json:"payout"`
	Tier      int    `json:"tier"`
	Color     string `json:"color"`
	SpawnedAt int64  `json:"spawnedAt"`
}

// Intersection mirrors a controllable intersection's mode.
type Intersection struct {
	NodeID string `json:"nodeId"`
	Mode   string `json:"mode"`
}

// Snapshot captures the state exposed to non-simulation callers.
type Snapshot struct {
	Tick          uint64         `json:"tick"`
	Vehicles      []Vehicle      `json:"vehicles,omitempty"`
	Deliveries    []Delivery     `json:"deliveries,omitempty"`
	Intersections []Intersection `json:"intersections,omitempty"`
	RushHour      bool           `json:"rushHour"`
	NodeCount     int            `json:"nodeCount"`
	PathCount     int            `json:"pathCount"`
}
