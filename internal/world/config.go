package world

import "strings"

const (
	DefaultSeed = "crosstown"

	defaultVehicleCount       = 3
	defaultVehicleSpeed       = 6.0 // scene units per second
	defaultCollisionRadius    = 0.5
	defaultCollisionCooldown  = int64(2000) // milliseconds
	defaultPickupRadius       = 1.5
	defaultDropoffRadius      = 1.5
	defaultSpawnInterval      = 12.0 // seconds
	defaultRushSpawnInterval  = 5.0
	defaultBasePayout         = 100
	defaultPayoutRate         = 10.0
	defaultMaxDeliveries      = 6
	defaultHireCost           = 500
	defaultServiceFee         = 75
	defaultWearDistance       = 400.0
	defaultTierDistanceBucket = 15.0
)

// Config tunes the simulation. Zero values are replaced by defaults via
// normalized().
type Config struct {
	Seed string `json:"seed"`

	VehicleCount int     `json:"vehicleCount"`
	VehicleSpeed float64 `json:"vehicleSpeed"`

	CollisionRadius         float64 `json:"collisionRadius"`
	CollisionCooldownMillis int64   `json:"collisionCooldownMillis"`

	PickupRadius  float64 `json:"pickupRadius"`
	DropoffRadius float64 `json:"dropoffRadius"`

	SpawnIntervalSeconds     float64 `json:"spawnIntervalSeconds"`
	RushSpawnIntervalSeconds float64 `json:"rushSpawnIntervalSeconds"`
	RushHour                 bool    `json:"rushHour"`
	MaxActiveDeliveries      int     `json:"maxActiveDeliveries"`

	BasePayout int     `json:"basePayout"`
	PayoutRate float64 `json:"payoutRate"`

	HireCost   int `json:"hireCost"`
	ServiceFee int `json:"serviceFee"`

	// WearDistance is how far a vehicle drives before it needs service.
	WearDistance float64 `json:"wearDistance"`

	// TierDistanceBucket is the distance width of one size-tier bucket.
	TierDistanceBucket float64 `json:"tierDistanceBucket"`
}

func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	if normalized.VehicleCount <= 0 {
		normalized.VehicleCount = defaultVehicleCount
	}
	if normalized.VehicleSpeed <= 0 {
		normalized.VehicleSpeed = defaultVehicleSpeed
	}
	if normalized.CollisionRadius <= 0 {
		normalized.CollisionRadius = defaultCollisionRadius
	}
	if normalized.CollisionCooldownMillis <= 0 {
		normalized.CollisionCooldownMillis = defaultCollisionCooldown
	}
	if normalized.PickupRadius <= 0 {
		normalized.PickupRadius = defaultPickupRadius
	}
	if normalized.DropoffRadius <= 0 {
		normalized.DropoffRadius = defaultDropoffRadius
	}
	if normalized.SpawnIntervalSeconds <= 0 {
		normalized.SpawnIntervalSeconds = defaultSpawnInterval
	}
	if normalized.RushSpawnIntervalSeconds <= 0 {
		normalized.RushSpawnIntervalSeconds = defaultRushSpawnInterval
	}
	if normalized.MaxActiveDeliveries <= 0 {
		normalized.MaxActiveDeliveries = defaultMaxDeliveries
	}
	if normalized.BasePayout <= 0 {
		normalized.BasePayout = defaultBasePayout
	}
	if normalized.PayoutRate <= 0 {
		normalized.PayoutRate = defaultPayoutRate
	}
	if normalized.HireCost <= 0 {
		normalized.HireCost = defaultHireCost
	}
	if normalized.ServiceFee <= 0 {
		normalized.ServiceFee = defaultServiceFee
	}
	if normalized.WearDistance <= 0 {
		normalized.WearDistance = defaultWearDistance
	}
	if normalized.TierDistanceBucket <= 0 {
		normalized.TierDistanceBucket = defaultTierDistanceBucket
	}
	return normalized
}

// Normalized exposes the normalization applied at construction time.
func (cfg Config) Normalized() Config {
	return cfg.normalized()
}

// DefaultConfig returns the baseline tuning.
func DefaultConfig() Config {
	return Config{}.normalized()
}

// SpawnInterval returns the active delivery spawn countdown in seconds.
func (cfg Config) SpawnInterval() float64 {
	if cfg.RushHour {
		return cfg.RushSpawnIntervalSeconds
	}
	return cfg.SpawnIntervalSeconds
}
