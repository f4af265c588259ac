// Package device holds the CatAway device state and the pure derivation
// logic computed from it (recommended portions, refill timing, expiry and
// alert transitions). All time-dependent functions take an injected now so
// they stay deterministic under test.
package device

import "time"

// Severity is the level of a raised alert.
type Severity string

const (
	SeverityOff    Severity = "Off"
	SeverityYellow Severity = "Yellow"
	SeverityOrange Severity = "Orange"
	SeverityRed    Severity = "Red"
)

// Alert names, as published to consumers.
const (
	AlertEmptyTank    = "emptyTank"
	AlertExpiredFood  = "Expired Food"
	AlertWaterRefresh = "Water needs to be refreshed in the bowl"
)

// Tank size constants.
const (
	TankSizeFoodG   = 1000
	TankSizeWaterMl = 3000
)

const (
	gramsPerCup           = 224
	defaultRecFoodG       = 70
	defaultBowlCapacityMl = 200
	defaultSchedule       = "08:00 19:00 "
)

// Location is the device's fixed UTC+3 zone. All refill and expiry
// arithmetic happens at this offset.
var Location = time.FixedZone("UTC+3", 3*60*60)

const tzOffset = 3 * time.Hour

// TimestampLayout is the wire format for timestamp-valued settings.
const TimestampLayout = "02.01.2006 15:04"

// State is the aggregate of all device settings plus derived fields. It is a
// process-wide singleton owned by the store; a -1 numeric value means
// "unknown" and a zero time.Time means "unset".
type State struct {
	Weight              float64 // kg
	Age                 float64 // years fraction
	EatingSpeed         string
	FeedingSchedule     string // space-separated HH:MM tokens
	WaterBowlCapacityMl int
	WaterRefSchedule    string // two HH:MM tokens
	FoodExpDate         time.Time
	EmptyFoodTank       bool
	EmptyWaterTank      bool
	ExpiredFood         bool
	WaterLastRefreshed  time.Time
	LastConsumedFood    int // g
	LastConsumedWater   int // ml

	RecFoodG               int
	NrBreaks               int
	BreakDuration          int // minutes
	CurrentQuantityFoodG   int
	CurrentQuantityWaterMl int
	RefillFood             bool
	RefreshWater           bool
	NextFoodRefill         time.Time
	NextWaterRefill        time.Time

	Alerts map[string]Severity
}

// NewState creates the device state with its documented defaults. Tanks
// start full; every alert starts at Off.
func NewState() *State {
	return &State{
		Weight:                 -1,
		Age:                    -1,
		WaterBowlCapacityMl:    -1,
		RecFoodG:               -1,
		BreakDuration:          -1,
		CurrentQuantityFoodG:   TankSizeFoodG,
		CurrentQuantityWaterMl: TankSizeWaterMl,
		Alerts: map[string]Severity{
			AlertEmptyTank:    SeverityOff,
			AlertExpiredFood:  SeverityOff,
			AlertWaterRefresh: SeverityOff,
		},
	}
}
