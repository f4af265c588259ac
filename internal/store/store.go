// Package store exposes the CatAway device state through Set/Get operations
// keyed by setting name. All access is serialized by a single exclusive
// lock; that is a deliberate choice for a single embedded device, not a
// bottleneck worth sharding.
package store

import (
	"strconv"
	"sync"
	"time"

	"cataway-backend/internal/device"
	"cataway-backend/internal/registry"
)

// Set status codes. Set returns a plain int so the breakDuration path can
// report the stored value through the same channel (inherited device
// behavior: that setter acts as a getter).
const (
	SetFailed = 0
	SetOK     = 1
)

// AlertFunc receives an alert transition observed during a Set call. It is
// invoked after the lock is released.
type AlertFunc func(alert string, severity device.Severity)

type setterFunc func(st *device.State, raw string, now time.Time) int
type getterFunc func(st *device.State) string

// Store owns the device state and serializes every read and write.
type Store struct {
	mu      sync.Mutex
	state   *device.State
	now     func() time.Time
	onAlert AlertFunc

	setters map[string]setterFunc
	getters map[string]getterFunc
}

// New creates a store around the given device state.
func New(st *device.State) *Store {
	s := &Store{
		state: st,
		now:   time.Now,
	}
	s.setters = setterTable()
	s.getters = getterTable()
	return s
}

// SetNowFunc overrides the wall clock. Test hook.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.now = now
}

// OnAlert registers a callback for alert severity transitions.
func (s *Store) OnAlert(fn AlertFunc) {
	s.onAlert = fn
}

// Set updates the named setting from its raw string value and runs the
// derivations the write triggers. It returns SetOK on success and SetFailed
// for unknown names or values that fail to parse; the breakDuration name
// returns the stored duration instead of a status.
func (s *Store) Set(name, raw string) int {
	spec, known := registry.Describe(name)
	if !known || !spec.Writable {
		return SetFailed
	}
	apply, ok := s.setters[name]
	if !ok {
		return SetFailed
	}

	s.mu.Lock()
	before := copyAlerts(s.state.Alerts)
	code := apply(s.state, raw, s.now())
	changed := diffAlerts(before, s.state.Alerts)
	s.mu.Unlock()

	if s.onAlert != nil {
		for alert, severity := range changed {
			s.onAlert(alert, severity)
		}
	}
	return code
}

// Get returns the named setting formatted as a string. Unknown names report
// found == false. Settings with no readable representation (the one-shot
// triggers) are also not found.
func (s *Store) Get(name string) (value string, found bool) {
	if _, known := registry.Describe(name); !known {
		return "", false
	}
	read, ok := s.getters[name]
	if !ok {
		return "", false
	}

	s.mu.Lock()
	value = read(s.state)
	s.mu.Unlock()
	return value, true
}

// Alert returns the current severity of a named alert.
func (s *Store) Alert(name string) device.Severity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sev, ok := s.state.Alerts[name]; ok {
		return sev
	}
	return device.SeverityOff
}

func copyAlerts(alerts map[string]device.Severity) map[string]device.Severity {
	out := make(map[string]device.Severity, len(alerts))
	for name, sev := range alerts {
		out[name] = sev
	}
	return out
}

func diffAlerts(before, after map[string]device.Severity) map[string]device.Severity {
	var changed map[string]device.Severity
	for name, sev := range after {
		if before[name] != sev {
			if changed == nil {
				changed = make(map[string]device.Severity)
			}
			changed[name] = sev
		}
	}
	return changed
}

// setterTable builds the dispatch table for Set. Every entry parses the raw
// value, applies the write, and invokes the derivations tied to that
// field. Parse failures return SetFailed instead of propagating.
func setterTable() map[string]setterFunc {
	return map[string]setterFunc{
		"weight": func(st *device.State, raw string, _ time.Time) int {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return SetFailed
			}
			st.Weight = v
			st.ComputeRecFood()
			return SetOK
		},
		"age": func(st *device.State, raw string, _ time.Time) int {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return SetFailed
			}
			st.Age = v
			st.ComputeRecFood()
			return SetOK
		},
		"eatingSpeed": func(st *device.State, raw string, _ time.Time) int {
			st.EatingSpeed = raw
			st.ComputeBreaks()
			return SetOK
		},
		"waterBowlWeightG": func(st *device.State, raw string, _ time.Time) int {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return SetFailed
			}
			st.WaterBowlCapacityMl = v
			return SetOK
		},
		"waterRefSchedule": func(st *device.State, raw string, _ time.Time) int {
			st.WaterRefSchedule = raw
			return SetOK
		},
		"foodExpDate": func(st *device.State, raw string, now time.Time) int {
			t, err := time.ParseInLocation(device.TimestampLayout, raw, device.Location)
			if err != nil {
				return SetFailed
			}
			st.FoodExpDate = t
			st.ComputeNextFoodRefill(now)
			return SetOK
		},
		"emptyFoodTank": func(st *device.State, raw string, now time.Time) int {
			st.EmptyFoodTank = raw == "1"
			if st.EmptyFoodTank {
				st.RefillFood = true
				st.Alerts[device.AlertEmptyTank] = device.SeverityYellow
				st.ComputeNextFoodRefill(now)
			}
			return SetOK
		},
		"emptyWaterTank": func(st *device.State, raw string, now time.Time) int {
			st.EmptyWaterTank = raw == "1"
			if st.EmptyWaterTank {
				st.Alerts[device.AlertEmptyTank] = device.SeverityYellow
				st.ComputeNextWaterRefill(now)
			}
			return SetOK
		},
		"lastConsumedWater": func(st *device.State, raw string, now time.Time) int {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return SetFailed
			}
			st.LastConsumedWater = v
			if v <= st.CurrentQuantityWaterMl {
				st.CurrentQuantityWaterMl -= v
			} else {
				st.CurrentQuantityWaterMl = 0
				st.EmptyWaterTank = true
				st.Alerts[device.AlertEmptyTank] = device.SeverityYellow
			}
			st.ComputeNextWaterRefill(now)
			return SetOK
		},
		"lastConsumedFood": func(st *device.State, raw string, now time.Time) int {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return SetFailed
			}
			st.LastConsumedFood = v
			if st.FoodExpired(now) {
				st.RefillFood = true
				st.ExpiredFood = true
			} else if v <= st.CurrentQuantityFoodG {
				st.CurrentQuantityFoodG -= v
			} else {
				st.CurrentQuantityFoodG = 0
				st.EmptyFoodTank = true
				st.RefillFood = true
				st.Alerts[device.AlertEmptyTank] = device.SeverityYellow
			}
			st.ComputeNextFoodRefill(now)
			return SetOK
		},
		// foodIsRefilled is a one-shot trigger: the refill is applied
		// immediately and no trigger state is retained, so a concurrent Get
		// can never observe it mid-transition.
		"foodIsRefilled": func(st *device.State, raw string, _ time.Time) int {
			if raw != "true" {
				return SetOK
			}
			st.CurrentQuantityFoodG = device.TankSizeFoodG
			if !st.EmptyWaterTank {
				st.Alerts[device.AlertEmptyTank] = device.SeverityOff
			}
			st.Alerts[device.AlertExpiredFood] = device.SeverityOff
			return SetOK
		},
		"waterIsRefilled": func(st *device.State, raw string, _ time.Time) int {
			if raw != "true" {
				return SetOK
			}
			st.CurrentQuantityWaterMl = device.TankSizeWaterMl
			if !st.EmptyFoodTank {
				st.Alerts[device.AlertEmptyTank] = device.SeverityOff
			}
			return SetOK
		},
		"waterIsRefreshed": func(st *device.State, raw string, _ time.Time) int {
			if raw != "true" {
				return SetOK
			}
			st.Alerts[device.AlertWaterRefresh] = device.SeverityOff
			st.RefreshWater = false
			return SetOK
		},
		"waterLastRefreshed": func(st *device.State, raw string, now time.Time) int {
			t, err := time.ParseInLocation(device.TimestampLayout, raw, device.Location)
			if err != nil {
				return SetFailed
			}
			st.WaterLastRefreshed = t
			st.CheckWaterRefresh(now)
			return SetOK
		},
		// breakDuration returns the stored value instead of a status code.
		// Inherited device behavior; the HTTP layer treats anything other
		// than SetOK as a failure.
		"breakDuration": func(st *device.State, _ string, _ time.Time) int {
			return st.BreakDuration
		},
	}
}

func getterTable() map[string]getterFunc {
	return map[string]getterFunc{
		"weight":          func(st *device.State) string { return formatFloat(st.Weight) },
		"age":             func(st *device.State) string { return formatFloat(st.Age) },
		"eatingSpeed":     func(st *device.State) string { return st.EatingSpeed },
		"feedingSchedule": func(st *device.State) string { return st.FeedingSchedule },
		"waterBowlCapacityMl": func(st *device.State) string {
			return strconv.Itoa(st.WaterBowlCapacityMl)
		},
		"waterRefSchedule": func(st *device.State) string { return st.WaterRefSchedule },
		"foodExpDate":      func(st *device.State) string { return formatTime(st.FoodExpDate) },
		"emptyFoodTank":    func(st *device.State) string { return formatBool(st.EmptyFoodTank) },
		"emptyWaterTank":   func(st *device.State) string { return formatBool(st.EmptyWaterTank) },
		"recFoodG":         func(st *device.State) string { return strconv.Itoa(st.RecFoodG) },
		"nrBreaks":         func(st *device.State) string { return strconv.Itoa(st.NrBreaks) },
		"currentQuantityFoodG": func(st *device.State) string {
			return strconv.Itoa(st.CurrentQuantityFoodG)
		},
		"currentQuantityWaterMl": func(st *device.State) string {
			return strconv.Itoa(st.CurrentQuantityWaterMl)
		},
		"refillFood":      func(st *device.State) string { return formatBool(st.RefillFood) },
		"refreshWater":    func(st *device.State) string { return formatBool(st.RefreshWater) },
		"nextFoodRefill":  func(st *device.State) string { return formatTime(st.NextFoodRefill) },
		"nextWaterRefill": func(st *device.State) string { return formatTime(st.NextWaterRefill) },
		"lastConsumedFood": func(st *device.State) string {
			return strconv.Itoa(st.LastConsumedFood)
		},
		"lastConsumedWater": func(st *device.State) string {
			return strconv.Itoa(st.LastConsumedWater)
		},
		"tankSizeFoodG":   func(st *device.State) string { return strconv.Itoa(device.TankSizeFoodG) },
		"tankSizeWaterMl": func(st *device.State) string { return strconv.Itoa(device.TankSizeWaterMl) },
		"breakDuration":   func(st *device.State) string { return strconv.Itoa(st.BreakDuration) },
		"waterLastRefreshed": func(st *device.State) string {
			return formatTime(st.WaterLastRefreshed)
		},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func formatTime(t time.Time) string {
	return t.In(device.Location).Format(time.ANSIC)
}
