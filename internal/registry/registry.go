// Package registry defines the closed set of CatAway settings, each name's
// value kind, and whether the name is accepted by the setter path.
package registry

// Kind describes how a setting's value is parsed and formatted.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindString
	KindBool
	KindTimestamp
)

// Spec describes a single named setting.
type Spec struct {
	Kind     Kind
	Writable bool
}

// The setter name "waterBowlWeightG" writes the field that is read back as
// "waterBowlCapacityMl"; both names are part of the registry.
var settings = map[string]Spec{
	"weight":                 {KindFloat, true},
	"age":                    {KindFloat, true},
	"eatingSpeed":            {KindString, true},
	"feedingSchedule":        {KindString, false},
	"waterBowlWeightG":       {KindInt, true},
	"waterBowlCapacityMl":    {KindInt, false},
	"waterRefSchedule":       {KindString, true},
	"foodExpDate":            {KindTimestamp, true},
	"emptyFoodTank":          {KindBool, true},
	"emptyWaterTank":         {KindBool, true},
	"lastConsumedFood":       {KindInt, true},
	"lastConsumedWater":      {KindInt, true},
	"foodIsRefilled":         {KindBool, true},
	"waterIsRefilled":        {KindBool, true},
	"waterIsRefreshed":       {KindBool, true},
	"waterLastRefreshed":     {KindTimestamp, true},
	"breakDuration":          {KindInt, true},
	"recFoodG":               {KindInt, false},
	"nrBreaks":               {KindInt, false},
	"currentQuantityFoodG":   {KindInt, false},
	"currentQuantityWaterMl": {KindInt, false},
	"refillFood":             {KindBool, false},
	"refreshWater":           {KindBool, false},
	"nextFoodRefill":         {KindTimestamp, false},
	"nextWaterRefill":        {KindTimestamp, false},
	"tankSizeFoodG":          {KindInt, false},
	"tankSizeWaterMl":        {KindInt, false},
}

// Describe reports the Spec for a setting name. Unknown names are a normal
// condition: callers must handle exists == false explicitly.
func Describe(name string) (Spec, bool) {
	s, ok := settings[name]
	return s, ok
}

// Names returns every registered setting name. Order is not defined.
func Names() []string {
	out := make([]string, 0, len(settings))
	for name := range settings {
		out = append(out, name)
	}
	return out
}
