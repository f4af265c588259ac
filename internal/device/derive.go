package device

import (
	"math"
	"strings"
	"time"
)

// weightBand maps an inclusive upper weight bound to a cup portion.
type weightBand struct {
	maxKg float64
	cups  float64
}

// Feeding tables per age band. Bounds are inclusive: a weight exactly on a
// breakpoint falls into the lower band.
var (
	bandsAdult = []weightBand{
		{1.8, 0.25}, {3.6, 0.5}, {5.4, 0.75}, {7.2, 1.0}, {9.0, 1.25},
	}
	bands2to5Months = []weightBand{
		{0.9, 0.5}, {1.8, 0.75}, {2.7, 1.0}, {3.6, 1.25}, {4.5, 1.5},
		{5.4, 1.75}, {6.3, 2.0}, {8.1, 2.25}, {9.0, 2.5},
	}
	bands5to7Months = []weightBand{
		{0.9, 0.25}, {2.7, 0.5}, {4.5, 0.75}, {6.3, 1.0}, {9.0, 1.25},
	}
	bands7to12Months = []weightBand{
		{1.8, 0.25}, {4.5, 0.5}, {7.2, 0.75}, {9.0, 1.0},
	}
)

// RecommendedFoodGrams returns the daily food recommendation in grams for a
// cat of the given weight and age. Unknown weight or age (sentinel -1)
// yields the average portion of 70 g; a weight beyond every band yields 0.
func RecommendedFoodGrams(weightKg, ageYears float64) int {
	if weightKg == -1.0 || ageYears == -1.0 {
		return defaultRecFoodG
	}

	var bands []weightBand
	switch {
	case ageYears > 1.0:
		bands = bandsAdult
	case ageYears >= 0.17 && ageYears < 0.42:
		bands = bands2to5Months
	case ageYears >= 0.42 && ageYears < 0.58:
		bands = bands5to7Months
	case ageYears >= 0.58 && ageYears <= 1.0:
		bands = bands7to12Months
	}

	cups := 0.0
	for _, b := range bands {
		if weightKg <= b.maxKg {
			cups = b.cups
			break
		}
	}
	return int(math.Round(gramsPerCup * cups))
}

// BreaksForSpeed maps an eating speed to the number of feeding breaks.
// An unrecognized speed reports ok == false and the caller keeps the prior
// break count.
func BreaksForSpeed(speed string) (breaks int, ok bool) {
	switch speed {
	case "slow":
		return 0, true
	case "medium":
		return 1, true
	case "fast":
		return 2, true
	}
	return 0, false
}

// ComputeRecFood refreshes the derived food recommendation.
func (s *State) ComputeRecFood() {
	s.RecFoodG = RecommendedFoodGrams(s.Weight, s.Age)
}

// ComputeBreaks refreshes the derived break count. Unrecognized speeds leave
// the prior value in place.
func (s *State) ComputeBreaks() {
	if n, ok := BreaksForSpeed(s.EatingSpeed); ok {
		s.NrBreaks = n
	}
}

// ComputeNextFoodRefill derives the next food refill timestamp. A pending
// refill short-circuits to now+3h and raises the empty-tank alert.
func (s *State) ComputeNextFoodRefill(now time.Time) {
	if s.RefillFood {
		s.NextFoodRefill = now.Add(tzOffset).In(Location)
		s.Alerts[AlertEmptyTank] = SeverityYellow
		return
	}
	if s.RecFoodG <= 0 {
		s.ComputeRecFood()
	}
	if s.FeedingSchedule == "" {
		s.FeedingSchedule = defaultSchedule
	}

	// Daily consumption: the schedule is a run of 6-character "HH:MM "
	// tokens, so len/6 counts the feedings per day.
	dailyG := s.RecFoodG * len(s.FeedingSchedule) / 6
	candidate := refillEstimate(s.CurrentQuantityFoodG, dailyG, now)
	if !s.FoodExpDate.IsZero() && s.FoodExpDate.Before(candidate) {
		s.NextFoodRefill = s.FoodExpDate
		return
	}
	s.NextFoodRefill = candidate
}

// ComputeNextWaterRefill mirrors the food computation for the water tank.
// An empty tank short-circuits to now+3h and raises the empty-tank alert.
func (s *State) ComputeNextWaterRefill(now time.Time) {
	if s.EmptyWaterTank {
		s.Alerts[AlertEmptyTank] = SeverityYellow
		s.NextWaterRefill = now.Add(tzOffset).In(Location)
		return
	}
	if s.WaterBowlCapacityMl == -1 {
		s.WaterBowlCapacityMl = defaultBowlCapacityMl
	}
	if s.WaterRefSchedule == "" {
		s.WaterRefSchedule = defaultSchedule
	}

	dailyMl := s.WaterBowlCapacityMl * len(s.WaterRefSchedule) / 6
	s.NextWaterRefill = refillEstimate(s.CurrentQuantityWaterMl, dailyMl, now)
}

// refillEstimate converts the remaining quantity into a fractional day
// count at the given daily consumption and adds it, split into days, hours
// and minutes, plus the fixed zone offset, to now. A non-positive daily
// amount falls back to now+3h rather than dividing by zero.
func refillEstimate(quantity, daily int, now time.Time) time.Time {
	if daily <= 0 {
		return now.Add(tzOffset).In(Location)
	}
	days := float64(quantity) / float64(daily)
	hours := (days - math.Trunc(days)) * 24
	minutes := (hours - math.Trunc(hours)) * 60
	return now.Add(tzOffset).
		AddDate(0, 0, int(days)).
		Add(time.Duration(int(hours))*time.Hour + time.Duration(int(minutes))*time.Minute).
		In(Location)
}

// FoodExpired reports whether the stored food is past its expiry date and
// raises the expired-food alert when it is. The comparison walks year, then
// month, then day-of-month; within the matching year and month it fires
// when the current day-of-month is *less* than the expiry's. That day
// comparison matches the device firmware and must not be flipped.
func (s *State) FoodExpired(now time.Time) bool {
	if s.FoodExpDate.IsZero() {
		return false
	}
	n := now.In(Location)
	e := s.FoodExpDate.In(Location)

	expired := false
	switch {
	case n.Year() > e.Year():
		expired = true
	case n.Year() == e.Year() && n.Month() > e.Month():
		expired = true
	case n.Year() == e.Year() && n.Month() == e.Month() && n.Day() < e.Day():
		expired = true
	}
	if expired {
		s.Alerts[AlertExpiredFood] = SeverityRed
	}
	return expired
}

// CheckWaterRefresh raises the water-refresh alert when the bowl has never
// been refreshed, or when more time has passed since the last refresh than
// the scheduled interval between the two daily refresh slots.
func (s *State) CheckWaterRefresh(now time.Time) {
	if s.WaterLastRefreshed.IsZero() {
		s.Alerts[AlertWaterRefresh] = SeverityOrange
		return
	}

	first, second := "08:00", "19:00"
	if len(s.WaterRefSchedule) >= 13 {
		if tokens := strings.Fields(s.WaterRefSchedule); len(tokens) >= 2 {
			first, second = tokens[0], tokens[1]
		}
	}
	t1, err1 := time.Parse("15:04", first)
	t2, err2 := time.Parse("15:04", second)
	if err1 != nil || err2 != nil {
		t1, _ = time.Parse("15:04", "08:00")
		t2, _ = time.Parse("15:04", "19:00")
	}
	interval := t2.Sub(t1)

	if now.Sub(s.WaterLastRefreshed) > interval {
		s.Alerts[AlertWaterRefresh] = SeverityOrange
	}
}
