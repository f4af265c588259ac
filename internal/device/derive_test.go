package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecommendedFoodGramsUnknownInputs(t *testing.T) {
	assert.Equal(t, 70, RecommendedFoodGrams(-1, -1))
	assert.Equal(t, 70, RecommendedFoodGrams(-1, 2.0))
	assert.Equal(t, 70, RecommendedFoodGrams(4.2, -1))
}

func TestRecommendedFoodGramsAdult(t *testing.T) {
	testCases := []struct {
		name   string
		weight float64
		want   int
	}{
		{"first band", 1.0, 56},
		{"boundary weight maps to lower band", 1.8, 56},
		{"second band", 2.5, 112},
		{"second boundary", 3.6, 112},
		{"third band", 5.0, 168},
		{"fourth band", 7.2, 224},
		{"fifth band", 9.0, 280},
		{"beyond all bands", 9.5, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RecommendedFoodGrams(tc.weight, 2.0))
		})
	}
}

// Weights falling in the same cell of the lookup table must map to the same
// portion.
func TestRecommendedFoodGramsPiecewiseConstant(t *testing.T) {
	for _, w := range []float64{1.9, 2.4, 3.0, 3.6} {
		assert.Equal(t, 112, RecommendedFoodGrams(w, 1.5), "weight %v", w)
	}
}

func TestRecommendedFoodGramsKittenBands(t *testing.T) {
	testCases := []struct {
		name   string
		weight float64
		age    float64
		want   int
	}{
		{"two to five months, lightest", 0.9, 0.25, 112},
		{"two to five months, lower age edge", 0.9, 0.17, 112},
		{"two to five months, heaviest", 9.0, 0.25, 560},
		{"five to seven months, lightest", 0.9, 0.5, 56},
		{"five to seven months, lower age edge", 0.9, 0.42, 56},
		{"five to seven months, middle", 4.5, 0.5, 168},
		{"seven to twelve months, lightest", 1.8, 0.75, 56},
		{"seven to twelve months, lower age edge", 1.8, 0.58, 56},
		{"seven to twelve months, one year old", 9.0, 1.0, 224},
		{"just over a year is adult", 9.0, 1.01, 280},
		{"younger than any band", 1.0, 0.1, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RecommendedFoodGrams(tc.weight, tc.age))
		})
	}
}

func TestBreaksForSpeed(t *testing.T) {
	breaks, ok := BreaksForSpeed("slow")
	assert.True(t, ok)
	assert.Equal(t, 0, breaks)

	breaks, ok = BreaksForSpeed("medium")
	assert.True(t, ok)
	assert.Equal(t, 1, breaks)

	breaks, ok = BreaksForSpeed("fast")
	assert.True(t, ok)
	assert.Equal(t, 2, breaks)

	_, ok = BreaksForSpeed("unknown")
	assert.False(t, ok)
}

func TestComputeBreaksKeepsPriorValueOnUnknownSpeed(t *testing.T) {
	st := NewState()
	st.EatingSpeed = "fast"
	st.ComputeBreaks()
	assert.Equal(t, 2, st.NrBreaks)

	st.EatingSpeed = "warp"
	st.ComputeBreaks()
	assert.Equal(t, 2, st.NrBreaks)
}

func TestFoodExpired(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 12, 0, 0, 0, Location)
	}

	testCases := []struct {
		name string
		now  time.Time
		exp  time.Time
		want bool
	}{
		{"unset expiry", date(2024, time.March, 15), time.Time{}, false},
		{"earlier expiry year", date(2024, time.March, 15), date(2023, time.March, 15), true},
		{"later expiry year", date(2023, time.March, 15), date(2024, time.March, 15), false},
		{"same year, earlier expiry month", date(2024, time.May, 15), date(2024, time.March, 15), true},
		{"same year, later expiry month", date(2024, time.March, 15), date(2024, time.May, 15), false},
		{"same month, current day below expiry day", date(2024, time.March, 10), date(2024, time.March, 20), true},
		{"same month, current day past expiry day", date(2024, time.March, 25), date(2024, time.March, 20), false},
		{"same day", date(2024, time.March, 20), date(2024, time.March, 20), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := NewState()
			st.FoodExpDate = tc.exp
			assert.Equal(t, tc.want, st.FoodExpired(tc.now))
			if tc.want {
				assert.Equal(t, SeverityRed, st.Alerts[AlertExpiredFood])
			} else {
				assert.Equal(t, SeverityOff, st.Alerts[AlertExpiredFood])
			}
		})
	}
}

func TestComputeNextFoodRefill(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("default schedule and unknown cat", func(t *testing.T) {
		st := NewState()
		st.ComputeNextFoodRefill(now)

		// 70 g recommendation, two feedings a day: 140 g/day over a full
		// 1000 g tank is 7 days 3 h 25 m, plus the 3 h zone offset.
		want := now.Add(3*time.Hour).AddDate(0, 0, 7).Add(3*time.Hour + 25*time.Minute)
		assert.True(t, st.NextFoodRefill.Equal(want), "got %v want %v", st.NextFoodRefill, want)
		assert.Equal(t, "08:00 19:00 ", st.FeedingSchedule)
		assert.Equal(t, 70, st.RecFoodG)
	})

	t.Run("pending refill short-circuits", func(t *testing.T) {
		st := NewState()
		st.RefillFood = true
		st.ComputeNextFoodRefill(now)

		assert.True(t, st.NextFoodRefill.Equal(now.Add(3*time.Hour)))
		assert.Equal(t, SeverityYellow, st.Alerts[AlertEmptyTank])
	})

	t.Run("clamped to expiry date", func(t *testing.T) {
		st := NewState()
		st.FoodExpDate = now.AddDate(0, 0, 1)
		st.ComputeNextFoodRefill(now)

		assert.True(t, st.NextFoodRefill.Equal(st.FoodExpDate))
	})

	t.Run("expiry after candidate is ignored", func(t *testing.T) {
		st := NewState()
		st.FoodExpDate = now.AddDate(0, 1, 0)
		st.ComputeNextFoodRefill(now)

		assert.False(t, st.NextFoodRefill.Equal(st.FoodExpDate))
	})
}

func TestComputeNextWaterRefill(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("default bowl and schedule", func(t *testing.T) {
		st := NewState()
		st.ComputeNextWaterRefill(now)

		// 200 ml bowl twice a day empties 3000 ml in 7.5 days.
		want := now.Add(3*time.Hour).AddDate(0, 0, 7).Add(12 * time.Hour)
		assert.True(t, st.NextWaterRefill.Equal(want), "got %v want %v", st.NextWaterRefill, want)
		assert.Equal(t, 200, st.WaterBowlCapacityMl)
	})

	t.Run("empty tank short-circuits", func(t *testing.T) {
		st := NewState()
		st.EmptyWaterTank = true
		st.ComputeNextWaterRefill(now)

		assert.True(t, st.NextWaterRefill.Equal(now.Add(3*time.Hour)))
		assert.Equal(t, SeverityYellow, st.Alerts[AlertEmptyTank])
	})
}

func TestCheckWaterRefresh(t *testing.T) {
	now := time.Date(2024, time.March, 1, 20, 0, 0, 0, time.UTC)

	t.Run("never refreshed", func(t *testing.T) {
		st := NewState()
		st.CheckWaterRefresh(now)
		assert.Equal(t, SeverityOrange, st.Alerts[AlertWaterRefresh])
	})

	t.Run("within the scheduled interval", func(t *testing.T) {
		st := NewState()
		st.WaterLastRefreshed = now.Add(-10 * time.Hour)
		st.CheckWaterRefresh(now)
		assert.Equal(t, SeverityOff, st.Alerts[AlertWaterRefresh])
	})

	t.Run("past the scheduled interval", func(t *testing.T) {
		st := NewState()
		st.WaterLastRefreshed = now.Add(-12 * time.Hour)
		st.CheckWaterRefresh(now)
		assert.Equal(t, SeverityOrange, st.Alerts[AlertWaterRefresh])
	})

	t.Run("custom schedule widens the interval", func(t *testing.T) {
		st := NewState()
		st.WaterRefSchedule = "06:00 20:00  "
		st.WaterLastRefreshed = now.Add(-12 * time.Hour)
		st.CheckWaterRefresh(now)
		assert.Equal(t, SeverityOff, st.Alerts[AlertWaterRefresh])
	})
}
