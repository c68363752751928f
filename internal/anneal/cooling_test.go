package anneal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func coolerFor(schedule Schedule) *cooler {
	cfg := DefaultConfig()
	cfg.CoolingSchedule = schedule
	cfg.MaxIterations = 100
	return newCooler(cfg)
}

func TestSchedulesDecreaseMonotonically(t *testing.T) {
	for _, s := range []Schedule{ScheduleLinear, ScheduleExponential, ScheduleLogarithmic, ScheduleAdaptive} {
		t.Run(string(s), func(t *testing.T) {
			c := coolerFor(s)
			// The logarithmic curve only settles below the initial value
			// from the second iteration on.
			c.cool(1, false)
			prev := c.temperature()
			for iter := 2; iter <= 100; iter++ {
				c.cool(iter, iter%3 == 0)
				cur := c.temperature()
				assert.LessOrEqual(t, cur, prev, "iteration %d", iter)
				prev = cur
			}
		})
	}
}

func TestTemperatureFloorsAtFinal(t *testing.T) {
	for _, s := range []Schedule{ScheduleLinear, ScheduleExponential, ScheduleLogarithmic, ScheduleAdaptive} {
		c := coolerFor(s)
		for iter := 1; iter <= 500; iter++ {
			c.cool(iter, false)
		}
		assert.GreaterOrEqual(t, c.temperature(), c.final, "schedule %s", s)
	}
}

func TestExponentialLandsNearFinal(t *testing.T) {
	c := coolerFor(ScheduleExponential)
	for iter := 1; iter <= 100; iter++ {
		c.cool(iter, false)
	}
	assert.InDelta(t, c.final, c.temperature(), c.final*0.05)
}

func TestAdaptiveSpeedsUpWhenTooPermissive(t *testing.T) {
	c := coolerFor(ScheduleAdaptive)
	before := c.alpha
	// A full window of acceptances is far above the target band.
	for iter := 1; iter <= adaptiveWindowSize; iter++ {
		c.cool(iter, true)
	}
	assert.Less(t, c.alpha, before)
}

func TestAdaptiveSlowsDownWhenFrozen(t *testing.T) {
	c := coolerFor(ScheduleAdaptive)
	before := c.alpha
	// A full window of rejections is below the target band.
	for iter := 1; iter <= adaptiveWindowSize; iter++ {
		c.cool(iter, false)
	}
	assert.Greater(t, c.alpha, before)
	assert.Less(t, c.alpha, 1.0)
}

func TestBetterThanTieBreaks(t *testing.T) {
	base := Candidate{Text: "bbb", Complexity: 10}
	base.Score.Total = 0.5

	higher := base
	higher.Score.Total = 0.6
	assert.True(t, higher.betterThan(base))
	assert.False(t, base.betterThan(higher))

	simpler := base
	simpler.Complexity = 5
	assert.True(t, simpler.betterThan(base))

	earlier := base
	earlier.Text = "aaa"
	assert.True(t, earlier.betterThan(base))

	assert.False(t, base.betterThan(base))
}
