package anneal

import "math"

// Acceptance band the adaptive schedule steers toward. Cooling speeds up
// above the band and slows down below it.
const (
	adaptiveBandLow    = 0.20
	adaptiveBandHigh   = 0.40
	adaptiveWindowSize = 50
)

// cooler owns the temperature for one run and advances it once per
// iteration according to the configured schedule.
type cooler struct {
	schedule Schedule
	initial  float64
	final    float64
	maxIter  int

	temp  float64
	alpha float64
	step  float64

	// Sliding acceptance window for the adaptive schedule.
	window   []bool
	windowAt int
}

func newCooler(cfg Config) *cooler {
	c := &cooler{
		schedule: cfg.CoolingSchedule,
		initial:  cfg.InitialTemperature,
		final:    cfg.FinalTemperature,
		maxIter:  cfg.MaxIterations,
		temp:     cfg.InitialTemperature,
	}
	// Exponential decay rate that lands on the final temperature after
	// maxIter iterations; also the adaptive schedule's starting point.
	c.alpha = math.Pow(cfg.FinalTemperature/cfg.InitialTemperature, 1.0/float64(cfg.MaxIterations))
	c.step = (cfg.InitialTemperature - cfg.FinalTemperature) / float64(cfg.MaxIterations)
	return c
}

// temperature returns the current value without advancing it.
func (c *cooler) temperature() float64 {
	return c.temp
}

// cool advances the temperature after iteration number iter (1-based).
// accepted reports whether the iteration's proposal was accepted; only
// the adaptive schedule consumes it.
func (c *cooler) cool(iter int, accepted bool) {
	switch c.schedule {
	case ScheduleLinear:
		c.temp -= c.step
	case ScheduleExponential:
		c.temp *= c.alpha
	case ScheduleLogarithmic:
		c.temp = c.initial / math.Log(float64(iter)+1)
	case ScheduleAdaptive:
		c.observe(accepted)
		c.temp *= c.alpha
	}
	if c.temp < c.final {
		c.temp = c.final
	}
}

// observe feeds the adaptive schedule's acceptance window and, once per
// full window, nudges alpha to keep the recent acceptance rate inside
// the configured band.
func (c *cooler) observe(accepted bool) {
	c.window = append(c.window, accepted)
	c.windowAt++
	if len(c.window) > adaptiveWindowSize {
		c.window = c.window[1:]
	}
	if c.windowAt%adaptiveWindowSize != 0 || len(c.window) < adaptiveWindowSize {
		return
	}
	accepts := 0
	for _, a := range c.window {
		if a {
			accepts++
		}
	}
	rate := float64(accepts) / float64(len(c.window))
	switch {
	case rate > adaptiveBandHigh:
		// Too permissive: cool faster.
		c.alpha *= 0.995
	case rate < adaptiveBandLow:
		// Too frozen: cool slower.
		c.alpha += (1 - c.alpha) * 0.5
	}
	if c.alpha >= 1 {
		c.alpha = 0.9999
	}
}
