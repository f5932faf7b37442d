package telemetry

import (
	"maps"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/components"
)

// GenerationStat summarises the fish of one approximate generation that have died.
type GenerationStat struct {
	Generation int     `csv:"generation"`
	Deaths     int     `csv:"deaths"`
	MeanAgeSec float64 `csv:"mean_age_sec"`
}

// Collector accumulates events within time windows and produces WindowStats.
// It implements Sink.
type Collector struct {
	windowTicks    int32
	ticksPerSecond float64

	windowStartTick int32

	// Counters for the current window
	births    int
	starved   int
	captured  int
	meals     int
	lifespans []float64

	// Run totals
	totalBorn     int
	totalStarved  int
	totalCaptured int

	// Ages at death in seconds, keyed by generation
	generations map[int][]float64
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks, ticksPerSecond int) *Collector {
	return &Collector{
		windowTicks:    int32(max(windowTicks, 1)),
		ticksPerSecond: float64(max(ticksPerSecond, 1)),
		generations:    make(map[int][]float64),
	}
}

// Record implements Sink.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventBorn:
		c.births++
		c.totalBorn++
		return
	case EventStarved:
		c.starved++
		c.totalStarved++
	case EventCaptured:
		c.captured++
		c.totalCaptured++
	}
	age := c.Seconds(ev.Age)
	c.lifespans = append(c.lifespans, age)
	c.generations[ev.Generation] = append(c.generations[ev.Generation], age)
}

// RecordMeals adds food servings to the current window.
func (c *Collector) RecordMeals(n int) {
	c.meals += n
}

// Seconds converts ticks to simulated seconds.
func (c *Collector) Seconds(ticks int32) float64 {
	return float64(ticks) / c.ticksPerSecond
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces stats for the current window and starts a new one.
func (c *Collector) Flush(currentTick int32, genomes []components.Genome) WindowStats {
	s := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      c.Seconds(currentTick),
		Fish:            len(genomes),
		Births:          c.births,
		Starved:         c.starved,
		Captured:        c.captured,
		Meals:           c.meals,
	}

	if len(c.lifespans) > 0 {
		s.LifespanMean = stat.Mean(c.lifespans, nil)
		s.LifespanP50 = Quantile(c.lifespans, 0.5)
		s.LifespanP90 = Quantile(c.lifespans, 0.9)
	}

	mean, std := ComputeGeneStats(genomes)
	s.SeparationMean = mean[components.GeneSeparation]
	s.AlignmentMean = mean[components.GeneAlignment]
	s.CohesionMean = mean[components.GeneCohesion]
	s.FoodMean = mean[components.GeneFood]
	s.FleeMean = mean[components.GeneFlee]
	s.HungerMean = mean[components.GeneHunger]
	s.HungerStd = std[components.GeneHunger]

	c.windowStartTick = currentTick
	c.births, c.starved, c.captured, c.meals = 0, 0, 0, 0
	c.lifespans = c.lifespans[:0]
	return s
}

// Totals returns the run totals of births, starvations and captures.
func (c *Collector) Totals() (born, starved, captured int) {
	return c.totalBorn, c.totalStarved, c.totalCaptured
}

// Generations returns per-generation statistics ordered by generation.
func (c *Collector) Generations() []GenerationStat {
	keys := slices.Sorted(maps.Keys(c.generations))
	out := make([]GenerationStat, 0, len(keys))
	for _, gen := range keys {
		ages := c.generations[gen]
		out = append(out, GenerationStat{
			Generation: gen,
			Deaths:     len(ages),
			MeanAgeSec: stat.Mean(ages, nil),
		})
	}
	return out
}
