// Package game runs the fish simulation: one Game owns the arena, the spatial
// grid, the population list and the telemetry for a single run.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// Options configures a Game beyond the simulation config.
type Options struct {
	Seed      int64
	LogStats  bool   // log window stats and perf via slog
	OutputDir string // empty disables file output

	// Sinks receive every event in addition to the built-in collector.
	Sinks []telemetry.Sink

	// StatsCallback, if set, receives each flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// OldestFish records the oldest fish seen at the head of the population list.
type OldestFish struct {
	ID         uint32
	Age        int32
	Generation int
	Genome     components.Genome
}

// Game holds the complete simulation state for one run.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64
	runID string

	// Entity mappers
	fishMapper *ecs.Map4[components.Position, components.Velocity, components.Genome, components.Fish]
	predMapper *ecs.Map3[components.Position, components.Velocity, components.Predator]

	// Component lookups
	posMap    *ecs.Map[components.Position]
	velMap    *ecs.Map[components.Velocity]
	genomeMap *ecs.Map[components.Genome]
	fishMap   *ecs.Map[components.Fish]
	predMap   *ecs.Map[components.Predator]

	grid     *systems.SpatialGrid
	food     []systems.FoodPoint
	fishSys  *systems.FishSystem
	predSys  *systems.PredatorSystem
	foodSys  *systems.FoodSystem
	predator ecs.Entity

	// Population list in insertion order; the predator is not a member.
	population []ecs.Entity

	// Per-tick scratch
	starved   []ecs.Entity
	juveniles []ecs.Entity
	events    []telemetry.Event
	unwritten []telemetry.Event

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	sinks         []telemetry.Sink
	statsCallback func(telemetry.WindowStats)
	logStats      bool

	// State
	tick    int32
	nextID  uint32
	initial int
	eaten   int
	dead    int // starved
	born    int
	oldest  OldestFish
	hasOld  bool
}

// NewGame creates a game from cfg and spawns the initial population.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	world := ecs.NewWorld()

	g := &Game{
		cfg:        cfg,
		world:      world,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		seed:       opts.Seed,
		runID:      telemetry.NewRunID(),
		fishMapper: ecs.NewMap4[components.Position, components.Velocity, components.Genome, components.Fish](world),
		predMapper: ecs.NewMap3[components.Position, components.Velocity, components.Predator](world),
		posMap:     ecs.NewMap[components.Position](world),
		velMap:     ecs.NewMap[components.Velocity](world),
		genomeMap:  ecs.NewMap[components.Genome](world),
		fishMap:    ecs.NewMap[components.Fish](world),
		predMap:    ecs.NewMap[components.Predator](world),

		grid:    systems.NewSpatialGrid(cfg.Derived.Width, cfg.Derived.Height, cfg.Grid.CellSize),
		fishSys: systems.NewFishSystem(world, cfg),
		predSys: systems.NewPredatorSystem(world, cfg),
		foodSys: systems.NewFoodSystem(world, cfg.Fish.MaxHunger),

		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Telemetry.TicksPerSecond),
		sinks:         opts.Sinks,
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
	}
	if opts.LogStats {
		g.perf = telemetry.NewPerfCollector(cfg.Telemetry.StatsWindow)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	for _, loc := range cfg.Derived.FoodLocations {
		g.food = append(g.food, systems.NewFoodPoint(loc.X, loc.Y, cfg.Food.Capacity, cfg.Food.Radius, cfg.Food.Timeout))
	}

	g.spawnPredator()
	g.spawnInitialPopulation()

	slog.Debug("game created",
		"run_id", g.runID,
		"seed", opts.Seed,
		"fish", len(g.population),
		"grid_rows", g.grid.Rows(),
		"grid_cols", g.grid.Columns(),
	)
	return g, nil
}

// Step advances the simulation by one tick and returns the events it produced.
// The returned slice is reused by the next call.
func (g *Game) Step() []telemetry.Event {
	g.perf.StartTick()
	g.tick++
	g.events = g.events[:0]

	g.perf.StartPhase(telemetry.PhaseLifeStages)
	g.assignLifeStages()

	g.perf.StartPhase(telemetry.PhaseFood)
	g.collector.RecordMeals(g.foodSys.Update(g.grid, g.food))

	g.perf.StartPhase(telemetry.PhaseFish)
	g.updateFish()

	g.perf.StartPhase(telemetry.PhaseStarvation)
	g.removeStarved()

	g.perf.StartPhase(telemetry.PhasePredator)
	g.updatePredator()

	g.clearJuveniles()
	g.trackOldest()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perf.EndTick()

	return g.events
}

// Run steps until the population dies out or maxTicks is reached (0 = no limit).
func (g *Game) Run(maxTicks int) {
	for !g.Done() {
		if maxTicks > 0 && int(g.tick) >= maxTicks {
			return
		}
		g.Step()
	}
}

// Done reports whether every fish has died.
func (g *Game) Done() bool {
	return len(g.population) == 0
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the RNG seed of the run.
func (g *Game) Seed() int64 {
	return g.seed
}

// RunID returns the unique identifier of the run.
func (g *Game) RunID() string {
	return g.runID
}

// Population returns the number of living fish.
func (g *Game) Population() int {
	return len(g.population)
}

// Eaten returns the number of fish captured so far.
func (g *Game) Eaten() int {
	return g.eaten
}

// Starved returns the number of fish that starved so far.
func (g *Game) Starved() int {
	return g.dead
}

// Born returns the number of offspring so far.
func (g *Game) Born() int {
	return g.born
}

// Oldest returns the oldest-fish record, if any fish has been seen.
func (g *Game) Oldest() (OldestFish, bool) {
	return g.oldest, g.hasOld
}

// Food returns the food points. Callers must not modify them.
func (g *Game) Food() []systems.FoodPoint {
	return g.food
}

// Grid returns the spatial grid. Callers must not modify it.
func (g *Game) Grid() *systems.SpatialGrid {
	return g.grid
}

// Generation returns the approximate generation count at the current tick.
func (g *Game) Generation() int {
	return telemetry.Generation(g.tick, 0, g.cfg.Telemetry.GenerationTicks)
}

// TimeSec returns the simulated time in seconds.
func (g *Game) TimeSec() float64 {
	return g.collector.Seconds(g.tick)
}

// Summary returns the end-of-run statistics so far.
func (g *Game) Summary() telemetry.RunSummary {
	born, starved, captured := g.collector.Totals()
	s := telemetry.RunSummary{
		RunID:       g.runID,
		Seed:        g.seed,
		EndTick:     g.tick,
		EndTimeSec:  g.TimeSec(),
		Fish:        len(g.population),
		Eaten:       captured,
		Starved:     starved,
		Born:        born,
		Total:       g.initial + born,
		Generations: g.Generation(),
		Evolution:   g.cfg.Evolution.Enabled,
		Stochastic:  g.cfg.Stochastic.Enabled,
	}
	if g.hasOld {
		s.SetBestGenotype(g.oldest.Genome)
		s.OldestAgeSec = g.collector.Seconds(g.oldest.Age)
	}
	return s
}

// Close writes the remaining events, the run summary and the per-generation
// output, then closes the output files.
func (g *Game) Close() error {
	if g.outputManager == nil {
		return nil
	}
	defer func() { g.outputManager = nil }()

	if err := g.outputManager.WriteEvents(g.unwritten); err != nil {
		g.outputManager.Close()
		return err
	}
	g.unwritten = g.unwritten[:0]
	if err := g.outputManager.WriteSummary(g.Summary()); err != nil {
		g.outputManager.Close()
		return err
	}
	if err := g.outputManager.WriteGenerations(g.collector.Generations()); err != nil {
		g.outputManager.Close()
		return err
	}

	slog.Info("run output written", "run_id", g.runID, "dir", g.outputManager.Dir())
	return g.outputManager.Close()
}
