package game

import (
	"log/slog"
	"math/rand"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// spawnPredator creates the single predator at its configured start.
func (g *Game) spawnPredator() {
	pc := g.cfg.Predator
	pos := components.Position{X: pc.StartX, Y: pc.StartY}
	vel := components.Velocity{X: pc.StartVX, Y: pc.StartVY}
	pred := components.Predator{Size: pc.Size}

	g.predator = g.predMapper.NewEntity(&pos, &vel, &pred)
	g.grid.Insert(systems.Ref{E: g.predator, Kind: components.KindPredator}, pos.X, pos.Y)
}

// spawnInitialPopulation creates the starting fish.
func (g *Game) spawnInitialPopulation() {
	w, h := g.cfg.Derived.Width, g.cfg.Derived.Height
	for i := 0; i < g.cfg.Population.Initial; i++ {
		color := systems.RandomColor(g.rng)
		pos := components.Position{
			X: uniform(g.rng, 0.1, 0.9) * w,
			Y: uniform(g.rng, 0, 0.9) * h,
		}
		g.spawnFish(pos, color, g.initialGenome())
	}
	g.initial = len(g.population)
}

// spawnFish creates a fish with random velocity, hunger and reproduction timer.
func (g *Game) spawnFish(pos components.Position, color components.Color, genome components.Genome) ecs.Entity {
	fc := g.cfg.Fish
	vel := components.Velocity{
		X: uniform(g.rng, -fc.InitialSpeed, fc.InitialSpeed),
		Y: uniform(g.rng, -fc.InitialSpeed, fc.InitialSpeed),
	}
	fish := components.Fish{
		ID:         g.nextID,
		Hunger:     fc.InitialHungerMin + g.rng.Intn(fc.InitialHungerMax-fc.InitialHungerMin),
		ReproTimer: g.rng.Intn(fc.InitialReproTimerMax),
		BirthTick:  g.tick,
		Color:      color,
	}
	g.nextID++

	e := g.fishMapper.NewEntity(&pos, &vel, &genome, &fish)
	g.population = append(g.population, e)
	g.grid.Insert(systems.Ref{E: e, Kind: components.KindFish}, pos.X, pos.Y)
	return e
}

// initialGenome returns the configured seed genome or a random one.
func (g *Game) initialGenome() components.Genome {
	seed := g.cfg.Population.SeedGenome
	if len(seed) != components.NumGenes {
		return systems.RandomGenome(g.rng)
	}
	var genome components.Genome
	copy(genome.Genes[:], seed)
	genome.Clamp()
	return genome
}

// Room implements systems.Nursery.
func (g *Game) Room() bool {
	return g.cfg.Population.Max == 0 || len(g.population) < g.cfg.Population.Max
}

// SpawnOffspring implements systems.Nursery. Children without an inherited
// genome start like an initial fish.
func (g *Game) SpawnOffspring(b systems.Birth) ecs.Entity {
	genome := b.Genome
	if !b.Inherited {
		genome = g.initialGenome()
	}

	e := g.spawnFish(components.Position{X: b.X, Y: b.Y}, b.Color, genome)
	g.born++

	parent := g.fishMap.Get(b.Parent)
	child := g.fishMap.Get(e)
	g.emit(telemetry.NewBornEvent(g.tick, child.ID, parent.ID, g.generationOf(0)))
	return e
}

// removeStarved applies the second phase of starvation removal: fish already
// taken out of the grid during the pass leave the list and the world.
func (g *Game) removeStarved() {
	if len(g.starved) == 0 {
		return
	}

	for _, e := range g.starved {
		f := g.fishMap.Get(e)
		g.dead++
		g.emit(telemetry.NewStarvedEvent(g.tick, f.ID, f.Age, g.generationOf(f.Age)))
	}

	g.population = slices.DeleteFunc(g.population, func(e ecs.Entity) bool {
		return slices.Contains(g.starved, e)
	})
	for _, e := range g.starved {
		g.world.RemoveEntity(e)
	}
	g.starved = g.starved[:0]
}

// removeCaptured drops a fish taken by the predator. The predator already
// removed it from the grid.
func (g *Game) removeCaptured(victim ecs.Entity) {
	i := slices.Index(g.population, victim)
	if i < 0 {
		return
	}

	f := g.fishMap.Get(victim)
	g.eaten++
	g.emit(telemetry.NewCapturedEvent(g.tick, f.ID, f.Age, g.generationOf(f.Age)))

	g.population = slices.Delete(g.population, i, i+1)
	g.world.RemoveEntity(victim)
}

// emit delivers an event to the step result, the collector and every sink.
func (g *Game) emit(ev telemetry.Event) {
	g.events = append(g.events, ev)
	if g.outputManager != nil {
		g.unwritten = append(g.unwritten, ev)
	}
	g.collector.Record(ev)
	for _, s := range g.sinks {
		s.Record(ev)
	}
	slog.Debug("fish event",
		"type", ev.Type.String(),
		"tick", ev.Tick,
		"fish_id", ev.FishID,
		"age", ev.Age,
		"generation", ev.Generation,
	)
}

func (g *Game) generationOf(age int32) int {
	return telemetry.Generation(g.tick, age, g.cfg.Telemetry.GenerationTicks)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
