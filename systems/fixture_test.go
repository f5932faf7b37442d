package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// fixture is a minimal world with a grid, used by the system tests.
// It also acts as the Nursery for fish updates.
type fixture struct {
	cfg        *config.Config
	world      *ecs.World
	grid       *SpatialGrid
	fishMapper *ecs.Map4[components.Position, components.Velocity, components.Genome, components.Fish]
	predMapper *ecs.Map3[components.Position, components.Velocity, components.Predator]
	rng        *rand.Rand
	births     []Birth
	full       bool
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	cfg := config.Default()
	world := ecs.NewWorld()
	return &fixture{
		cfg:        cfg,
		world:      world,
		grid:       NewSpatialGrid(cfg.Derived.Width, cfg.Derived.Height, cfg.Grid.CellSize),
		fishMapper: ecs.NewMap4[components.Position, components.Velocity, components.Genome, components.Fish](world),
		predMapper: ecs.NewMap3[components.Position, components.Velocity, components.Predator](world),
		rng:        rand.New(rand.NewSource(7)),
	}
}

// testGenome returns a mid-range genome with the given hunger fraction.
func testGenome(hunger float64) components.Genome {
	return components.Genome{Genes: [components.NumGenes]float64{1, 1, 0.5, 1, 1, hunger}}
}

func (f *fixture) addFish(x, y float64, genome components.Genome, hunger int) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	fish := components.Fish{Hunger: hunger}
	e := f.fishMapper.NewEntity(&pos, &vel, &genome, &fish)
	f.grid.Insert(Ref{E: e, Kind: components.KindFish}, x, y)
	return e
}

func (f *fixture) addPredator(x, y, vx, vy float64) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{X: vx, Y: vy}
	pred := components.Predator{Size: f.cfg.Predator.Size}
	e := f.predMapper.NewEntity(&pos, &vel, &pred)
	f.grid.Insert(Ref{E: e, Kind: components.KindPredator}, x, y)
	return e
}

func (f *fixture) Room() bool { return !f.full }

func (f *fixture) SpawnOffspring(b Birth) ecs.Entity {
	f.births = append(f.births, b)
	return f.addFish(b.X, b.Y, b.Genome, f.cfg.Fish.MaxHunger)
}

// gridHolds reports whether the cell of (x, y) contains e.
func (f *fixture) gridHolds(e ecs.Entity, kind components.Kind, x, y float64) bool {
	r, c := f.grid.CellOf(x, y)
	for _, ref := range f.grid.Cell(r, c) {
		if ref == (Ref{E: e, Kind: kind}) {
			return true
		}
	}
	return false
}
