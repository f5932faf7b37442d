package game

import (
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

// FishView is the drawable state of one fish.
type FishView struct {
	ID      uint32           `json:"id"`
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	Heading float64          `json:"heading"`
	Color   components.Color `json:"color"`
	Outline []systems.Vec2   `json:"outline"`
}

// PredatorView is the drawable state of the predator.
type PredatorView struct {
	X       float64        `json:"x"`
	Y       float64        `json:"y"`
	Heading float64        `json:"heading"`
	Outline []systems.Vec2 `json:"outline"`
}

// FoodView is the drawable state of a food point.
type FoodView struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Side     float64 `json:"side"`
	Active   bool    `json:"active"`
	Capacity int     `json:"capacity"`
}

// Snapshot is a read-only copy of the world for renderers and streams.
type Snapshot struct {
	RunID    string       `json:"run_id"`
	Tick     int32        `json:"tick"`
	TimeSec  float64      `json:"time_sec"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	CellSize float64      `json:"cell_size"`
	Fish     []FishView   `json:"fish"`
	Predator PredatorView `json:"predator"`
	Food     []FoodView   `json:"food"`

	Eaten   int `json:"eaten"`
	Starved int `json:"starved"`
	Born    int `json:"born"`

	OldestGenes      []float64 `json:"oldest_genes,omitempty"`
	OldestAgeSec     float64   `json:"oldest_age_sec"`
	OldestGeneration int       `json:"oldest_generation"`
	// Approximate generation of the last fish in the list
	YoungestGeneration int `json:"youngest_generation"`
}

// Snapshot copies the current state into a Snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		RunID:    g.runID,
		Tick:     g.tick,
		TimeSec:  g.TimeSec(),
		Width:    g.cfg.Derived.Width,
		Height:   g.cfg.Derived.Height,
		CellSize: g.grid.CellSize(),
		Fish:     make([]FishView, 0, len(g.population)),
		Food:     make([]FoodView, 0, len(g.food)),
		Eaten:    g.eaten,
		Starved:  g.dead,
		Born:     g.born,
	}

	for _, e := range g.population {
		pos, vel, f := g.posMap.Get(e), g.velMap.Get(e), g.fishMap.Get(e)
		s.Fish = append(s.Fish, FishView{
			ID:      f.ID,
			X:       pos.X,
			Y:       pos.Y,
			Heading: systems.Heading(vel.X, vel.Y),
			Color:   f.Color,
			Outline: systems.FishOutline(pos.X, pos.Y, vel.X, vel.Y),
		})
	}

	pos, vel, pred := g.posMap.Get(g.predator), g.velMap.Get(g.predator), g.predMap.Get(g.predator)
	s.Predator = PredatorView{
		X:       pos.X,
		Y:       pos.Y,
		Heading: systems.Heading(vel.X, vel.Y),
		Outline: systems.PredatorOutline(pos.X, pos.Y, vel.X, vel.Y, pred.Size),
	}

	for i := range g.food {
		f := &g.food[i]
		s.Food = append(s.Food, FoodView{
			X:        f.X,
			Y:        f.Y,
			Side:     f.Side(g.cfg.Grid.CellSize),
			Active:   f.Active,
			Capacity: f.Capacity,
		})
	}

	if g.hasOld {
		s.OldestGenes = append([]float64(nil), g.oldest.Genome.Genes[:]...)
		s.OldestAgeSec = g.collector.Seconds(g.oldest.Age)
		s.OldestGeneration = g.oldest.Generation
	}
	if n := len(g.population); n > 0 {
		s.YoungestGeneration = g.generationOf(g.fishMap.Get(g.population[n-1]).Age)
	}
	return s
}
