package game

import (
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

// assignLifeStages flags the first tenth of the list as elders and the last
// fifth as juveniles. List order stands in for age. Elder is never cleared.
func (g *Game) assignLifeStages() {
	n := len(g.population)
	elders := n / 10
	firstJuvenile := int(float64(n) * 0.8)

	g.juveniles = g.juveniles[:0]
	for i, e := range g.population {
		f := g.fishMap.Get(e)
		if i < elders {
			f.Elder = true
		}
		if i >= firstJuvenile {
			f.Juvenile = true
			g.juveniles = append(g.juveniles, e)
		}
	}
}

// clearJuveniles resets the juvenile flag of the fish flagged this tick.
func (g *Game) clearJuveniles() {
	for _, e := range g.juveniles {
		if g.world.Alive(e) {
			g.fishMap.Get(e).Juvenile = false
		}
	}
}

// updateFish runs every fish that was in the list when the pass began.
// Offspring appended during the pass wait for the next tick. Starved fish
// leave the grid at once and the list after the pass.
func (g *Game) updateFish() {
	g.starved = g.starved[:0]
	n := len(g.population)
	for i := 0; i < n; i++ {
		e := g.population[i]
		g.fishSys.Update(e, g.grid, g.food, g, g.rng)
		if g.fishMap.Get(e).Hunger <= 0 {
			g.grid.RemoveEverywhere(systems.Ref{E: e, Kind: components.KindFish})
			g.starved = append(g.starved, e)
		}
	}
}

// updatePredator moves the predator and removes its catch, if any.
func (g *Game) updatePredator() {
	if victim, ok := g.predSys.Update(g.predator, g.grid); ok {
		g.removeCaptured(victim)
	}
}

// trackOldest refreshes the oldest-fish record from the head of the list.
func (g *Game) trackOldest() {
	if len(g.population) == 0 {
		return
	}
	head := g.population[0]
	f := g.fishMap.Get(head)
	if g.hasOld && f.ID != g.oldest.ID && f.Age <= g.oldest.Age {
		return
	}
	g.oldest = OldestFish{
		ID:         f.ID,
		Age:        f.Age,
		Generation: g.generationOf(f.Age),
		Genome:     *g.genomeMap.Get(head),
	}
	g.hasOld = true
}
