package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// FoodPoint is a stationary feeder that refills hungry fish until it runs
// out, then stays inactive for Timeout ticks before refilling.
type FoodPoint struct {
	X, Y        float64
	Radius      int // cells
	Capacity    int
	MaxCapacity int
	Active      bool
	Timer       int // ticks spent inactive
	Timeout     int
}

// NewFoodPoint creates an active, full food point.
func NewFoodPoint(x, y float64, capacity, radius, timeout int) FoodPoint {
	return FoodPoint{
		X:           x,
		Y:           y,
		Radius:      radius,
		Capacity:    capacity,
		MaxCapacity: capacity,
		Active:      true,
		Timeout:     timeout,
	}
}

// CheckActive advances the active/inactive cycle by one step.
func (f *FoodPoint) CheckActive() {
	if f.Active {
		if f.Capacity <= 0 {
			f.Timer = 0
			f.Active = false
		}
		return
	}
	f.Timer++
	if f.Timer >= f.Timeout {
		f.Active = true
		f.Capacity = f.MaxCapacity
	}
}

// Side returns the edge length of the square drawn for the food point.
func (f *FoodPoint) Side(cellSize float64) float64 {
	return cellSize * float64(f.Radius) * 4
}

// FoodSystem feeds hungry fish near food points.
type FoodSystem struct {
	fishMap   *ecs.Map[components.Fish]
	genomeMap *ecs.Map[components.Genome]
	maxHunger int
	buf       []Ref
}

// NewFoodSystem creates a food system for the given world.
func NewFoodSystem(w *ecs.World, maxHunger int) *FoodSystem {
	return &FoodSystem{
		fishMap:   ecs.NewMap[components.Fish](w),
		genomeMap: ecs.NewMap[components.Genome](w),
		maxHunger: maxHunger,
		buf:       make([]Ref, 0, 32),
	}
}

// Update runs every food point once and returns the number of meals served.
func (s *FoodSystem) Update(grid *SpatialGrid, points []FoodPoint) int {
	meals := 0
	for i := range points {
		meals += s.feed(grid, &points[i])
	}
	return meals
}

func (s *FoodSystem) feed(grid *SpatialGrid, f *FoodPoint) int {
	meals := 0
	s.buf = grid.NeighborsInto(s.buf[:0], f.X, f.Y, f.Radius)
	for _, ref := range s.buf {
		if !f.Active || ref.Kind != components.KindFish {
			continue
		}
		fish := s.fishMap.Get(ref.E)
		genome := s.genomeMap.Get(ref.E)
		if fish.Hunger >= genome.HungerThreshold(s.maxHunger) {
			continue
		}
		f.Capacity--
		fish.Hunger = s.maxHunger
		meals++
		f.CheckActive()
	}
	f.CheckActive()
	return meals
}
